package main

import (
	"salamyar/cmd/salamyar/cmd"
)

func main() {
	cmd.Execute()
}
