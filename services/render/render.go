// Package render draws the client's state as terminal tables.
package render

import (
	"fmt"
	"io"
	"salamyar/lib/locale"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	AppTitle    = "سلامیار"
	AppSubtitle = "جستجوی هوشمند محصولات"
	Welcome     = "به سلامیار خوش آمدید"
	WelcomeHint = "برای شروع، نام محصول مورد نظر خود را جستجو کنید. ما بهترین فروشندگان را برای شما پیدا می‌کنیم."
	errorTitle  = "خطا"
)

type Renderer struct {
	out    io.Writer
	format locale.Formatter
}

func New(out io.Writer, format locale.Formatter) Renderer {
	return Renderer{out: out, format: format}
}

func (r Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(r.out)
	return t
}

func (r Renderer) line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Error prints a user-facing error message, nothing when it is empty.
func (r Renderer) Error(message string) {
	if message == "" {
		return
	}
	r.line("%s: %s", text.FgRed.Sprint(errorTitle), message)
}

func (r Renderer) Banner() {
	r.line("%s - %s", text.Bold.Sprint(AppTitle), AppSubtitle)
}

func (r Renderer) Welcome() {
	r.line(Welcome)
	r.line(WelcomeHint)
}
