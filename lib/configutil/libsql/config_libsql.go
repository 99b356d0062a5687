package configlibsql

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"salamyar/lib/statedir"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct is the database section of a config file. `file` is either a local
// sqlite path (may start with "<state>"), ":memory:", or a libsql URL
// (libsql://, https://, http://, ws://, wss://).
type Struct struct {
	File string `json:"file"`
}

func isRemote(file string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(file, scheme) {
			return true
		}
	}
	return false
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if isRemote(config.File) {
		return sql.Open("libsql", config.File)
	}

	dbpath := config.File
	if dbpath != ":memory:" {
		var err error
		dbpath, err = statedir.ResolvePath(config.File)
		if err != nil {
			return nil, err
		}
		err = os.MkdirAll(filepath.Dir(dbpath), 0700)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite only tolerates a single writer, and an in-memory database only
	// lives as long as its one connection.
	db.SetMaxOpenConns(1)
	if dbpath != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
