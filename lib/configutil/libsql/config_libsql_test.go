package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("libsql://salamyar.turso.io"))
	require.True(t, isRemote("https://salamyar.turso.io"))
	require.False(t, isRemote("<state>/salamyar.db"))
	require.False(t, isRemote(":memory:"))
}

func TestOpenDB(t *testing.T) {
	_, err := Struct{}.OpenDB()
	require.Error(t, err)

	db, err := Struct{File: ":memory:"}.OpenDB()
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("create table t(a integer)")
	require.NoError(t, err)

	t.Setenv("SALAMYAR_STATE_DIR", t.TempDir())
	filedb, err := Struct{File: filepath.Join("<state>", "nested", "test.db")}.OpenDB()
	require.NoError(t, err)
	defer filedb.Close()
	require.NoError(t, filedb.Ping())
}
