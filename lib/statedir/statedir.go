package statedir

import (
	"os"
	"path/filepath"
	"strings"
)

const Prefix = "<state>"

// EnvOverride names the environment variable that replaces the default
// state directory.
const EnvOverride = "SALAMYAR_STATE_DIR"

// Dir returns the directory persisted client state lives in, creating it if
// needed. It is $SALAMYAR_STATE_DIR when set, otherwise
// <user config dir>/salamyar.
func Dir() (string, error) {
	dir, ok := os.LookupEnv(EnvOverride)
	if !ok || dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "salamyar")
	}
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return "", err
	}
	return dir, nil
}

// ResolvePath replaces a leading "<state>" path segment with Dir(). Other
// paths are returned as-is.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, Prefix) {
		return path, nil
	}

	root, err := Dir()
	if err != nil {
		return "", err
	}
	subpath := strings.TrimLeft(strings.TrimPrefix(path, Prefix), `/\`)
	return filepath.Join(root, subpath), nil
}
