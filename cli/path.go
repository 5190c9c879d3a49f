package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/scss/pkg"
)

// baseConfig is the base name of the configuration files and the key
// holding flag values inside them.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// exeRenames rewrite the executable base name before it names the
// configuration and cache directories.
var exeRenames = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv output
	{regexp.MustCompile(`^\.+`), ""},
}

// basePrefix is the directory name under the user's configuration and
// cache directories: the executable name without extension, or [pkg.Name]
// when that is empty.
var basePrefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, r := range exeRenames {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	if id == "" {
		return pkg.Name
	}

	return id
})

// userDir returns the basePrefix directory under the directory reported by
// user, falling back to home/.hidden and then to the working directory.
func userDir(user func() (string, error), hidden string) string {
	dir, err := user()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
