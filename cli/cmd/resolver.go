package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/scss/lang"
	"github.com/ardnew/scss/log"
	"github.com/ardnew/scss/pkg"
)

// LoadPathEnv names the environment variable holding extra @import
// directories, separated like PATH.
const LoadPathEnv = "SASS_PATH"

// LoadPaths returns dirs followed by the directories listed in
// [LoadPathEnv]. Entries that are not directories are dropped.
func LoadPaths(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(LoadPathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	if list == "" {
		return nil
	}

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// FileResolver loads @import targets from the filesystem: first beside the
// importing file, then from each load path in order.
type FileResolver struct {
	LoadPaths []string
}

// Resolve implements [lang.Resolver].
func (r FileResolver) Resolve(ctx context.Context, from, name string) (lang.Source, error) {
	if escapes(name) {
		return lang.Source{}, pkg.ErrImport.Errorf("import path %q leaves its directory", name)
	}

	dirs := make([]string, 0, len(r.LoadPaths)+1)

	if from != "" {
		dirs = append(dirs, filepath.Dir(from))
	} else {
		dirs = append(dirs, ".")
	}

	dirs = append(dirs, r.LoadPaths...)

	for _, dir := range dirs {
		for _, cand := range lang.Candidates(name) {
			path := filepath.Join(dir, filepath.FromSlash(cand))

			file, err := os.Open(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			if err != nil {
				return lang.Source{}, pkg.ErrImport.Wrap(err).
					With(slog.String("path", path))
			}

			log.TraceContext(ctx, "import resolved",
				slog.String("name", name),
				slog.String("path", path),
			)

			src, err := lang.ReadSource(ctx, path, file)
			file.Close()

			return src, err
		}
	}

	return lang.Source{}, pkg.ErrImport.Errorf("file to import not found or unreadable: %s", name)
}

func escapes(name string) bool {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return true
	}

	for _, elem := range strings.Split(filepath.ToSlash(name), "/") {
		if elem == ".." {
			return true
		}
	}

	return false
}
