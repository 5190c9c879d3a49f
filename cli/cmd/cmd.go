package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" outside of a kong run.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// input is one stylesheet to compile.
type input struct {
	// path is "" for stdin.
	path string
	r    io.Reader
}

func (in input) Close() error {
	if c, ok := in.r.(io.Closer); ok && in.path != "" {
		return c.Close()
	}

	return nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openInputs opens each of the given source paths once.
//
// Duplicates are detected by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" collapse into a single stdin input, placed
// last. Paths that cannot be opened are returned in failed.
func openInputs(sources []string) (inputs []input, failed []string) {
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		in, ok, dup := openUniqueFile(src, seen)
		if dup {
			continue
		}

		if !ok {
			failed = append(failed, src)

			continue
		}

		inputs = append(inputs, in)
	}

	// Stdin may have been included via "-" or as a named file.
	if _, ok := seen[stdinKey]; ok {
		inputs = append(inputs, input{r: os.Stdin})
	}

	return inputs, failed
}

// openUniqueFile opens the file at path if it hasn't been seen before.
func openUniqueFile(path string, seen map[fileKey]struct{}) (in input, ok, dup bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return in, false, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return in, false, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return in, false, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return in, false, false
	}

	if _, exists := seen[key]; exists {
		return in, false, true
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return in, false, false
	}

	return input{path: path, r: file}, true, false
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
