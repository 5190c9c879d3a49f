package lang

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/ardnew/scss/lang/value"
	"github.com/ardnew/scss/pkg"
)

// Resolver loads the source named by an @import. from is the path of the
// importing source, empty for anonymous sources.
type Resolver interface {
	Resolve(ctx context.Context, from, name string) (Source, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, from, name string) (Source, error)

func (f ResolverFunc) Resolve(ctx context.Context, from, name string) (Source, error) {
	return f(ctx, from, name)
}

// Candidates returns the paths an import of name may refer to, most
// preferred first: the partial "_name.scss", then "name.scss". An
// explicit ".scss" extension is kept.
func Candidates(name string) []string {
	dir, file := path.Split(name)
	if !strings.HasSuffix(file, ".scss") {
		file += ".scss"
	}

	if strings.HasPrefix(file, "_") {
		return []string{dir + file}
	}

	return []string{dir + "_" + file, dir + file}
}

// MapResolver resolves imports against an in-memory set of files, keyed
// by slash-separated path. Names are looked up relative to the directory
// of the importing file, then relative to each load path.
type MapResolver struct {
	Files     map[string]string
	LoadPaths []string
}

func (m MapResolver) Resolve(_ context.Context, from, name string) (Source, error) {
	if escapes(name) {
		return Source{}, pkg.ErrImport.Errorf("%q leaves the load path", name)
	}

	dirs := []string{path.Dir(from)}
	if from == "" {
		dirs = []string{"."}
	}

	dirs = append(dirs, m.LoadPaths...)

	for _, dir := range dirs {
		for _, c := range Candidates(name) {
			p := path.Clean(path.Join(dir, c))
			if text, ok := m.Files[p]; ok {
				return NewSource(p, text), nil
			}
		}
	}

	return Source{}, pkg.ErrImport.Errorf("%q not found", name)
}

// escapes reports whether name climbs above the directory it is resolved
// against.
func escapes(name string) bool {
	if path.IsAbs(name) {
		return true
	}

	return slices.Contains(strings.Split(path.Clean(name), "/"), "..")
}

// isCSSImport reports whether an @import argument is left for the browser
// to load.
func isCSSImport(v value.Value) bool {
	s, ok := v.(value.String)
	if !ok {
		return true
	}

	text := strings.ToLower(s.Text)

	switch {
	case !s.Quoted && strings.HasPrefix(text, "url("):
		return true
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		return true
	case strings.HasSuffix(text, ".css"):
		return true
	}

	return false
}

// importDirective expands each imported source inline, once per scope
// chain. Imports of plain CSS are kept as @import statements.
func (s *Session) importDirective(f *frame, arg string) error {
	v, err := s.evaluate(f, arg)
	if err != nil {
		return err
	}

	if l, ok := v.(value.List); ok && l.Comma {
		for _, item := range l.Items {
			if err := s.importOne(f, item); err != nil {
				return err
			}
		}

		return nil
	}

	return s.importOne(f, v)
}

func (s *Session) importOne(f *frame, v value.Value) error {
	if isCSSImport(v) {
		text, err := v.Render(s.valueOptions())
		if err != nil {
			return err
		}

		f.rule.Properties = append(f.rule.Properties, Property{Name: "@import " + text})

		return nil
	}

	name := value.Text(v)

	if s.opts.resolver == nil {
		return pkg.ErrImport.Errorf("no resolver for %q", name)
	}

	from := ""
	if src, ok := s.sources[f.origin]; ok {
		from = src.Path
	}

	src, err := s.opts.resolver.Resolve(s.ctx, from, name)
	if err != nil {
		if !errors.Is(err, pkg.ErrImport) {
			err = pkg.ErrImport.Wrap(err)
		}

		return pkg.WrapError(err).With(slog.String("import", name))
	}

	key := src.Key()
	if !s.ns.MarkImported(f.scope, key) {
		s.opts.logger.DebugContext(s.ctx, "skip repeated @import", slog.String("source", src.Name()))

		return nil
	}

	s.sources[key] = src

	s.opts.logger.TraceContext(s.ctx, "import",
		slog.String("source", src.Name()),
		slog.String("from", f.file),
	)

	child := *f
	child.file = src.Name()
	child.origin = key
	child.depth++

	_, err = s.expand(child, StripComments(src.Text), 1)

	return err
}
