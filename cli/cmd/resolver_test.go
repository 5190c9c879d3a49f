package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/scss/pkg"
)

func TestLoadPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"flag/_a.scss": "",
		"env/_b.scss":  "",
	})

	flagDir := filepath.Join(dir, "flag")
	envDir := filepath.Join(dir, "env")
	missing := filepath.Join(dir, "missing")

	t.Setenv(LoadPathEnv, envDir)

	got := LoadPaths(flagDir, missing)
	if want := []string{flagDir, envDir}; !slices.Equal(got, want) {
		t.Errorf("LoadPaths = %q, want %q", got, want)
	}
}

func TestFileResolver(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/main.scss":        "",
		"src/_local.scss":      "$l: 1;",
		"src/lib/_nested.scss": "$n: 1;",
		"vendor/_shared.scss":  "$s: 1;",
		"vendor/plain.scss":    "$p: 1;",
		"src/_shadowed.scss":   "$src: 1;",
		"vendor/shadowed.scss": "$vendor: 1;",
		"outside/_secret.scss": "$x: 1;",
	})

	r := FileResolver{LoadPaths: []string{filepath.Join(dir, "vendor")}}
	from := filepath.Join(dir, "src", "main.scss")

	tests := []struct {
		name     string
		target   string
		wantPath string
		wantText string
		wantErr  bool
	}{
		{name: "partial beside importer", target: "local", wantPath: "src/_local.scss", wantText: "$l: 1;"},
		{name: "subdirectory", target: "lib/nested", wantPath: "src/lib/_nested.scss", wantText: "$n: 1;"},
		{name: "load path partial", target: "shared", wantPath: "vendor/_shared.scss", wantText: "$s: 1;"},
		{name: "load path plain", target: "plain.scss", wantPath: "vendor/plain.scss", wantText: "$p: 1;"},
		{name: "importer directory first", target: "shadowed", wantPath: "src/_shadowed.scss", wantText: "$src: 1;"},
		{name: "missing", target: "nope", wantErr: true},
		{name: "parent directory", target: "../outside/secret", wantErr: true},
		{name: "absolute", target: filepath.Join(dir, "outside", "_secret.scss"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := r.Resolve(context.Background(), from, tt.target)
			if tt.wantErr {
				if !errors.Is(err, pkg.ErrImport) {
					t.Errorf("error = %v, want ErrImport", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if want := filepath.Join(dir, filepath.FromSlash(tt.wantPath)); src.Path != want {
				t.Errorf("path = %q, want %q", src.Path, want)
			}

			if src.Text != tt.wantText {
				t.Errorf("text = %q, want %q", src.Text, tt.wantText)
			}
		})
	}
}

func TestEscapes(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a", false},
		{"a/b", false},
		{"a..b", false},
		{"../a", true},
		{"a/../../b", true},
		{"/a", true},
	}

	for _, tt := range tests {
		if got := escapes(tt.name); got != tt.want {
			t.Errorf("escapes(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
