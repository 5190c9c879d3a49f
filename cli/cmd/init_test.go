package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Init Init `cmd:""`
}

// parseInit parses args as an init command writing to path.
func parseInit(t *testing.T, path string, args ...string) (*initCLI, context.Context) {
	t.Helper()

	vars := maps.Clone(Vars())
	vars[ConfigIdentifier] = path

	var c initCLI

	parser, err := kong.New(&c, vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &c, WithContext(context.Background(), ktx)
}

func readConfig(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid YAML %q: %v", data, err)
	}

	return doc[ConfigIdentifier]
}

// TestInitRun tests that flag values given to init are written under the
// config key.
func TestInitRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, ctx := parseInit(t, path, "--style", "compressed", "--precision", "5", "-I", "vendor")

	if err := c.Init.Run(ctx); err != nil {
		t.Fatal(err)
	}

	conf := readConfig(t, path)

	if conf["style"] != "compressed" {
		t.Errorf("style = %v", conf["style"])
	}

	if fmt.Sprint(conf["precision"]) != "5" {
		t.Errorf("precision = %#v", conf["precision"])
	}

	if conf["strict"] != true {
		t.Errorf("strict = %v", conf["strict"])
	}

	if _, ok := conf["force"]; ok {
		t.Error("force flag written to configuration")
	}

	if _, ok := conf["define"]; ok {
		t.Error("empty define written to configuration")
	}
}

// TestInitRunExists tests that an existing configuration is only replaced
// with --force.
func TestInitRunExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(path, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, ctx := parseInit(t, path)

	err := c.Init.Run(ctx)
	if !errors.Is(err, ErrFileExists) {
		t.Fatalf("error = %v, want ErrFileExists", err)
	}

	if data, _ := os.ReadFile(path); string(data) != "keep" {
		t.Errorf("file overwritten: %q", data)
	}

	c, ctx = parseInit(t, path, "--force", "--style", "expanded")

	if err := c.Init.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if conf := readConfig(t, path); conf["style"] != "expanded" {
		t.Errorf("style = %v", conf["style"])
	}
}
