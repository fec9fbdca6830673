package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

const ideGrid = `name: ide
bounds: {x: 0, y: 0, width: 1600, height: 900}
cells:
  - {x: 0, y: 0, width: 1, height: 2, contents: [editor, preview], selected: editor}
  - {x: 1, y: 0, width: 1, height: 1, contents: [console]}
  - {x: 1, y: 1, width: 1, height: 1, placeholders: [dock.files]}
`

// newTestCLI points the config and the file store at temporary directories
// and captures the printed output.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var buf bytes.Buffer
	prev := output
	output = &buf
	t.Cleanup(func() { output = prev })

	return New(io.Discard, log.InfoLevel), &buf
}

// run executes the root command with args and returns what the command wrote
// to its own stdout.
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeGrid(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ide.yaml")
	if err := os.WriteFile(path, []byte(ideGrid), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAndShow(t *testing.T) {
	c, out := newTestCLI(t)
	grid := writeGrid(t)

	if _, err := run(t, c, "build", grid, "--save", "main", "--preview"); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{"editor", "console", "dock.files", "Saved layout"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("build output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if _, err := run(t, c, "show", "main"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "editor +1") {
		t.Errorf("show output missing stacked label:\n%s", out.String())
	}
}

func TestBuildUsesShapeCache(t *testing.T) {
	c, out := newTestCLI(t)
	grid := writeGrid(t)

	for range 2 {
		if _, err := run(t, c, "build", grid); err != nil {
			t.Fatalf("build: %v", err)
		}
	}
	names, err := c.layoutNames(context.Background())
	if err != nil {
		t.Fatalf("layoutNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("layoutNames = %v, shapes must not be listed as layouts", names)
	}
	if out.Len() == 0 {
		t.Error("build printed nothing")
	}
}

func TestBuildRejectsBadGrid(t *testing.T) {
	c, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("cells: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, c, "build", path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("build error = %v, want INVALID_INPUT", err)
	}
}

func TestAddressAndReplay(t *testing.T) {
	c, out := newTestCLI(t)
	if _, err := run(t, c, "build", writeGrid(t), "--save", "main"); err != nil {
		t.Fatalf("build: %v", err)
	}

	text, err := run(t, c, "address", "main", "console", "-f", "text")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("text address is empty")
	}

	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"xml", []string{"-f", "xml"}},
		{"binary", []string{"-f", "binary"}},
		{"old version", []string{"-f", "binary", "--format-version", "1.0.7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-")+".addr")
			args := append([]string{"address", "main", "console", "-o", file}, tt.args...)
			if _, err := run(t, c, args...); err != nil {
				t.Fatalf("address: %v", err)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := readAddress(data); err != nil {
				t.Fatalf("readAddress: %v", err)
			}

			out.Reset()
			if _, err := run(t, c, "replay", "main", file); err != nil {
				t.Fatalf("replay: %v", err)
			}
			if !strings.Contains(out.String(), "Replayed") {
				t.Errorf("replay output = %q", out.String())
			}
		})
	}
}

func TestAddressErrors(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "build", writeGrid(t), "--save", "main"); err != nil {
		t.Fatalf("build: %v", err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown node", []string{"address", "main", "nowhere"}, errors.ErrCodeNotFound},
		{"binary to stdout", []string{"address", "main", "console", "-f", "binary"}, errors.ErrCodeInvalidInput},
		{"unknown format", []string{"address", "main", "console", "-f", "yaml"}, errors.ErrCodeInvalidInput},
		{"unknown layout", []string{"address", "other", "console"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, c, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCheckAndRender(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "build", writeGrid(t), "--save", "main"); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := run(t, c, "check", "main"); err != nil {
		t.Fatalf("check: %v", err)
	}

	dir := t.TempDir()
	tests := []struct {
		file   string
		args   []string
		prefix string
	}{
		{"main.svg", []string{"--highlight", "editor"}, "<svg"},
		{"main.txt", nil, "+"},
		{"main.dot", []string{"--view", "tree", "--detailed"}, "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			args := append([]string{"render", "main", "-o", path}, tt.args...)
			if _, err := run(t, c, args...); err != nil {
				t.Fatalf("render: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("%s starts with %q, want %q", tt.file, string(data[:min(len(data), 20)]), tt.prefix)
			}
		})
	}

	_, err := run(t, c, "render", "main", "-o", filepath.Join(dir, "main.dot"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("blocks view as dot: error = %v, want UNSUPPORTED", err)
	}
}

func TestStoreCommands(t *testing.T) {
	c, out := newTestCLI(t)
	grid := writeGrid(t)
	for _, name := range []string{"main", "alt"} {
		if _, err := run(t, c, "build", grid, "--save", name); err != nil {
			t.Fatalf("build: %v", err)
		}
	}

	list, err := run(t, c, "store", "list")
	if err != nil {
		t.Fatalf("store list: %v", err)
	}
	if got := strings.Fields(list); len(got) != 2 || got[0] != "alt" || got[1] != "main" {
		t.Errorf("store list = %v, want [alt main]", got)
	}

	path, err := run(t, c, "store", "path")
	if err != nil {
		t.Fatalf("store path: %v", err)
	}
	if !strings.Contains(path, filepath.Join("docktree", "layouts")) {
		t.Errorf("store path = %q", path)
	}

	if _, err := run(t, c, "store", "delete", "alt"); err != nil {
		t.Fatalf("store delete: %v", err)
	}
	if list, _ = run(t, c, "store", "list"); strings.TrimSpace(list) != "main" {
		t.Errorf("after delete: store list = %q", list)
	}

	if _, err := run(t, c, "store", "clear"); err != nil {
		t.Fatalf("store clear: %v", err)
	}
	out.Reset()
	if list, _ = run(t, c, "store", "list"); list != "" {
		t.Errorf("after clear: store list = %q", list)
	}
	if !strings.Contains(out.String(), "No layouts stored") {
		t.Errorf("after clear: output = %q", out.String())
	}
}

func TestConfigFile(t *testing.T) {
	c, _ := newTestCLI(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[store]\nbackend = \"none\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "--config", cfg, "build", writeGrid(t), "--save", "main"); err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err := run(t, c, "--config", cfg, "show", "main")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("show with disabled store: error = %v, want NOT_FOUND", err)
	}

	if err := os.WriteFile(cfg, []byte("[store]\nbackend = \"tape\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "--config", cfg, "store", "list"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend: error = %v, want INVALID_INPUT", err)
	}
}

func TestNodeArg(t *testing.T) {
	shape := split.Horizontal(0.5,
		split.Leaf("a"),
		split.Vertical(0.5, split.Leaf("7"), split.Hole("slot.c")),
	)
	shape.ID, shape.Left.ID, shape.Right.ID = 1, 2, 3
	shape.Right.Left.ID, shape.Right.Right.ID = 4, 5
	tree, err := split.NewFromShape(shape, split.WithBounds(geom.Rect{Width: 100, Height: 100}))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg     string
		want    split.NodeID
		wantErr bool
	}{
		{"2", 2, false},
		{"a", 2, false},
		{"5", 5, false},
		{"7", 4, false},
		{"99", split.NoID, true},
		{"b", split.NoID, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := nodeArg(tree, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("nodeArg(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("nodeArg(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestReadAddressGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("<address"), []byte{0xff, 0x01}} {
		if _, err := readAddress(data); err == nil {
			t.Errorf("readAddress(%q) succeeded", data)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{":8080": ":8080", "localhost:9000": ":9000", "": ""}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompletion(t *testing.T) {
	c, _ := newTestCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		script, err := run(t, c, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(script, "docktree") {
			t.Errorf("completion %s does not mention docktree", shell)
		}
	}
	if _, err := run(t, c, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
