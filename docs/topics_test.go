package docs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestIndex(t *testing.T) {
	if len(Index()) == 0 {
		t.Fatal("readme.md lists no topic")
	}
	for _, topic := range Index() {
		if topic.Summary == "" {
			t.Errorf("topic %q has no summary", topic.Name)
		}
		if _, err := Read(topic.Name); err != nil {
			t.Errorf("Read(%q) error = %v", topic.Name, err)
		}
	}

	pages, err := fs.Glob(files, "*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, page := range pages {
		name := strings.TrimSuffix(page, ".md")
		if name != "readme" && !slices.Contains(Names(), name) {
			t.Errorf("%s is not listed in readme.md", page)
		}
	}
}

func TestRead(t *testing.T) {
	readme, err := Read()
	if err != nil || !strings.HasPrefix(readme, "# Documentation") {
		t.Errorf("Read() = %.20q, %v, want the readme", readme, err)
	}

	all, err := Read("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, heading := range []string{"# Valuation", "# Categories", "# Pledge", "# Sync", "# Storage"} {
		if !strings.Contains(all, heading) {
			t.Errorf("Read(*) has no %q", heading)
		}
	}

	if _, err := Read("valuation", "ledger"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("Read(ledger) error = %v, want %v", err, ErrUnknownTopic)
	}
}

func TestGuide(t *testing.T) {
	guide, err := Guide()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(guide, "weighted average") || !strings.Contains(guide, "maintenance ratio") {
		t.Errorf("Guide() does not explain costs and pledges:\n%s", guide)
	}
}

// TestExamples runs the command examples of every topic against a fresh
// build of nw. Each "bash setup" block starts a new book in a new folder, the
// "bash check" blocks that follow must succeed in that folder.
func TestExamples(t *testing.T) {
	if testing.Short() {
		t.Skip("builds nw")
	}
	bin := t.TempDir()
	build := exec.Command("go", "build", "-o", filepath.Join(bin, "nw"), "../nw")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build nw: %v\n%s", err, out)
	}
	path := "PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH")

	for _, topic := range Index() {
		for _, sc := range scenarios(t, topic.Name) {
			t.Run(fmt.Sprintf("%s:%d", topic.Name, sc.line), func(t *testing.T) {
				sc.run(t, path)
			})
		}
	}
}

// snippet is a fenced code block with its line in the topic.
type snippet struct {
	line   int
	script string
}

// scenario is a setup and the checks run against it.
type scenario struct {
	snippet
	checks []snippet
}

func (sc scenario) run(t *testing.T, path string) {
	dir := t.TempDir()
	// only PATH is inherited, no NW_* setting leaks in.
	env := []string{
		path,
		"HOME=" + dir,
		"NW_STORAGE_KIND=dir",
		"NW_STORAGE_PATH=" + filepath.Join(dir, "book"),
		"NW_CONFIG=" + filepath.Join(dir, "config.yaml"),
	}
	bash := func(s snippet) ([]byte, error) {
		c := exec.Command("bash", "-c", "set -e\n"+s.script)
		c.Dir = dir
		c.Env = env
		return c.CombinedOutput()
	}
	if out, err := bash(sc.snippet); err != nil {
		t.Fatalf("line %d: setup failed: %v\n%s", sc.line, err, out)
	}
	for _, check := range sc.checks {
		if out, err := bash(check); err != nil {
			t.Errorf("line %d: check failed: %v\n%s\n%s", check.line, err, check.script, out)
		}
	}
}

// scenarios extracts the scenarios of a topic. A check before any setup is
// an error.
func scenarios(t *testing.T, topic string) []scenario {
	t.Helper()
	src, err := files.ReadFile(topic + ".md")
	if err != nil {
		t.Fatal(err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var list []scenario
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || block.Info == nil {
			return ast.WalkContinue, nil
		}
		info := block.Info.Segment
		var script strings.Builder
		for i := 0; i < block.Lines().Len(); i++ {
			seg := block.Lines().At(i)
			script.Write(seg.Value(src))
		}
		s := snippet{line: bytes.Count(src[:info.Start], []byte("\n")) + 1, script: script.String()}

		switch string(info.Value(src)) {
		case "bash setup":
			list = append(list, scenario{snippet: s})
		case "bash check":
			if len(list) == 0 {
				return ast.WalkStop, fmt.Errorf("%s.md:%d: check without setup", topic, s.line)
			}
			list[len(list)-1].checks = append(list[len(list)-1].checks, s)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return list
}
