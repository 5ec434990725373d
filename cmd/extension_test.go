package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	// nw-hello prints the environment it received.
	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	for _, k := range []string{%q, %q, %q} {
		fmt.Printf("%%s=%%s\n", k, os.Getenv(k))
	}
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvStorageKind, EnvStoragePath, EnvVerbose)

	helloPath := filepath.Join(tempDir, "nw-hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write nw-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile nw-hello: %v", err)
	}

	nwPath := filepath.Join(tempDir, "nw")
	build = exec.Command("go", "build", "-o", nwPath, "../nw")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile nw: %v", err)
	}

	bookPath := filepath.Join(tempDir, "book.db")
	nw := exec.Command(nwPath, "-store", "sqlite", "-path", bookPath, "-v", "hello", "world")
	nw.Env = []string{
		"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		"HOME=" + tempDir,
		"NW_CONFIG=" + filepath.Join(tempDir, "none.yaml"),
	}
	var stdout, stderr bytes.Buffer
	nw.Stdout = &stdout
	nw.Stderr = &stderr
	if err := nw.Run(); err != nil {
		t.Fatalf("nw failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		EnvStorageKind + "=sqlite",
		EnvStoragePath + "=" + bookPath,
		EnvVerbose + "=true",
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}
