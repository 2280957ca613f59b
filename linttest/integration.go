package linttest

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// IntegrationTest runs a linter binary over test directories and
// compares its output with golden files.
//
// Every sub-directory of Dir holds a linttest.params file. Each line of
// it has the form
//
//	args ... | golden-file
//
// The binary is started inside the sub-directory with args, and its
// combined output is compared with the golden file contents.
type IntegrationTest struct {
	// Main is the package of the linter main, "." by default.
	Main string

	// Dir is the test data root, "./testdata/_integration" by default.
	Dir string
}

// Run executes integration tests.
func (cfg *IntegrationTest) Run(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skipf("go tool is not available: %v", err)
	}
	if cfg.Main == "" {
		cfg.Main = "."
	}
	if cfg.Dir == "" {
		cfg.Dir = "./testdata/_integration"
	}

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		t.Fatalf("can't get dir abs path: %v", err)
	}

	linter, err := cfg.buildLinter(t.TempDir())
	if err != nil {
		t.Fatalf("build linter: %v", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		t.Fatalf("list test files: %v", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		t.Run(e.Name(), func(t *testing.T) {
			cfg.runTest(t, linter, filepath.Join(absDir, e.Name()))
		})
	}
}

func (cfg *IntegrationTest) runTest(t *testing.T, linter, wd string) {
	data, err := os.ReadFile(filepath.Join(wd, "linttest.params"))
	if err != nil {
		t.Fatalf("reading linter run params: %v", err)
	}

	// If several tests re-use a single golden file,
	// don't read it repeatedly, just re-use its contents.
	goldenDataCache := make(map[string]string)

	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			t.Fatalf("linttest.params:%d: want `args | golden-file`", i+1)
		}
		runParams := strings.Fields(parts[0])
		goldenFile := strings.TrimSpace(parts[1])

		want, ok := goldenDataCache[goldenFile]
		if !ok {
			data, err := os.ReadFile(filepath.Join(wd, goldenFile))
			if err != nil {
				t.Errorf("read golden file: %v", err)
			}
			want = strings.TrimSpace(string(data))
			goldenDataCache[goldenFile] = want
		}

		cmd := exec.Command(linter, runParams...)
		cmd.Dir = wd
		out, err := cmd.CombinedOutput()
		out = bytes.TrimSpace(out)
		var have string
		if err != nil {
			// Error is prepended to the beginning.
			have = err.Error() + "\n" + string(out)
		} else {
			have = string(out)
		}

		// To get line-by-line diff, split is required.
		wantLines := strings.Split(want, "\n")
		haveLines := strings.Split(have, "\n")
		if diff := cmp.Diff(wantLines, haveLines); diff != "" {
			t.Errorf("linttest.params:%d: output mismatch:\n%s", i+1, diff)
			t.Logf("linter output was: %s\n", have)
		}
	}
}

func (cfg *IntegrationTest) buildLinter(dir string) (string, error) {
	linter := filepath.Join(dir, "hamlint_inttest_linter")
	out, err := exec.Command("go", "build", "-o", linter, cfg.Main).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%v: %s", err, out)
	}
	return linter, nil
}
