package linttest

import (
	"sort"
	"strings"
	"testing"
)

type goldenFile struct {
	warnings map[int][]*warning
}

type warning struct {
	matched bool
	text    string
}

func (w warning) String() string {
	return w.text
}

func newGoldenFile(data []byte) *goldenFile {
	lines := strings.Split(string(data), "\n")

	warnings := make(map[int][]*warning)
	var pending []*warning

	for i, l := range lines {
		if m := warningDirectiveRE.FindStringSubmatch(l); m != nil {
			pending = append(pending, &warning{text: strings.TrimSpace(m[1])})
		} else if len(pending) != 0 {
			line := i + 1
			warnings[line] = append(warnings[line], pending...)
			pending = pending[:0]
		}
	}
	return &goldenFile{warnings: warnings}
}

// find returns the first unmatched warning expected at line with text.
func (f *goldenFile) find(line int, text string) *warning {
	for _, y := range f.warnings[line] {
		if !y.matched && text == y.text {
			return y
		}
	}
	return nil
}

func (f *goldenFile) checkUnmatched(t *testing.T, testFilename string) {
	lines := make([]int, 0, len(f.warnings))
	for line := range f.warnings {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	for _, line := range lines {
		for _, w := range f.warnings[line] {
			if w.matched {
				continue
			}
			t.Errorf("%s:%d: unmatched `%s`", testFilename, line, w)
		}
	}
}
