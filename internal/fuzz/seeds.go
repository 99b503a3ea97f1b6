package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover each family of rewrites once.
var languageSeeds = []string{
	"var f = x => x * 2;",
	"let a = 1; { let a = 2; console.log(a); }",
	"const { x, y: [z = 1] } = point;",
	"function f(a, b = 1, ...rest) { return [a, ...rest]; }",
	"class Foo extends Bar { constructor() { super(); } bar() { return 1; } }",
	"var s = `hello ${name}!`;",
	"var o = { a, [k]: 1, m() {} };",
	"for (let i = 0; i < 3; i++) { setTimeout(() => i); }",
	"var el = <div className=\"x\">{y}<br/></div>;",
	"var r = /\\u{1F600}/u; var n = 0b101 + 0o7;",
	"x **= 2;",
	"",
	"var ",
	"function (",
	"`${",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.js файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".js" && ext != ".jsx" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil || len(src) > maxSeedBytes {
			return nil
		}
		if bytes.IndexByte(src, 0) >= 0 || strings.Contains(path, "invalid") {
			return nil
		}
		f.Add(src)
		return nil
	})
	if err != nil {
		f.Fatalf("walk testdata: %v", err)
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
