package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JoeySoprano420/PySys/pkg/tokenizer"
)

func runCLI(t *testing.T, input string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestJSONOutput(t *testing.T) {
	stdout, stderr, code := runCLI(t, "x = 1 @")

	expected := `{"kind":"IDENTIFIER","lexeme":"x","start":0,"end":1}
{"kind":"OPERATOR","lexeme":"=","start":2,"end":3}
{"kind":"NUMBER","lexeme":"1","start":4,"end":5}
{"kind":"ERROR","lexeme":"@","start":6,"end":7,"reason":"unmatched character"}
`
	if stdout != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, stdout)
	}
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "line 1, column 7") {
		t.Errorf("Expected the error position on stderr, got %q", stderr)
	}
}

func TestExit0SuppressesErrors(t *testing.T) {
	stdout, stderr, code := runCLI(t, "x = 1 @", "--exit0")
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if stderr != "" {
		t.Errorf("Expected empty stderr, got %q", stderr)
	}
	if strings.Count(stdout, "\n") != 4 {
		t.Errorf("Expected 4 tokens, got:\n%s", stdout)
	}
}

func TestSummaryFormat(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name: "First appearance",
			args: []string{"--format", "summary", "--no-color"},
			expected: "Token Summary Report:\n" +
				"NUMBER: 1 instances\n" +
				"OPERATOR: 1 instances\n" +
				"IDENTIFIER: 3 instances\n",
		},
		{
			name: "By count",
			args: []string{"--format", "summary", "--no-color", "--sort", "count"},
			expected: "Token Summary Report:\n" +
				"IDENTIFIER: 3 instances\n" +
				"NUMBER: 1 instances\n" +
				"OPERATOR: 1 instances\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, "1 + a b c", tt.args...)
			if code != 0 {
				t.Fatalf("Expected exit code 0, got %d: %s", code, stderr)
			}
			if stdout != tt.expected {
				t.Errorf("Expected:\n%s\ngot:\n%s", tt.expected, stdout)
			}
		})
	}
}

func TestHighlightFormat(t *testing.T) {
	input := "if x:\n    return 0x1F  # done\n"
	stdout, _, code := runCLI(t, input, "--format", "highlight", "--no-color")
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if stdout != input {
		t.Errorf("Expected %q, got %q", input, stdout)
	}
}

func TestParallelFlags(t *testing.T) {
	input := "def f(a, b):\n    return a ** b  # power\n"
	sequential, _, _ := runCLI(t, input)

	for _, args := range [][]string{
		{"--parallel", "--segments", "3"},
		{"--parallel", "--segments", "7", "--workers", "2"},
		{"--boundaries", "5,17"},
		{"--boundaries", "2", "--straddle", "resync"},
	} {
		stdout, stderr, code := runCLI(t, input, args...)
		if code != 0 {
			t.Fatalf("%v: expected exit code 0, got %d: %s", args, code, stderr)
		}
		if stdout != sequential {
			t.Errorf("%v: parallel output differs from sequential", args)
		}
	}
}

func TestInvalidOptions(t *testing.T) {
	for _, args := range [][]string{
		{"--parallel", "--segments", "0"},
		{"--boundaries", "4,x"},
		{"--boundaries", "9,3"},
		{"--workers", "0"},
		{"--straddle", "sideways"},
		{"--format", "xml"},
		{"--sort", "alphabetical"},
		{"stray"},
	} {
		_, stderr, code := runCLI(t, "x = 1", args...)
		if code != 1 {
			t.Errorf("%v: expected exit code 1, got %d", args, code)
		}
		if stderr == "" {
			t.Errorf("%v: expected a message on stderr", args)
		}
	}
}

func TestStraddleRejectFlag(t *testing.T) {
	_, stderr, code := runCLI(t, `"a b" "c"`, "--boundaries", "2", "--straddle", "reject")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "straddles") {
		t.Errorf("Expected a straddle error, got %q", stderr)
	}
}

func TestRulesFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	rules := `rules:
  - kind: WORD
    pattern: '[a-z]+'
  - kind: SPACE
    class: whitespace
    pattern: ' +'
options:
  elide_whitespace: false
`
	if err := os.WriteFile(rulesPath, []byte(rules), 0o644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	stdout, _, code := runCLI(t, "ab cd", "--rules", rulesPath)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if strings.Count(stdout, `"kind":"SPACE"`) != 1 {
		t.Errorf("Expected the rules file to keep whitespace, got:\n%s", stdout)
	}

	// An explicit flag wins over the rules file.
	stdout, _, _ = runCLI(t, "ab cd", "--rules", rulesPath, "--keep-whitespace=false")
	if strings.Contains(stdout, `"kind":"SPACE"`) {
		t.Errorf("Expected --keep-whitespace=false to elide whitespace, got:\n%s", stdout)
	}

	_, stderr, code := runCLI(t, "", "--rules", filepath.Join(dir, "missing.yaml"))
	if code != 1 || !strings.Contains(stderr, "Error loading rules file") {
		t.Errorf("Expected a load error, got %d %q", code, stderr)
	}
}

func TestInputOutputFiles(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "source.py")
	outputPath := filepath.Join(dir, "tokens.json")
	if err := os.WriteFile(inputPath, []byte("pass"), 0o644); err != nil {
		t.Fatalf("Failed to write input file: %v", err)
	}

	stdout, _, code := runCLI(t, "", "--input", inputPath, "--output", outputPath)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	expected := `{"kind":"KEYWORDS","lexeme":"pass","start":0,"end":4}` + "\n"
	if string(data) != expected {
		t.Errorf("Expected %q, got %q", expected, string(data))
	}
}

func TestMakeRules(t *testing.T) {
	stdout, _, code := runCLI(t, "", "--make-rules")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}

	rules, err := tokenizer.ParseRulesFile([]byte(stdout))
	if err != nil {
		t.Fatalf("Generated rules do not parse: %v", err)
	}
	if len(rules.Rules) != tokenizer.DefaultRules().Len() {
		t.Errorf("Expected %d rules, got %d", tokenizer.DefaultRules().Len(), len(rules.Rules))
	}
}

func TestHelpAndVersion(t *testing.T) {
	_, stderr, code := runCLI(t, "", "--help")
	if code != 0 || !strings.Contains(stderr, "Usage:") {
		t.Errorf("Expected usage on stderr, got %d %q", code, stderr)
	}

	stdout, _, code := runCLI(t, "", "-v")
	if code != 0 || stdout != "pysys-tokenizer version "+version+"\n" {
		t.Errorf("Unexpected version output %d %q", code, stdout)
	}
}
