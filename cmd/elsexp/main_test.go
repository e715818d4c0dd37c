package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:    "fmt",
			args:    []string{"fmt"},
			stdin:   "  (a   . (b c))\n'x  \"s\"\t1.50 ",
			wantOut: "(a b c)\n'x\n\"s\"\n1.50\n",
		},
		{
			name:     "fmt syntax error",
			args:     []string{"fmt"},
			stdin:    "(a\n  ]",
			wantCode: 1,
			wantErr:  "line 2, column 3",
		},
		{
			name:     "fmt check canonical",
			args:     []string{"fmt", "-check"},
			stdin:    "(a b)\n1\n",
			wantCode: 0,
		},
		{
			name:     "fmt check not canonical",
			args:     []string{"fmt", "-check"},
			stdin:    "(a  b)",
			wantCode: 1,
		},
		{
			name:    "json",
			args:    []string{"json"},
			stdin:   `(1 2.5 "x" nil) ((a . 1))`,
			wantOut: "[1,2.5,\"x\",null]\n[[\"a\",1]]\n",
		},
		{
			name:    "json alist",
			args:    []string{"json", "-alist"},
			stdin:   `((a . 1) (b 2 3)) (1 2) nil`,
			wantOut: "{\"a\":1,\"b\":[2,3]}\n[1,2]\nnull\n",
		},
		{
			name:    "encode",
			args:    []string{"encode"},
			stdin:   `{"b": [1, 2.5], "a": null} 12345678901234567890123 "s"`,
			wantOut: "((\"a\" . nil) (\"b\" 1 2.5))\n12345678901234567890123\n\"s\"\n",
		},
		{
			name:    "encode sep",
			args:    []string{"encode", "-sep", " "},
			stdin:   `1 true false`,
			wantOut: "1 t nil\n",
		},
		{
			name:     "encode bad json",
			args:     []string{"encode"},
			stdin:    `[1,`,
			wantCode: 1,
			wantErr:  "json value 1",
		},
		{
			name:    "version",
			args:    []string{"version"},
			wantOut: version + "\n",
		},
		{
			name:     "no command",
			wantCode: 2,
			wantErr:  "usage",
		},
		{
			name:     "unknown command",
			args:     []string{"frob"},
			wantCode: 2,
			wantErr:  `unknown command "frob"`,
		},
		{
			name:     "bad flag",
			args:     []string{"json", "-nope"},
			wantCode: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("run() = %d, want %d; stderr: %s", code, tt.wantCode, stderr.String())
			}
			if tt.wantOut != "" && stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.el")
	b := filepath.Join(dir, "b.el")
	if err := os.WriteFile(a, []byte("(a\n b)"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("'c"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"fmt", a, b}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d; stderr: %s", code, stderr.String())
	}
	if want := "(a b)\n'c\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}

	stderr.Reset()
	if code := run([]string{"fmt", filepath.Join(dir, "missing.el")}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{src: "", want: false},
		{src: "(a b", want: true},
		{src: "(a (b c)", want: true},
		{src: `"abc`, want: true},
		{src: "'", want: true},
		{src: "(a b)", want: false},
		{src: "(a ]", want: false},
		{src: ")", want: false},
		{src: "1.5e", want: false},
		{src: "(1.5e", want: false},
		{src: "(a \"b", want: true},
		{src: "(a .", want: true},
		{src: "'(a", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := incomplete(tt.src); got != tt.want {
				t.Errorf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalLine(t *testing.T) {
	got := evalLine("(a . 1) ((k . v))")
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("evalLine() = %q, want two lines", got)
	}
	if !strings.HasPrefix(lines[0], "(a . 1) ; cons") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "object map[k:v]") {
		t.Errorf("line 2 = %q", lines[1])
	}

	if got := evalLine(")"); !strings.Contains(got, "line 1, column 1") {
		t.Errorf("evalLine() = %q, want a syntax error", got)
	}
}
