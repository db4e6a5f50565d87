package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ardnew/ecoscript/lang"
)

func TestDefineGlobals(t *testing.T) {
	t.Setenv("ECOSCRIPT_TEST_HOME", "/home/eco")

	tests := []struct {
		name    string
		defs    []string
		want    map[string]any
		wantErr error
	}{
		{
			name: "literals",
			defs: []string{"n=40 + 2", "f=1.5", "s='hi'", "b=true", "z=nil"},
			want: map[string]any{"n": int64(42), "f": 1.5, "s": "hi", "b": true, "z": nil},
		},
		{
			name: "environment helpers",
			defs: []string{
				`home=env("ECOSCRIPT_TEST_HOME")`,
				"os=platform",
				`p=prefix("/b", "/a")`,
			},
			want: map[string]any{
				"home": "/home/eco",
				"os":   runtime.GOOS + "/" + runtime.GOARCH,
				"p":    "/a" + string(os.PathListSeparator) + "/b",
			},
		},
		{
			name: "value keeps equals signs",
			defs: []string{`eq="a=b"`},
			want: map[string]any{"eq": "a=b"},
		},
		{name: "missing equals", defs: []string{"x"}, wantErr: ErrDefine},
		{name: "keyword name", defs: []string{"while=1"}, wantErr: ErrDefine},
		{name: "bad identifier", defs: []string{"1x=1"}, wantErr: ErrDefine},
		{name: "compile error", defs: []string{"x=1 +"}, wantErr: ErrDefine},
		{name: "unsupported type", defs: []string{"x=[1, 2]"}, wantErr: lang.ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := defineGlobals(tt.defs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("defineGlobals() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("defineGlobals() = %v", got)
			}

			for _, g := range got {
				if want, ok := tt.want[g.name]; !ok || g.value != want {
					t.Errorf("%s = %#v, want %#v", g.name, g.value, want)
				}
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"x":      true,
		"_tmp":   true,
		"log2":   true,
		"MaxLen": true,
		"":       false,
		"2x":     false,
		"a-b":    false,
		"let":    false,
		"print":  false,
	}

	for name, want := range tests {
		if got := isIdentifier(name); got != want {
			t.Errorf("isIdentifier(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib.eco"), "function twice(n)\n  return n * 2\n")
	main := filepath.Join(dir, "main.eco")
	writeFile(t, main, "print(twice(base))\nprint(label)\n")

	var out bytes.Buffer

	cmd := &Run{
		Define: []string{"base=21", `label="done"`},
		Path:   dir,
		Files:  []string{"lib.eco", main},
	}

	if err := cmd.Run(outputContext(t, &out)); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "42\ndone\n" {
		t.Errorf("output = %q", got)
	}
}

func TestBindGlobals(t *testing.T) {
	eval := lang.NewEvaluator()

	err := bindGlobals([]global{{name: "a", value: int64(1)}, {name: "a", value: "two"}})(eval)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := eval.Global().Lookup("a"); !ok || v != "two" {
		t.Errorf("a = %v (%v), want later definition", v, ok)
	}

	err = bindGlobals([]global{{value: int64(1)}})(lang.NewEvaluator())
	if !errors.Is(err, ErrDefine) {
		t.Errorf("bind error = %v, want ErrDefine", err)
	}
}

func TestRun_FileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		depth   int
		wantErr error
	}{
		{name: "syntax", content: "let = 1\n", wantErr: lang.ErrSyntax},
		{name: "runtime", content: "print(missing)\n", wantErr: lang.ErrNameNotFound},
		{
			name:    "max depth",
			content: "function f(n) { return f(n) }\nf(1)\n",
			depth:   8,
			wantErr: lang.ErrMaxDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".eco")
			writeFile(t, path, tt.content)

			var out bytes.Buffer

			err := (&Run{MaxDepth: tt.depth, Files: []string{path}}).Run(outputContext(t, &out))
			if !errors.Is(err, ErrRun) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if !strings.Contains(err.Error(), "run script") {
				t.Errorf("error message = %q", err.Error())
			}
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer

	err := (&Run{Files: []string{"no-such-script.eco"}}).Run(outputContext(t, &out))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Run() error = %v, want ErrSourceNotFound", err)
	}
}

func TestRun_BadDefine(t *testing.T) {
	err := (&Run{Define: []string{"x"}, Files: []string{"-"}}).Run(t.Context())
	if !errors.Is(err, ErrDefine) {
		t.Errorf("Run() error = %v, want ErrDefine", err)
	}
}
