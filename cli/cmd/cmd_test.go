package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readSources(t *testing.T, srcs []source) string {
	t.Helper()

	var sb strings.Builder

	for _, s := range srcs {
		data, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("reading %s: %v", s.name, err)
		}

		sb.Write(data)
	}

	return sb.String()
}

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	got := searchPath(strings.Join([]string{dir, missing}, string(os.PathListSeparator)))

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if len(got) == 0 || got[0] != cwd {
		t.Errorf("searchPath() = %q, want %q first", got, cwd)
	}

	if !slices.Contains(got, dir) {
		t.Errorf("searchPath() = %q, missing %q", got, dir)
	}

	if slices.Contains(got, missing) {
		t.Errorf("searchPath() = %q, kept nonexistent %q", got, missing)
	}
}

func TestIsExplicit(t *testing.T) {
	tests := map[string]bool{
		"./a.eco":  true,
		"../a.eco": true,
		"a.eco":    false,
		"lib/a":    false,
		".hidden":  false,
	}

	for name, want := range tests {
		if got := isExplicit(name); got != want {
			t.Errorf("isExplicit(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLocate(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFile(t, filepath.Join(second, "lib.eco"), "1")
	writeFile(t, filepath.Join(first, "both.eco"), "1")
	writeFile(t, filepath.Join(second, "both.eco"), "2")

	if err := os.Mkdir(filepath.Join(first, "lib.eco"), 0o755); err != nil {
		t.Fatal(err)
	}

	search := []string{first, second}

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr error
	}{
		{name: "later directory", file: "lib.eco", want: filepath.Join(second, "lib.eco")},
		{name: "first match wins", file: "both.eco", want: filepath.Join(first, "both.eco")},
		{name: "absolute", file: filepath.Join(second, "lib.eco"), want: filepath.Join(second, "lib.eco")},
		{name: "not found", file: "nope.eco", wantErr: ErrSourceNotFound},
		{name: "absolute missing", file: filepath.Join(first, "nope.eco"), wantErr: ErrOpenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(tt.file, search)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("locate() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("locate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.eco")
	b := filepath.Join(dir, "b.eco")
	link := filepath.Join(dir, "link.eco")

	writeFile(t, a, "a;")
	writeFile(t, b, "b;")

	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	srcs, err := openSources([]string{b, a, link, b}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if got := readSources(t, srcs); got != "b;a;" {
		t.Errorf("contents = %q, want %q", got, "b;a;")
	}
}

func TestOpenSources_Stdin(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.eco")
	writeFile(t, a, "a;")

	srcs, err := openSources([]string{stdinSource, a, stdinSource}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if len(srcs) != 2 || srcs[1].name != "<stdin>" {
		names := make([]string, len(srcs))
		for i, s := range srcs {
			names[i] = s.name
		}

		t.Errorf("sources = %q, want stdin last", names)
	}
}

func TestOpenSources_ErrorClosesOpened(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.eco")
	writeFile(t, a, "a;")

	srcs, err := openSources([]string{a, "missing.eco"}, []string{dir})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("openSources() error = %v, want ErrSourceNotFound", err)
	}

	if srcs != nil {
		t.Errorf("openSources() returned %d sources on error", len(srcs))
	}
}

func TestMakeFileKey(t *testing.T) {
	if _, ok := makeFileKey(nil); ok {
		t.Error("makeFileKey(nil) reported ok")
	}

	info, err := os.Stat(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := makeFileKey(info); !ok {
		t.Error("makeFileKey() failed on a real file")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", ErrRun, "run script"},
		{"cause", ErrRun.With().Wrap(cause), "run script: cause"},
		{"file", ErrRun.File("main.eco"), `run script "main.eco"`},
		{"file and cause", ErrRun.File("main.eco").Wrap(cause), `run script "main.eco": cause`},
		{"cause only", NewError("").Wrap(cause), "cause"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	err := ErrRun.File("main.eco").With(slog.Int("line", 3)).Wrap(cause)

	if !errors.Is(err, ErrRun) || !errors.Is(err, cause) {
		t.Error("errors.Is failed to match sentinel and cause")
	}

	if errors.Is(err, ErrDefine) || errors.Is(ErrRun, err) {
		t.Error("matched unrelated error")
	}

	if ErrRun.Error() != "run script" {
		t.Error("deriving modified the sentinel")
	}

	attrs := err.LogValue().Group()
	if len(attrs) != 4 || attrs[1].Key != "file" || attrs[1].Value.String() != "main.eco" {
		t.Errorf("LogValue() = %v", attrs)
	}
}
