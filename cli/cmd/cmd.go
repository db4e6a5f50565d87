package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" outside a kong
// context.
func kongVar(ctx context.Context, id string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[id]
	}

	return ""
}

// stdout returns the standard output of the kong application.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special source name for reading from stdin.
const stdinSource = "-"

// source is an opened script.
type source struct {
	io.ReadCloser

	name string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// searchPath returns the directories searched for relative script names:
// the current directory followed by the entries of path, a list separated
// by [os.PathListSeparator]. Directories that do not exist are dropped.
func searchPath(path string) []string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	munged := mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(cwd),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(munged)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// locate resolves name to an existing file. Names that are absolute or
// explicitly relative ("./", "../") are used as given; other names are
// tried in each directory of search in order.
func locate(name string, search []string) (string, error) {
	if filepath.IsAbs(name) || isExplicit(name) {
		if _, err := os.Stat(name); err != nil {
			return "", ErrOpenSource.File(name).Wrap(err)
		}

		return name, nil
	}

	for _, dir := range search {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", ErrSourceNotFound.
		File(name).With(slog.Any("path", search))
}

func isExplicit(name string) bool {
	name = filepath.ToSlash(name)

	return strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../")
}

// openSources opens the named scripts in order. Names are resolved with
// [locate], and a file named more than once, through any path or symlink,
// is opened only at its first occurrence. Every "-" refers to a single
// stdin source, which is placed last.
//
// On error, the sources already opened are closed.
func openSources(names []string, search []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := locate(name, search)
		if err != nil {
			return srcs, err
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, ErrOpenSource.File(path).Wrap(err)
		}

		if ok {
			srcs = append(srcs, source{ReadCloser: file, name: path})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{ReadCloser: io.NopCloser(os.Stdin), name: "<stdin>"})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
