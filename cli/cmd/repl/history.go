package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	baseHistory = "history.utf8"

	// maxHistory is the number of entries kept when the file is loaded.
	maxHistory = 1000

	historyFileMode = 0o600
)

// HistoryEntry is one line of input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return "C:" + e.Line + "\n"
	}

	return "E:" + e.Line + "\n"
}

func decodeHistoryEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, "E:")

	return HistoryEntry{Line: s, Mode: modeEval}
}

// History is the input history of the interactive front end, persisted one
// entry per line. Several sessions may share one file: every access to it
// holds an advisory lock on a sibling ".lock" file.
//
// An empty path keeps history in memory only.
type History struct {
	path    string
	lock    *flock.Flock
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns an empty History persisted at path.
func NewHistory(path string) *History {
	h := &History{path: path}
	if path != "" {
		h.lock = flock.New(path + ".lock")
	}

	return h
}

// Load replaces the entries in memory with the newest entries of the file.
// A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.lock.RLock(); err != nil {
		return err
	}
	defer h.lock.Unlock() //nolint:errcheck

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			h.entries = append(h.entries, decodeHistoryEntry(line))
		}
	}

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Delete(h.entries, 0, n-maxHistory)
	}

	return scanner.Err()
}

// Add appends line to the history, unless it repeats the newest entry of
// the same mode. An earlier duplicate is moved to the end.
func (h *History) Add(line string, mode inputMode) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return nil
	}

	if err := h.lock.Lock(); err != nil {
		return err
	}
	defer h.lock.Unlock() //nolint:errcheck

	if i >= 0 {
		return h.rewrite()
	}

	return h.appendEntry(entry)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// appendEntry must be called with both locks held.
func (h *History) appendEntry(entry HistoryEntry) error {
	file, err := os.OpenFile(
		h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode,
	)
	if err != nil {
		return err
	}

	_, err = file.WriteString(entry.encode())

	return errors.Join(err, file.Close())
}

// rewrite must be called with both locks held.
func (h *History) rewrite() error {
	file, err := os.OpenFile(
		h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, historyFileMode,
	)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		_, _ = w.WriteString(entry.encode())
	}

	return errors.Join(w.Flush(), file.Close())
}
