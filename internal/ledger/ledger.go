// Package ledger keeps the durable record of titles already claimed.
//
// The backing store is a newline-delimited UTF-8 text file, one case-folded
// title per line, append-only. Duplicate lines may accumulate on disk; the
// read-time set collapses them. A title added here is never removed.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"freeclaim/internal/domain"
)

type Ledger struct {
	path   string
	titles map[string]struct{}
	order  []string // unique titles in insertion order, oldest first
}

// New returns an empty ledger backed by path. Used when an existing file
// cannot be read and the session falls open to an empty history.
func New(path string) *Ledger {
	return &Ledger{path: path, titles: make(map[string]struct{})}
}

// Load reads the ledger file into memory. A missing file is an empty
// ledger, not an error.
func Load(path string) (*Ledger, error) {
	l := New(path)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		title := strings.TrimSpace(sc.Text())
		if title == "" {
			continue
		}
		l.add(domain.TitleKey(title))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return l, nil
}

// Contains reports whether title has already been claimed. Matching is
// case-insensitive.
func (l *Ledger) Contains(title string) bool {
	_, ok := l.titles[domain.TitleKey(title)]
	return ok
}

func (l *Ledger) Len() int { return len(l.titles) }

// Commit appends each title (case-folded) to the backing file in a single
// append-only write, then adds them to the in-memory set. A crash mid-write
// loses at most this batch; prior entries are never rewritten.
func (l *Ledger) Commit(titles []string) error {
	if len(titles) == 0 {
		return nil
	}

	var b strings.Builder
	for _, t := range titles {
		b.WriteString(domain.TitleKey(t))
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}

	for _, t := range titles {
		l.add(domain.TitleKey(t))
	}
	return nil
}

func (l *Ledger) add(key string) {
	if _, ok := l.titles[key]; ok {
		return
	}
	l.titles[key] = struct{}{}
	l.order = append(l.order, key)
}

// Titles returns the claimed titles in insertion order, oldest first.
func (l *Ledger) Titles() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
