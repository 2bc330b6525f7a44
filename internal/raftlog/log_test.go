package raftlog

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCreate_FailsIfFileAlreadyExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "node-1.json")
	if _, err := Create(path); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := Create(path); err == nil {
		t.Fatalf("expected second Create() to fail")
	}
}

func TestOpen_ReturnsErrNotExistForMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := Open(path)
	if !errors.Is(err, ErrNotExist) {
		t.Fatalf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestLog_PersistsHeaderAndEntriesAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "node-1.json")
	l, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := l.Update(Header{CurrentTerm: 3, VotedFor: 2, CommitIndex: 0}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := l.Append(
		StoredEntry{Term: 3, Type: 0, Data: []byte("cmd-1")},
		StoredEntry{Term: 3, Type: 0, Data: []byte("cmd-2")},
	); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Update(Header{CurrentTerm: 3, VotedFor: 2, CommitIndex: 2}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	h := reopened.Header()
	if h.CurrentTerm != 3 || h.VotedFor != 2 || h.CommitIndex != 2 {
		t.Fatalf("unexpected header after reopen: %+v", h)
	}

	entries := reopened.LoadEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if string(entries[0].Data) != "cmd-1" || string(entries[1].Data) != "cmd-2" {
		t.Fatalf("unexpected entry payloads: %+v", entries)
	}
}

func TestLog_TruncateDropsTrailingEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "node-1.json")
	l, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := l.Append(
		StoredEntry{Term: 1, Data: []byte("a")},
		StoredEntry{Term: 1, Data: []byte("b")},
		StoredEntry{Term: 2, Data: []byte("c")},
	); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := l.Truncate(1); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	entries := reopened.LoadEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after truncate, got %d", len(entries))
	}
	if string(entries[0].Data) != "a" {
		t.Fatalf("unexpected surviving entry: %+v", entries[0])
	}
}

func TestLog_LoadEntriesReturnsDefensiveCopy(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "node-1.json")
	l, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := l.Append(StoredEntry{Term: 1, Data: []byte("a")}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries := l.LoadEntries()
	entries[0].Data[0] = 'z'

	entries2 := l.LoadEntries()
	if string(entries2[0].Data) != "a" {
		t.Fatalf("mutation of returned slice leaked into Log state: %+v", entries2)
	}
}
