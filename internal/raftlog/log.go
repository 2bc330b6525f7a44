// Package raftlog persists a Raft node's hard state and log entries to a
// single JSON file on disk, written atomically via a temp-file-rename-fsync
// sequence so a crash mid-write never leaves a torn file behind.
package raftlog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Header is the minimal persistent state a node must restore before it can
// safely rejoin the cluster: the current term, who it voted for in that
// term, and how far its log is known to be committed.
type Header struct {
	CurrentTerm int64  `json:"current_term"`
	VotedFor    uint32 `json:"voted_for"`
	CommitIndex int64  `json:"commit_idx"`
}

// StoredEntry is the on-disk representation of a single log entry.
type StoredEntry struct {
	Term int64  `json:"term"`
	Type uint8  `json:"type"`
	Data []byte `json:"data"`
}

// document is the whole-file on-disk format: a header plus the append-only
// entry stream. Keeping both in one file (rather than the teacher's
// separate hard-state/log/snapshot files) matches the single
// `raftnode-log-<id>.json` file spec.md's persisted-state contract names.
type document struct {
	Header  Header        `json:"header"`
	Entries []StoredEntry `json:"entries"`
}

// Log is a file-backed store for one node's header and entry stream.
type Log struct {
	path    string
	header  Header
	entries []StoredEntry
}

// ErrNotExist is returned by Open when the target file does not exist; the
// caller should fall back to Create for a first-boot node.
var ErrNotExist = os.ErrNotExist

// Create initializes a fresh log file at path with a zero-valued header and
// no entries, failing if the file already exists.
func Create(path string) (*Log, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, errors.New("raftlog: file already exists: " + path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	l := &Log{path: path}
	if err := l.flush(); err != nil {
		return nil, err
	}
	return l, nil
}

// Open loads an existing log file. It returns ErrNotExist (which is
// os.ErrNotExist) if path does not exist, so callers can distinguish a
// first-boot node from a genuine read failure.
func Open(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}

	var doc document
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.New("raftlog: corrupt log file " + path + ": " + err.Error())
		}
	}

	return &Log{
		path:    path,
		header:  doc.Header,
		entries: doc.Entries,
	}, nil
}

// Header returns the currently loaded header.
func (l *Log) Header() Header { return l.header }

// LoadEntries returns every entry currently on disk, in log order (index 1
// first). The returned slice is a defensive copy.
func (l *Log) LoadEntries() []StoredEntry {
	out := make([]StoredEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = StoredEntry{Term: e.Term, Type: e.Type, Data: append([]byte(nil), e.Data...)}
	}
	return out
}

// Update overwrites the header and flushes it, without touching entries.
// Called on every PersistVote/PersistTerm and on every commit-index
// advance (from ApplyLog), so the header is flushed each time any of the
// three fields changes.
func (l *Log) Update(h Header) error {
	l.header = h
	return l.flush()
}

// Append adds entries to the end of the on-disk stream, starting logically
// at the current entry count plus one, and flushes.
func (l *Log) Append(entries ...StoredEntry) error {
	if len(entries) == 0 {
		return nil
	}
	l.entries = append(l.entries, entries...)
	return l.flush()
}

// Truncate discards every entry after keepN (1-indexed count of entries to
// retain) and flushes. Used by LogPop to make the on-disk stream match the
// in-memory log exactly, the truncate (not tombstone) resolution recorded
// in DESIGN.md.
func (l *Log) Truncate(keepN int64) error {
	if keepN < 0 {
		keepN = 0
	}
	if keepN > int64(len(l.entries)) {
		keepN = int64(len(l.entries))
	}
	l.entries = l.entries[:keepN]
	return l.flush()
}

func (l *Log) flush() error {
	return writeJSONAtomically(l.path, document{Header: l.header, Entries: l.entries})
}

func writeJSONAtomically(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	//nolint:gosec // tmpName and path are derived from the configured data directory, not user input.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	//nolint:gosec // dir is derived from the configured data directory under our control.
	dirFile, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = dirFile.Close() }()

	return dirFile.Sync()
}
