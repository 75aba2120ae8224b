// Package backup copies notes to a backup target and restores them.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/codec"
	"github.com/aretw0/notekeep/pkg/core"
)

// ErrNotConnected is returned when Backup or Restore run before Connect.
var ErrNotConnected = errors.New("backup target not connected")

// ErrNoBackup is returned by Restore when the target holds no snapshot.
var ErrNoBackup = errors.New("no backup found")

// Target is a place notes can be backed up to.
type Target interface {
	Connect(ctx context.Context) error
	Backup(ctx context.Context, notes []core.Note) error
	Restore(ctx context.Context) ([]core.Note, error)
}

const filePrefix = "notes_"

// stampLayout sorts lexically in time order.
const stampLayout = "20060102T150405.000000000Z"

// Snapshot is the file layout of a single backup.
type Snapshot struct {
	Notes      []core.Note `json:"notes"`
	BackupDate time.Time   `json:"backupDate"`
}

// Directory keeps timestamped JSON snapshots in a local directory.
type Directory struct {
	Path string
	// Keep bounds the number of snapshots retained. Zero keeps all.
	Keep   int
	Logger *slog.Logger
	Now    func() time.Time

	connected bool
}

var _ Target = (*Directory)(nil)

// NewDirectory creates a Directory target rooted at path.
func NewDirectory(path string, keep int, logger *slog.Logger) *Directory {
	return &Directory{Path: path, Keep: keep, Logger: logger}
}

// Connect ensures the directory exists and is writable.
func (d *Directory) Connect(ctx context.Context) error {
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	probe, err := os.CreateTemp(d.Path, fs.TempFilePrefix+"probe-*")
	if err != nil {
		return fmt.Errorf("backup directory is not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	d.connected = true
	return nil
}

// Backup writes a new snapshot of notes and prunes old ones.
func (d *Directory) Backup(ctx context.Context, notes []core.Note) error {
	if !d.connected {
		return ErrNotConnected
	}
	now := d.now()

	var buf bytes.Buffer
	if err := codec.Encode(&buf, codec.JSON, Snapshot{Notes: nonNil(notes), BackupDate: now}); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	name := filePrefix + now.Format(stampLayout) + ".json"
	if err := fs.WriteFileAtomic(filepath.Join(d.Path, name), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	d.logger().Info("backed up notes", "count", len(notes), "file", name)

	return d.prune()
}

// Restore reads the newest snapshot.
func (d *Directory) Restore(ctx context.Context) ([]core.Note, error) {
	if !d.connected {
		return nil, ErrNotConnected
	}
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoBackup
	}
	latest := names[len(names)-1]

	f, err := os.Open(filepath.Join(d.Path, latest))
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	var snap Snapshot
	if err := codec.Decode(f, codec.JSON, &snap); err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", latest, err)
	}
	d.logger().Info("restored notes", "count", len(snap.Notes), "file", latest)
	return snap.Notes, nil
}

// List returns snapshot file names, oldest first.
func (d *Directory) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (d *Directory) prune() error {
	if d.Keep <= 0 {
		return nil
	}
	names, err := d.List()
	if err != nil {
		return err
	}
	for len(names) > d.Keep {
		if err := os.Remove(filepath.Join(d.Path, names[0])); err != nil {
			return fmt.Errorf("failed to prune backup: %w", err)
		}
		d.logger().Debug("pruned backup", "file", names[0])
		names = names[1:]
	}
	return nil
}

func (d *Directory) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d *Directory) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func nonNil(notes []core.Note) []core.Note {
	if notes == nil {
		return []core.Note{}
	}
	return notes
}
