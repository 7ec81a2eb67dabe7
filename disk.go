package hoard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/opencontainers/go-digest"
)

// DiskBackend persists each entry as one JSON file in a directory. Files
// are named by a stable content digest of the key, so several cache
// instances pointing at the same directory observe each other's writes and
// filenames survive process restarts.
type DiskBackend struct {
	fs     billy.Filesystem
	root   string
	logger *slog.Logger
}

var _ Backend = (*DiskBackend)(nil)

type diskConfig struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

// DiskOption configures a DiskBackend.
type DiskOption func(*diskConfig)

// WithDiskFilesystem sets the filesystem the backend operates on.
// Useful for testing with an in-memory filesystem.
func WithDiskFilesystem(fs billy.Filesystem) DiskOption {
	return func(c *diskConfig) {
		c.fs = fs
	}
}

// WithDiskLogger sets the logger used for discarded corrupt records.
func WithDiskLogger(l *slog.Logger) DiskOption {
	return func(c *diskConfig) {
		c.logger = l
	}
}

// NewDiskBackend creates a disk backend rooted at dir, creating the
// directory if it is absent.
func NewDiskBackend(dir string, opts ...DiskOption) (*DiskBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("hoard: disk backend directory cannot be empty")
	}

	cfg := diskConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &DiskBackend{root: dir, logger: cfg.logger}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if cfg.fs != nil {
		b.fs = cfg.fs
	} else {
		b.fs = osfs.New(dir)
		b.root = "."
	}

	if err := b.fs.MkdirAll(b.root, 0o755); err != nil {
		return nil, fmt.Errorf("hoard: failed to create cache directory: %w", err)
	}
	return b, nil
}

// diskRecord is the serialized form of an entry. Access metadata is
// deliberately not persisted: the directory is the unit of sharing, and
// per-process access patterns must not leak between instances.
type diskRecord struct {
	Key       string            `json:"key"`
	Value     json.RawMessage   `json:"value"`
	CreatedAt time.Time         `json:"created_at"`
	TTL       time.Duration     `json:"ttl,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// entryFilename derives the stable on-disk name for a key.
func entryFilename(key string) string {
	return digest.FromString(key).Encoded() + ".json"
}

func (b *DiskBackend) Get(ctx context.Context, key string) (*Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return b.readFile(entryFilename(key))
}

func (b *DiskBackend) Set(ctx context.Context, key string, e *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(e.Value)
	if err != nil {
		return fmt.Errorf("serialize value for %q: %w", key, err)
	}
	rec, err := json.Marshal(diskRecord{
		Key:       key,
		Value:     raw,
		CreatedAt: e.CreatedAt,
		TTL:       e.TTL,
		Metadata:  e.Metadata,
	})
	if err != nil {
		return fmt.Errorf("serialize record for %q: %w", key, err)
	}

	// Write to a temp file and rename so a partial write is never visible.
	name := entryFilename(key)
	tmp := b.fs.Join(b.root, name+".tmp")
	final := b.fs.Join(b.root, name)

	f, err := b.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %q: %w", tmp, err)
	}
	if _, err := f.Write(rec); err != nil {
		_ = f.Close()
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("close %q: %w", tmp, err)
	}
	if err := b.fs.Rename(tmp, final); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("rename %q: %w", final, err)
	}
	return nil
}

func (b *DiskBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.fs.Remove(b.fs.Join(b.root, entryFilename(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove entry for %q: %w", key, err)
	}
	return nil
}

func (b *DiskBackend) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := b.fs.ReadDir(b.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		path := b.fs.Join(b.root, info.Name())
		if err := b.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %q: %w", path, err)
		}
	}
	return nil
}

func (b *DiskBackend) Keys(ctx context.Context) ([]string, error) {
	entries, err := b.Entries(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (b *DiskBackend) Entries(ctx context.Context) (map[string]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := b.fs.ReadDir(b.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]*Entry{}, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	entries := make(map[string]*Entry, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		e, ok, err := b.readFile(info.Name())
		if err != nil || !ok {
			continue
		}
		entries[e.Key] = e
	}
	return entries, nil
}

func (b *DiskBackend) TotalBytes(ctx context.Context) (int64, error) {
	entries, err := b.Entries(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.SizeBytes
	}
	return total, nil
}

// readFile loads a single record. Corrupt or unreadable files are treated
// as absent rather than failing the lookup.
func (b *DiskBackend) readFile(name string) (*Entry, bool, error) {
	f, err := b.fs.Open(b.fs.Join(b.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open %q: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", name, err)
	}

	var rec diskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		b.logger.Debug("discarding corrupt cache file", "file", name, "error", err)
		return nil, false, nil
	}
	var value any
	if err := json.Unmarshal(rec.Value, &value); err != nil {
		b.logger.Debug("discarding corrupt cache value", "file", name, "error", err)
		return nil, false, nil
	}

	return &Entry{
		Key:            rec.Key,
		Value:          value,
		SizeBytes:      int64(len(rec.Value)),
		CreatedAt:      rec.CreatedAt,
		TTL:            rec.TTL,
		LastAccessedAt: rec.CreatedAt,
		Metadata:       rec.Metadata,
	}, true, nil
}
