// Package storage persists generation records as flat JSON files.
//
// Each successful generation is written once to its own timestamped file and
// is never updated. The directory listing is the only index.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/hoanghai1803/adcraft/internal/models"
)

const (
	filePrefix = "reklam_metni_"
	fileExt    = ".json"
	timeLayout = "20060102_150405"
)

// recordName matches the names Save produces, and nothing that could
// escape the output directory.
var recordName = regexp.MustCompile(`^reklam_metni_\d{8}_\d{6}\.json$`)

// Entry describes one stored record file.
type Entry struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Store reads and writes records in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Save writes rec to a new file named after the current second and returns
// the file name. Two saves within the same second overwrite each other.
func (s *Store) Save(ctx context.Context, rec models.OutputRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodeRecord(rec)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %q: %w", s.dir, err)
	}

	name := filePrefix + s.now().Format(timeLayout) + fileExt
	if err := writeFileAtomic(s.dir, name, data); err != nil {
		return "", err
	}

	slog.Info("saved generation record", "path", filepath.Join(s.dir, name), "bytes", len(data))
	return name, nil
}

// List returns the stored records, newest first. A missing directory is an
// empty list.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading output directory %q: %w", s.dir, err)
	}

	entries := []Entry{}
	for _, de := range dirEntries {
		if de.IsDir() || !recordName.MatchString(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:      de.Name(),
			CreatedAt: createdAt(de.Name(), info.ModTime()),
			Size:      info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name > entries[j].Name
	})
	return entries, nil
}

// Get reads the record stored under name. Unknown names and names that do
// not look like record files return ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*models.OutputRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !recordName.MatchString(name) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading record %q: %w", name, err)
	}

	var rec models.OutputRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record %q: %w", name, err)
	}
	return &rec, nil
}

// encodeRecord renders rec as UTF-8 JSON with a 4-space indent and without
// HTML escaping, so Turkish text and markup characters stay readable.
func encodeRecord(rec models.OutputRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file in dir and renames it to name.
func writeFileAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filePrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %q to %q: %w", tmpName, name, err)
	}
	return nil
}

// createdAt recovers the save time from a record name, falling back to the
// file's modification time.
func createdAt(name string, modTime time.Time) time.Time {
	stamp := name[len(filePrefix) : len(name)-len(fileExt)]
	t, err := time.ParseInLocation(timeLayout, stamp, time.Local)
	if err != nil {
		return modTime
	}
	return t
}
