package cache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// entryMagic starts every file cache entry. It is followed by the expiry in
// Unix nanoseconds (0 for never), a newline, and the raw cached bytes.
const entryMagic = "BKC1 "

// FileCache keeps entries as files under one directory. It is the local
// cache of the CLI; the server uses Redis when replicas share a cache.
type FileCache struct {
	fs  afero.Fs
	dir string
}

// NewFileCache creates dir on fs if needed. A nil fs uses the OS filesystem.
func NewFileCache(fs afero.Fs, dir string) (*FileCache, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{fs: fs, dir: dir}, nil
}

// Get returns the entry for key. Expired and unreadable entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := afero.ReadFile(c.fs, path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = c.fs.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry through a temporary file and a rename, so a
// concurrent Get never sees a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, encodeEntry(data, expires), 0o644); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	if err := c.fs.Rename(tmp, path); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	return nil
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := c.fs.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Usage counts the entries in the cache and their total size on disk.
func (c *FileCache) Usage() (entries int, size int64, err error) {
	err = afero.Walk(c.fs, c.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			entries++
			size += info.Size()
		}
		return nil
	})
	return entries, size, err
}

// Clear removes every entry and recreates the empty directory.
func (c *FileCache) Clear() error {
	if err := c.fs.RemoveAll(c.dir); err != nil {
		return err
	}
	return c.fs.MkdirAll(c.dir, 0o755)
}

func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Close() error { return nil }

// path fans entries out over 256 subdirectories by the first byte of the
// key hash.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

func encodeEntry(data []byte, expires time.Time) []byte {
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	header := fmt.Sprintf("%s%d\n", entryMagic, nanos)
	out := make([]byte, 0, len(header)+len(data))
	return append(append(out, header...), data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	rest, found := bytes.CutPrefix(raw, []byte(entryMagic))
	if !found {
		return nil, time.Time{}, false
	}
	stamp, data, found := bytes.Cut(rest, []byte("\n"))
	if !found {
		return nil, time.Time{}, false
	}
	nanos, err := strconv.ParseInt(string(stamp), 10, 64)
	if err != nil {
		return nil, time.Time{}, false
	}
	if nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return data, expires, true
}

var _ Cache = (*FileCache)(nil)
