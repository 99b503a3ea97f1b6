package driver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"buble/internal/magic"
	"buble/internal/project"
	"buble/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты компиляции на диске по ключу
// H(содержимое || опции). Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached compile.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16
	// Compiler version; output of another release is never reused.
	Compiler string

	Path string
	Code string
	// Map is the source map as JSON, empty when none was generated.
	Map []byte

	Created int64 // unix seconds
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheSchema is the layout version of cached payloads.
func CacheSchema() uint16 { return diskCacheSchemaVersion }

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства чистки: подкаталог по первым двум символам.
	return filepath.Join(c.dir, "out", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// resultToPayload converts a compile result for caching.
func resultToPayload(res *Result) *DiskPayload {
	if res == nil {
		return nil
	}
	payload := &DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Compiler: version.Version,
		Path:     res.Path,
		Code:     res.Code,
		Created:  time.Now().Unix(),
	}
	if res.Map != nil {
		payload.Map = []byte(res.Map.String())
	}
	return payload
}

// payloadToResult restores a cached result, or nil when the payload is
// stale or unreadable.
func payloadToResult(payload *DiskPayload) *Result {
	if payload == nil || payload.Schema != diskCacheSchemaVersion || payload.Compiler != version.Version {
		return nil
	}
	res := &Result{Path: payload.Path, Code: payload.Code, Cached: true}
	if len(payload.Map) > 0 {
		var m magic.SourceMap
		if err := json.Unmarshal(payload.Map, &m); err != nil {
			return nil
		}
		res.Map = &m
	}
	return res
}
