package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
)

// Increment when DiskPayload changes shape.
const diskCacheSchemaVersion uint16 = 2

// Digest is a cache key.
type Digest [32]byte

// DiskCache stores the diagnostics of checked files keyed by content and
// settings. Safe for concurrent use.
type DiskCache struct {
	mu      sync.RWMutex
	dir     string
	version string
}

// CachedNote is a Note with its span reduced to offsets.
type CachedNote struct {
	Start, End uint32
	Msg        string
}

// CachedDiagnostic is a Diagnostic without its file id.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

// DiskPayload is the msgpack record of one file.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Findings    int
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache opens the cache under dir, or under
// $XDG_CACHE_HOME/<app> (~/.cache/<app>) when dir is empty.
// version is mixed into every key so upgrades never see stale entries.
func OpenDiskCache(app, dir, version string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, version: version}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key derives the cache key of a file checked with opts.
func (c *DiskCache) Key(f *source.File, opts Options) Digest {
	h := sha256.New()
	var hdr [12]byte
	binary.LittleEndian.PutUint16(hdr[0:], diskCacheSchemaVersion)
	binary.LittleEndian.PutUint16(hdr[2:], uint16(opts.Features))
	if opts.InferNames {
		hdr[4] = 1
	}
	hdr[5] = byte(opts.PathMode)
	// the stored syntax errors are cut at this limit
	limit, err := safecast.Conv[uint32](opts.bagLimit())
	if err != nil {
		limit = math.MaxUint32
	}
	binary.LittleEndian.PutUint32(hdr[8:], limit)
	_, _ = h.Write(hdr[:])
	_, _ = h.Write([]byte(c.version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(f.Path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(f.Hash[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "files", fmt.Sprintf("%x.mp", key[:]))
}

// Put serializes and writes a payload.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
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
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one with another schema is a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
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
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

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

func toPayload(path string, bag *diag.Bag, findings int) *DiskPayload {
	p := &DiskPayload{Path: path, Findings: findings}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// restore replays cached diagnostics into bag against file.
func (p *DiskPayload) restore(bag *diag.Bag, file source.FileID) {
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
}
