package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"upvalcheck/internal/parser"
)

// ConfigFileName is looked up from the checked path towards the root.
const ConfigFileName = ".upvalcheck.toml"

// Formats accepted by [check].format and --format.
var Formats = []string{"plain", "pretty", "short", "json", "sarif"}

type Config struct {
	Check CheckConfig `toml:"check"`
	Cache CacheConfig `toml:"cache"`
}

type CheckConfig struct {
	Format           string   `toml:"format"`
	MaxDiagnostics   int      `toml:"max_diagnostics"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
	Jobs             int      `toml:"jobs"`
	Features         string   `toml:"features"`
	InferNames       bool     `toml:"infer_names"`
	Exclude          []string `toml:"exclude"`
	Extensions       []string `toml:"extensions"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// File is a loaded configuration with the keys it actually set.
type File struct {
	Path   string
	Root   string
	Config Config
	meta   toml.MetaData
}

// IsDefined reports whether the file set the dotted key, e.g. "check", "jobs".
// Flags only fall back to config values the file defined.
func (f *File) IsDefined(key ...string) bool {
	if f == nil {
		return false
	}
	return f.meta.IsDefined(key...)
}

// Default is the configuration written by "upvalcheck init".
func Default() Config {
	return Config{
		Check: CheckConfig{
			Format:         "plain",
			MaxDiagnostics: 200,
			Features:       "all",
			Extensions:     []string{".lua", ".luau"},
		},
	}
}

// Find walks up from start (a file or directory) to locate ConfigFileName.
func Find(start string) (string, bool, error) {
	if start == "" || start == "-" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes and validates the file at path.
func Load(path string) (*File, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Path: path, Root: filepath.Dir(path), Config: cfg, meta: meta}, nil
}

// LoadFor finds and loads the configuration governing target.
// It returns nil without error when there is none.
func LoadFor(target string) (*File, error) {
	p, ok, err := Find(target)
	if err != nil || !ok {
		return nil, err
	}
	return Load(p)
}

// Validate checks value ranges and spellings.
func (c Config) Validate() error {
	if c.Check.Format != "" && !validFormat(c.Check.Format) {
		return fmt.Errorf("[check].format: unknown format %q (expected: %s)", c.Check.Format, strings.Join(Formats, "|"))
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("[check].max_diagnostics must not be negative")
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative")
	}
	if _, err := parser.ParseFeatures(c.Check.Features); err != nil {
		return fmt.Errorf("[check].features: %w", err)
	}
	for _, pat := range c.Check.Exclude {
		if _, err := path.Match(pat, ""); err != nil {
			return fmt.Errorf("[check].exclude: bad pattern %q: %w", pat, err)
		}
	}
	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[check].extensions: %q must start with '.'", ext)
		}
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault creates ConfigFileName in dir, refusing to overwrite unless force.
func WriteDefault(dir string, force bool) (string, error) {
	p := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(p); err == nil && !force {
		return p, fmt.Errorf("%s already exists", p)
	}
	f, err := os.Create(p)
	if err != nil {
		return p, fmt.Errorf("failed to create %s: %w", p, err)
	}
	if err := Default().Encode(f); err != nil {
		_ = f.Close()
		return p, fmt.Errorf("%s: failed to encode TOML: %w", p, err)
	}
	return p, f.Close()
}
