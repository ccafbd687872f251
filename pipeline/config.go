package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/folio/ingest"
)

// Limits are the admission ceilings checked before any parsing work.
type Limits struct {
	// MaxPages is the page-count ceiling.
	// Default: 50
	MaxPages int

	// MaxBytes is the byte-size ceiling.
	// Default: 100 MiB
	MaxBytes int64
}

// DefaultLimits returns the standard admission ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxPages: 50,
		MaxBytes: 100 << 20,
	}
}

// Validate admits or rejects the uploaded document. Every rejection is a
// *ValidationError whose message names both the offending value and the
// configured limit.
func (l Limits) Validate(path string, decoder ingest.Decoder) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if info.Size() > l.MaxBytes {
		return &ValidationError{Err: fmt.Errorf("%w: document size %d bytes exceeds limit %d bytes",
			ErrTooLarge, info.Size(), l.MaxBytes)}
	}

	pages, err := decoder.Probe(path)
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if pages > l.MaxPages {
		return &ValidationError{Err: fmt.Errorf("%w: page count %d exceeds limit %d",
			ErrTooManyPages, pages, l.MaxPages)}
	}
	return nil
}

// Config is the application configuration: where artifacts live, where the
// server listens, and the admission ceilings.
type Config struct {
	// DataDir holds uploads, intermediate layout JSON, and result pairs.
	// Default: data
	DataDir string `yaml:"data_dir"`

	// StaticDir is the static-files root; extracted images are persisted
	// beneath it.
	// Default: static
	StaticDir string `yaml:"static_dir"`

	// Addr is the listen address for the HTTP server.
	// Default: :8000
	Addr string `yaml:"addr"`

	// MaxPages is the page-count admission ceiling.
	// Default: 50
	MaxPages int `yaml:"max_pages"`

	// MaxBytes is the byte-size admission ceiling.
	// Default: 100 MiB
	MaxBytes int64 `yaml:"max_bytes"`
}

// DefaultConfig returns the standard application configuration.
func DefaultConfig() Config {
	limits := DefaultLimits()
	return Config{
		DataDir:   "data",
		StaticDir: "static",
		Addr:      ":8000",
		MaxPages:  limits.MaxPages,
		MaxBytes:  limits.MaxBytes,
	}
}

// LoadConfig reads a YAML configuration file over the defaults, so a
// partial file overrides only the keys it names.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config: %w", err)
	}
	return config, nil
}

// Limits returns the admission ceilings carried by the configuration.
func (c Config) Limits() Limits {
	return Limits{MaxPages: c.MaxPages, MaxBytes: c.MaxBytes}
}

// UploadDir is where submitted documents are written.
func (c Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// IntermediateDir is where classified layout JSON is written.
func (c Config) IntermediateDir() string {
	return filepath.Join(c.DataDir, "intermediate")
}

// ResultsDir is the parent of every job's result directory.
func (c Config) ResultsDir() string {
	return filepath.Join(c.DataDir, "results")
}

// UploadPath locates one job's uploaded document.
func (c Config) UploadPath(id string) string {
	return filepath.Join(c.UploadDir(), id+".json")
}

// IntermediatePath locates one job's classified layout JSON.
func (c Config) IntermediatePath(id string) string {
	return filepath.Join(c.IntermediateDir(), id+".json")
}

// ResultDir locates one job's result pair directory.
func (c Config) ResultDir(id string) string {
	return filepath.Join(c.ResultsDir(), id)
}

// ResultHTMLPath locates one job's markup deliverable.
func (c Config) ResultHTMLPath(id string) string {
	return filepath.Join(c.ResultDir(id), "document.html")
}

// ResultJSONPath locates one job's export deliverable.
func (c Config) ResultJSONPath(id string) string {
	return filepath.Join(c.ResultDir(id), "export.json")
}

// EnsureDirs creates the directory tree the pipeline writes into.
func (c Config) EnsureDirs() error {
	dirs := []string{
		c.UploadDir(),
		c.IntermediateDir(),
		c.ResultsDir(),
		filepath.Join(c.StaticDir, "images"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
