package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"ops-generator/internal/gen"
)

// SchemaVersion is the only configuration version understood.
const SchemaVersion = "1"

// FileNames are the configuration files looked up by Discover, in order.
var FileNames = []string{"ops-generator.yaml", "ops-generator.yml", "ops-generator.toml"}

// Config is the project configuration.
type Config struct {
	Version string `yaml:"version" toml:"version"`
	// Requires is a semantic version constraint on the tool (">= 0.3, < 1").
	Requires string `yaml:"requires,omitempty" toml:"requires,omitempty"`
	// OutputDir receives every generated file. Empty means next to the input.
	OutputDir string `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	// Suffix replaces the input extensions in output names.
	Suffix string `yaml:"suffix" toml:"suffix"`
	// Extensions select the files picked up when walking directories.
	Extensions []string `yaml:"extensions" toml:"extensions"`
	// Inputs are files or directories, relative to the config file.
	Inputs            []string `yaml:"inputs" toml:"inputs"`
	OpsPath           string   `yaml:"ops_path" toml:"ops_path"`
	Inline            bool     `yaml:"inline" toml:"inline"`
	Comments          bool     `yaml:"comments" toml:"comments"`
	StrictCommutative bool     `yaml:"strict_commutative" toml:"strict_commutative"`
	// Jobs bounds parallelism; zero means GOMAXPROCS.
	Jobs     int    `yaml:"jobs" toml:"jobs"`
	Cache    bool   `yaml:"cache" toml:"cache"`
	CacheDir string `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`

	// path is the file the config was loaded from, if any.
	path string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Version:    SchemaVersion,
		Suffix:     gen.DefaultGeneratorConfig().Suffix,
		Extensions: []string{".ops.rs"},
		Inputs:     []string{"."},
		OpsPath:    gen.DefaultOpsPath,
		Comments:   true,
		Cache:      true,
	}
}

// LoadFile loads a YAML or TOML configuration file. Relative inputs and
// directories are resolved against the file's directory.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg *Config

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = Parse(data)
	case ".toml":
		cfg, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.path = path
	cfg.resolve(filepath.Dir(path))

	return cfg, nil
}

// Parse parses YAML data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// ParseTOML parses TOML data on top of the defaults.
func ParseTOML(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills in values that were explicitly set empty.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Version == "" {
		cfg.Version = def.Version
	}

	if cfg.Suffix == "" {
		cfg.Suffix = def.Suffix
	}

	if cfg.OpsPath == "" {
		cfg.OpsPath = def.OpsPath
	}

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = def.Extensions
	}

	if len(cfg.Inputs) == 0 {
		cfg.Inputs = def.Inputs
	}
}

func (c *Config) resolve(base string) {
	for i, in := range c.Inputs {
		if !filepath.IsAbs(in) {
			c.Inputs[i] = filepath.Join(base, in)
		}
	}

	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(base, c.OutputDir)
	}

	if c.CacheDir != "" && !filepath.IsAbs(c.CacheDir) {
		c.CacheDir = filepath.Join(base, c.CacheDir)
	}
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Discover returns the first configuration file found in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}

	return ""
}

// Validate checks the configuration against the running tool version.
func (c *Config) Validate(toolVersion string) error {
	var errs []error

	if c.Version != SchemaVersion {
		errs = append(errs, fmt.Errorf("unsupported config version %q (want %q)", c.Version, SchemaVersion))
	}

	if c.Requires != "" {
		if err := checkRequires(c.Requires, toolVersion); err != nil {
			errs = append(errs, err)
		}
	}

	if !strings.HasSuffix(c.Suffix, ".rs") {
		errs = append(errs, fmt.Errorf("suffix %q must end in .rs", c.Suffix))
	}

	if strings.TrimSpace(c.OpsPath) == "" {
		errs = append(errs, errors.New("ops_path must not be empty"))
	}

	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", c.Jobs))
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("extension %q must start with a dot", ext))
		}
	}

	return errors.Join(errs...)
}

func checkRequires(requires, toolVersion string) error {
	constraint, err := semver.NewConstraint(requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", requires, err)
	}

	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("tool version %q is not a semantic version: %w", toolVersion, err)
	}

	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msgs = append(msgs, r.Error())
		}

		return fmt.Errorf("ops-generator %s does not satisfy %q: %s", v, requires, strings.Join(msgs, "; "))
	}

	return nil
}

// Generator returns the code generation settings.
func (c *Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		OpsPath:           c.OpsPath,
		Suffix:            c.Suffix,
		GenerateComments:  c.Comments,
		Inline:            c.Inline,
		StrictCommutative: c.StrictCommutative,
	}
}

// Fingerprint is a stable string of every setting that changes generated
// output. Cached results are only reused under the same fingerprint.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("v=%s;suffix=%s;ops=%s;inline=%t;comments=%t;strict=%t",
		c.Version, c.Suffix, c.OpsPath, c.Inline, c.Comments, c.StrictCommutative)
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes a Config to the given path as YAML.
func WriteFile(c *Config, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
