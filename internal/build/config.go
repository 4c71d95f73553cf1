package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/stealthrocket/sysgen/internal/print/human"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

const (
	defaultConfigPath   = "sysgen.yaml"
	defaultSyscallsPath = "syscalls.yaml"
)

// ConfigPath is the path to the build configuration.
var ConfigPath human.Path = defaultConfigPath

// Config is the build configuration, listing the files to generate from a
// syscall table.
type Config struct {
	// Syscalls is the path to the syscall table. Relative paths in the
	// configuration are interpreted relative to the configuration file.
	Syscalls human.Path    `json:"syscalls" yaml:"syscalls"`
	// Jobs limits how many outputs are generated concurrently, there is no
	// limit when unset.
	Jobs     Nullable[int] `json:"jobs"     yaml:"jobs"`
	Outputs  []Output      `json:"outputs"  yaml:"outputs"`

	dir string
}

// Output configures the generation of one file.
type Output struct {
	Generator string           `json:"generator"          yaml:"generator"`
	Path      human.Path       `json:"path"               yaml:"path"`
	Macro     Nullable[string] `json:"macro"              yaml:"macro"`
	Prefix    Nullable[string] `json:"prefix"             yaml:"prefix"`
	Package   Nullable[string] `json:"package"            yaml:"package"`
	Type      Nullable[string] `json:"type"               yaml:"type"`
	Wrappers  []string         `json:"wrappers,omitempty" yaml:"wrappers,omitempty"`
}

// DefaultConfig returns the values applied before reading a configuration.
func DefaultConfig() *Config {
	return &Config{Syscalls: defaultSyscallsPath}
}

// LoadConfig opens and reads the configuration file.
func LoadConfig() (*Config, error) {
	r, path, err := OpenConfig()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	c, err := ReadConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// OpenConfig opens the configuration file, returning its resolved path. When
// the file does not exist, the reader yields the default configuration.
func OpenConfig() (io.ReadCloser, string, error) {
	path, err := ConfigPath.Resolve()
	if err != nil {
		return nil, path, err
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
		b, _ := yaml.Marshal(DefaultConfig())
		return io.NopCloser(bytes.NewReader(b)), path, nil
	}
	return f, path, nil
}

// ReadConfig reads and validates a configuration.
func ReadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every output names a known generator and known call
// wrappers, and that no two outputs are written to the same file.
func (c *Config) Validate() error {
	if jobs, ok := c.Jobs.Value(); ok && jobs <= 0 {
		return fmt.Errorf("jobs must be a positive number, got %d", jobs)
	}

	paths := make(map[human.Path]int, len(c.Outputs))
	for i, out := range c.Outputs {
		if out.Path == "" {
			return fmt.Errorf("outputs[%d]: missing path", i)
		}
		if j, dup := paths[out.Path]; dup {
			return fmt.Errorf("outputs[%d]: path %q already used by outputs[%d]", i, out.Path, j)
		}
		paths[out.Path] = i

		if _, err := out.generator(); err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
	}
	return nil
}

// Dir returns the directory relative paths of the configuration are
// resolved against.
func (c *Config) Dir() string {
	if c.dir == "" {
		return "."
	}
	return c.dir
}

// SetDir changes the directory relative paths are resolved against.
func (c *Config) SetDir(dir string) { c.dir = dir }

// LoadTable loads the syscall table of the configuration.
func (c *Config) LoadTable() (*sysdef.Table, error) {
	path, err := c.Syscalls.RelativeTo(c.Dir())
	if err != nil {
		return nil, err
	}
	return sysdef.LoadFile(path)
}

// Select returns the outputs matching one of the names, which may be either
// generator names or output paths. All outputs are returned when no names
// are given.
func (c *Config) Select(names ...string) ([]Output, error) {
	if len(names) == 0 {
		return c.Outputs, nil
	}
	selected := lo.Filter(c.Outputs, func(out Output, _ int) bool {
		return lo.Contains(names, out.Generator) || lo.Contains(names, string(out.Path))
	})
	for _, name := range names {
		if !lo.ContainsBy(selected, func(out Output) bool {
			return out.Generator == name || string(out.Path) == name
		}) {
			return nil, fmt.Errorf("no output matches %q", name)
		}
	}
	return selected, nil
}

func (out *Output) generator() (sysgen.Generator, error) {
	factory, err := sysgen.LookupGenerator(out.Generator)
	if err != nil {
		return nil, err
	}
	wrappers, err := sysgen.LookupWrappers(out.Wrappers...)
	if err != nil {
		return nil, err
	}
	return factory.New(sysgen.Options{
		Macro:    out.Macro.Or(""),
		Prefix:   out.Prefix.Or(""),
		Package:  out.Package.Or(""),
		TypeName: out.Type.Or(""),
		Wrappers: wrappers,
	})
}

func (out *Output) String() string {
	return out.Generator + ":" + string(out.Path)
}
