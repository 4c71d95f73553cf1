// Package sysgen implements the generators producing build artifacts from
// syscall tables: userspace trampolines, syscall numbers, trace metadata and
// declarations.
//
// A generation pass calls Header once, Syscall for every entry of the table
// in order, then Footer. Any error aborts the pass, the output is meant to be
// fed to a compiler or an assembler and must never be used when incomplete.
package sysgen

import (
	"errors"
	"fmt"
	"io"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

// ErrUnsupported is returned by generators which are unable to represent a
// syscall on their target (e.g. too many arguments to fit in registers).
var ErrUnsupported = errors.New("unsupported syscall shape")

// Generator is the interface implemented by all output generators.
type Generator interface {
	Header(w io.Writer) error
	Syscall(w io.Writer, sc *sysdef.Syscall) error
	Footer(w io.Writer) error
}

// Base can be embedded by generators which write nothing before or after the
// list of syscalls.
type Base struct{}

func (Base) Header(io.Writer) error { return nil }
func (Base) Footer(io.Writer) error { return nil }

// Run performs a full generation pass of g over syscalls, writing to w.
func Run(w io.Writer, g Generator, syscalls []*sysdef.Syscall) error {
	if err := g.Header(w); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for _, sc := range syscalls {
		if err := g.Syscall(w, sc); err != nil {
			return fmt.Errorf("%s: %w", sc.Name, err)
		}
	}
	if err := g.Footer(w); err != nil {
		return fmt.Errorf("footer: %w", err)
	}
	return nil
}

// Options carries the configuration of generators instantiated by name.
// Fields that do not apply to a generator must be left to their zero value.
type Options struct {
	Macro    string
	Prefix   string
	Package  string
	TypeName string
	Wrappers []CallWrapper
}

// Factory describes a generator available by name.
type Factory struct {
	Name          string `json:"name"        yaml:"name"        text:"GENERATOR"`
	DefaultPrefix string `json:"prefix"      yaml:"prefix"      text:"PREFIX"`
	DefaultMacro  string `json:"macro"       yaml:"macro"       text:"-"`
	Description   string `json:"description" yaml:"description" text:"DESCRIPTION"`

	acceptsWrappers bool
	new             func(Options) Generator
}

// New instantiates the generator, substituting defaults for empty options.
func (f *Factory) New(opts Options) (Generator, error) {
	if len(opts.Wrappers) != 0 && !f.acceptsWrappers {
		return nil, fmt.Errorf("%s: generator does not support call wrappers", f.Name)
	}
	if opts.Prefix == "" {
		opts.Prefix = f.DefaultPrefix
	}
	if opts.Macro == "" {
		opts.Macro = f.DefaultMacro
	}
	return f.new(opts), nil
}

// Generators lists the generators available by name.
var Generators = [...]Factory{
	{
		Name:            "x86-asm",
		DefaultPrefix:   "zx_",
		DefaultMacro:    "X86_SYSCALL",
		Description:     "x86_64 userspace syscall trampolines",
		acceptsWrappers: true,
		new: func(opts Options) Generator {
			return NewX86Assembly(opts.Macro, opts.Prefix, opts.Wrappers...)
		},
	},
	{
		Name:            "arm64-asm",
		DefaultPrefix:   "zx_",
		DefaultMacro:    "ARM64_SYSCALL",
		Description:     "arm64 userspace syscall trampolines",
		acceptsWrappers: true,
		new: func(opts Options) Generator {
			return NewArm64Assembly(opts.Macro, opts.Prefix, opts.Wrappers...)
		},
	},
	{
		Name:          "numbers",
		DefaultPrefix: "ZX_SYS_",
		Description:   "syscall number definitions",
		new: func(opts Options) Generator {
			return NewNumbers(opts.Prefix)
		},
	},
	{
		Name:        "trace",
		Description: "syscall trace metadata table",
		new: func(Options) Generator {
			return NewTraceInfo()
		},
	},
	{
		Name:          "user-header",
		DefaultPrefix: "zx_",
		Description:   "userspace syscall declarations",
		new: func(opts Options) Generator {
			return NewDeclarations(opts.Prefix, DeclarationOptions{Extern: true})
		},
	},
	{
		Name:          "kernel-header",
		DefaultPrefix: "sys_",
		Description:   "kernel syscall handler declarations",
		new: func(opts Options) Generator {
			return NewDeclarations(opts.Prefix, DeclarationOptions{Kernel: true})
		},
	},
	{
		Name:        "go-enum",
		Description: "Go constants for syscall numbers",
		new: func(opts Options) Generator {
			return NewGoEnum(opts.Package, opts.TypeName)
		},
	},
}

// LookupGenerator returns the generator factory registered under name.
func LookupGenerator(name string) (*Factory, error) {
	for i := range Generators {
		if f := &Generators[i]; f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown generator: %q", name)
}
