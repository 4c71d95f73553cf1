// Package sysdef contains the in-memory model of syscall tables consumed by
// the generators, and a loader for the YAML files they are described in.
package sysdef

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName    = errors.New("duplicate name")
	ErrDuplicateOrdinal = errors.New("duplicate ordinal")
	ErrUnknownType      = errors.New("unknown type")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidName      = errors.New("invalid name")
)

// Category gives a categorization of syscalls.
type Category string

const (
	// CategoryBasic is the category of the vast majority of syscalls.
	CategoryBasic Category = ""
	// CategoryInternal marks syscalls which are not part of the public ABI.
	CategoryInternal Category = "internal"
	// CategoryVDSOCall marks calls implemented entirely in the vDSO, they
	// have no kernel entry point and no syscall number.
	CategoryVDSOCall Category = "vdsocall"
	// CategoryNext marks syscalls which are being stabilized.
	CategoryNext Category = "next"
	// CategoryTest marks syscalls only used by tests.
	CategoryTest Category = "test"
)

func (c *Category) UnmarshalText(b []byte) error {
	switch v := Category(b); v {
	case CategoryBasic, CategoryInternal, CategoryVDSOCall, CategoryNext, CategoryTest:
		*c = v
		return nil
	}
	return fmt.Errorf("unsupported syscall category: %q (not one of internal, vdsocall, next, test)", b)
}

// Arg is a syscall argument.
type Arg struct {
	Name    string      `json:"name"              yaml:"name"`
	Type    Type        `json:"type"              yaml:"type"`
	Pointer PointerKind `json:"pointer,omitempty" yaml:"pointer,omitempty"`
}

// IsPointer returns true if the argument is a pointer into user memory.
func (a Arg) IsPointer() bool { return a.Pointer != NotPointer }

// Syscall describes a single syscall.
//
// Values are built by the loader and must not be modified afterwards, the
// generators receive them by pointer and rely on them being immutable.
type Syscall struct {
	// Name of the syscall, without any prefix (e.g. "channel_write").
	Name string `json:"name" yaml:"name"`
	// Ordinal is the stable syscall number.
	Ordinal int `json:"ordinal" yaml:"ordinal"`
	// Args are the arguments in kernel ABI order.
	Args []Arg `json:"args" yaml:"args"`
	// Return is the return type, Void if the syscall returns nothing.
	Return Type `json:"return" yaml:"return"`

	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
	Blocking bool     `json:"blocking,omitempty" yaml:"blocking,omitempty"`
	NoReturn bool     `json:"noreturn,omitempty" yaml:"noreturn,omitempty"`
	Const    bool     `json:"const,omitempty"    yaml:"const,omitempty"`
}

func (sc *Syscall) NumArgs() int { return len(sc.Args) }

func (sc *Syscall) IsVoid() bool { return sc.Return.IsVoid() }

func (sc *Syscall) IsVDSOCall() bool { return sc.Category == CategoryVDSOCall }

func (sc *Syscall) IsInternal() bool { return sc.Category == CategoryInternal }

// HasArg reports whether sc has an argument called name.
func (sc *Syscall) HasArg(name string) bool {
	for _, arg := range sc.Args {
		if arg.Name == name {
			return true
		}
	}
	return false
}

// Table is an ordered sequence of syscalls.
type Table struct {
	Syscalls []*Syscall
}

// Lookup returns the syscall with the given name, or nil if there are none.
func (t *Table) Lookup(name string) *Syscall {
	for _, sc := range t.Syscalls {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}
