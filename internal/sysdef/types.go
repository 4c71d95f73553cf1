package sysdef

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Type is a resolved value type of a syscall argument or return value.
type Type struct {
	// Name is the name used in syscall tables (e.g. "u32").
	Name string `json:"name" yaml:"name" text:"TYPE"`
	// CType is the spelling of the type in generated C and assembly sources.
	CType string `json:"ctype" yaml:"ctype" text:"C TYPE"`
	// Size is the size of values of the type in bytes, zero for void.
	Size int `json:"size" yaml:"size" text:"SIZE"`
}

func (t Type) String() string { return t.Name }

// IsVoid returns true if t is the void type.
func (t Type) IsVoid() bool { return t.Name == Void.Name }

var (
	Void = Type{Name: "void", CType: "void"}
	// Any is only valid as the pointee of a pointer argument, it produces
	// untyped pointers in generated code.
	Any = Type{Name: "any", CType: "void"}
)

var builtinTypes = map[string]Type{
	"void":    Void,
	"any":     Any,
	"bool":    {"bool", "bool", 1},
	"char":    {"char", "char", 1},
	"i8":      {"i8", "int8_t", 1},
	"i16":     {"i16", "int16_t", 2},
	"i32":     {"i32", "int32_t", 4},
	"i64":     {"i64", "int64_t", 8},
	"u8":      {"u8", "uint8_t", 1},
	"u16":     {"u16", "uint16_t", 2},
	"u32":     {"u32", "uint32_t", 4},
	"u64":     {"u64", "uint64_t", 8},
	"usize":   {"usize", "size_t", 8},
	"uintptr": {"uintptr", "uintptr_t", 8},

	"status":   {"status", "zx_status_t", 4},
	"handle":   {"handle", "zx_handle_t", 4},
	"time":     {"time", "zx_time_t", 8},
	"duration": {"duration", "zx_duration_t", 8},
	"koid":     {"koid", "zx_koid_t", 8},
	"signals":  {"signals", "zx_signals_t", 4},
	"rights":   {"rights", "zx_rights_t", 4},
	"vaddr":    {"vaddr", "zx_vaddr_t", 8},
	"paddr":    {"paddr", "zx_paddr_t", 8},
	"off":      {"off", "zx_off_t", 8},
}

// LookupType returns the built-in type registered under name.
func LookupType(name string) (Type, error) {
	t, ok := builtinTypes[name]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// TypeNames returns the sorted list of built-in type names.
func TypeNames() []string {
	names := maps.Keys(builtinTypes)
	slices.Sort(names)
	return names
}

// PointerKind describes whether an argument is a pointer into user memory,
// and in which direction the kernel accesses it.
type PointerKind int

const (
	NotPointer PointerKind = iota
	PointerIn
	PointerOut
	PointerInOut
)

func (p PointerKind) String() string {
	switch p {
	case NotPointer:
		return "none"
	case PointerIn:
		return "in"
	case PointerOut:
		return "out"
	case PointerInOut:
		return "inout"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(p))
	}
}

func (p PointerKind) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PointerKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none":
		*p = NotPointer
	case "in":
		*p = PointerIn
	case "out":
		*p = PointerOut
	case "inout":
		*p = PointerInOut
	default:
		return fmt.Errorf("unsupported pointer kind: %q (not one of none, in, out, inout)", b)
	}
	return nil
}
