package sysgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

// Numbers generates the syscall number definitions used by the kernel.
//
// Numbers are the ordinals of the table entries, so the order in which
// syscalls are emitted never changes the value assigned to them.
type Numbers struct {
	Base
	prefix string
}

// NewNumbers returns a generator of "#define <prefix><name> <ordinal>" lines.
func NewNumbers(prefix string) *Numbers {
	return &Numbers{prefix: prefix}
}

func (g *Numbers) Syscall(w io.Writer, sc *sysdef.Syscall) error {
	if sc.IsVDSOCall() {
		return nil
	}
	_, err := fmt.Fprintf(w, "#define %s%s %d\n", g.prefix, sc.Name, sc.Ordinal)
	return err
}

// TraceInfo generates the table rows used to decode syscalls in traces.
//
// Argument types are listed by name, pointers with a trailing '*' whatever
// their direction.
type TraceInfo struct {
	Base
}

// NewTraceInfo returns a generator of trace rows. Call wrappers never apply.
func NewTraceInfo() *TraceInfo {
	return &TraceInfo{}
}

func (g *TraceInfo) Syscall(w io.Writer, sc *sysdef.Syscall) error {
	if sc.IsVDSOCall() {
		return nil
	}
	_, err := fmt.Fprintf(w, "{\"%s\", %d, %d},  // %s\n", sc.Name, sc.NumArgs(), sc.Ordinal, argLayout(sc))
	return err
}

func argLayout(sc *sysdef.Syscall) string {
	if len(sc.Args) == 0 {
		return sysdef.Void.Name
	}
	types := make([]string, len(sc.Args))
	for i, arg := range sc.Args {
		types[i] = arg.Type.Name
		if arg.IsPointer() {
			types[i] += "*"
		}
	}
	return strings.Join(types, ", ")
}
