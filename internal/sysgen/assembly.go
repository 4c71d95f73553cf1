package sysgen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

// StubPrefix is prepended to the names of the raw syscall entry points
// declared by the trampoline macros.
const StubPrefix = "SYSCALL_"

// maxRegisterSize is the largest value passed in a single register on all
// supported architectures.
const maxRegisterSize = 8

// arch describes the syscall calling convention of a target architecture.
type arch struct {
	name string
	// Locations where syscall arguments are passed, in argument order. The
	// number of slots bounds the arity of syscalls the architecture supports.
	slots []string
}

// argSlots returns the argument slots used by sc, or an error if sc cannot be
// represented with the calling convention of a.
func (a *arch) argSlots(sc *sysdef.Syscall) ([]string, error) {
	if n := sc.NumArgs(); n > len(a.slots) {
		return nil, fmt.Errorf("%w: %s syscalls take at most %d arguments, got %d", ErrUnsupported, a.name, len(a.slots), n)
	}
	for _, arg := range sc.Args {
		if !arg.IsPointer() && arg.Type.Size > maxRegisterSize {
			return nil, fmt.Errorf("%w: argument %s of type %s does not fit in a %s register", ErrUnsupported, arg.Name, arg.Type, a.name)
		}
	}
	if sc.Return.Size > maxRegisterSize {
		return nil, fmt.Errorf("%w: return type %s does not fit in a %s register", ErrUnsupported, sc.Return, a.name)
	}
	return a.slots[:sc.NumArgs()], nil
}

// Assembly generates the userspace syscall trampolines of an architecture.
//
// Each trampoline is made of a macro invocation declaring the raw syscall entry
// point, followed by the C function calling it, with the call wrappers that
// apply to the syscall spliced around the invocation.
type Assembly struct {
	Base
	arch     *arch
	macro    string
	prefix   string
	wrappers []CallWrapper
}

var (
	x86 = arch{
		name:  "x86_64",
		slots: []string{"rdi", "rsi", "rdx", "r10", "r8", "r9", "8(%rsp)", "16(%rsp)"},
	}
	arm64 = arch{
		name:  "arm64",
		slots: []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"},
	}
)

// NewX86Assembly returns a generator of x86_64 syscall trampolines.
func NewX86Assembly(macro, prefix string, wrappers ...CallWrapper) *Assembly {
	return newAssembly(&x86, macro, prefix, wrappers)
}

// NewArm64Assembly returns a generator of arm64 syscall trampolines.
func NewArm64Assembly(macro, prefix string, wrappers ...CallWrapper) *Assembly {
	return newAssembly(&arm64, macro, prefix, wrappers)
}

func newAssembly(a *arch, macro, prefix string, wrappers []CallWrapper) *Assembly {
	return &Assembly{
		arch:     a,
		macro:    macro,
		prefix:   prefix,
		wrappers: append([]CallWrapper(nil), wrappers...),
	}
}

func (g *Assembly) Syscall(w io.Writer, sc *sysdef.Syscall) error {
	if sc.IsVDSOCall() {
		return nil
	}
	slots, err := g.arch.argSlots(sc)
	if err != nil {
		return err
	}
	wrappers := applicableWrappers(g.wrappers, sc)

	macroArgs := append([]string{
		g.prefix + sc.Name,
		strconv.Itoa(sc.Ordinal),
		strconv.Itoa(sc.NumArgs()),
	}, slots...)
	if _, err := fmt.Fprintf(w, "%s(%s)\n", g.macro, strings.Join(macroArgs, ", ")); err != nil {
		return err
	}

	if err := WriteSignature(w, sc, g.prefix, SignatureOptions{InterArg: ArgSeparator, WrapUserPointers: true, NoArgsType: "void"}); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " {\n"); err != nil {
		return err
	}

	returnVar, err := WriteReturnVar(w, sc)
	if err != nil {
		return err
	}

	for _, wrapper := range wrappers {
		if err := wrapper.PreCall(w, sc); err != nil {
			return fmt.Errorf("%s: %w", wrapper.Name(), err)
		}
	}

	if err := WriteInvocation(w, sc, returnVar, StubPrefix+g.prefix); err != nil {
		return err
	}

	for i := len(wrappers) - 1; i >= 0; i-- {
		if err := wrappers[i].PostCall(w, sc, returnVar); err != nil {
			return fmt.Errorf("%s: %w", wrappers[i].Name(), err)
		}
	}

	if returnVar != "" {
		if _, err := fmt.Fprintf(w, "%sreturn %s;\n", indent, returnVar); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "}\n\n")
	return err
}
