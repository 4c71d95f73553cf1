package sysgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

// CallWrapper injects code around the invocation of a syscall in generated
// function bodies.
//
// When multiple wrappers apply to a syscall, their PreCall hooks run in the
// order the wrappers were registered and their PostCall hooks in the reverse
// order, so wrappers opening a scope in PreCall and closing it in PostCall
// nest properly.
type CallWrapper interface {
	Name() string

	Applies(sc *sysdef.Syscall) bool

	PreCall(w io.Writer, sc *sysdef.Syscall) error

	// PostCall receives the name of the variable holding the raw return value
	// of the syscall, which is empty for syscalls returning void.
	PostCall(w io.Writer, sc *sysdef.Syscall, returnVar string) error
}

// NopCall can be embedded by call wrappers to inherit empty hooks.
type NopCall struct{}

func (NopCall) PreCall(io.Writer, *sysdef.Syscall) error { return nil }

func (NopCall) PostCall(io.Writer, *sysdef.Syscall, string) error { return nil }

func applicableWrappers(wrappers []CallWrapper, sc *sysdef.Syscall) []CallWrapper {
	return lo.Filter(wrappers, func(w CallWrapper, _ int) bool { return w.Applies(sc) })
}

// BlockingRetry loops on blocking syscalls for as long as the kernel asks
// for the call to be restarted.
type BlockingRetry struct{}

func (BlockingRetry) Name() string { return "blocking-retry" }

func (BlockingRetry) Description() string {
	return "restart blocking syscalls interrupted by the kernel"
}

func (BlockingRetry) Applies(sc *sysdef.Syscall) bool {
	return sc.Blocking && !sc.IsVoid()
}

func (BlockingRetry) PreCall(w io.Writer, sc *sysdef.Syscall) error {
	_, err := io.WriteString(w, indent+"do {\n")
	return err
}

func (BlockingRetry) PostCall(w io.Writer, sc *sysdef.Syscall, returnVar string) error {
	_, err := fmt.Fprintf(w, "%s} while (unlikely(%s == ZX_ERR_INTERNAL_INTR_RETRY));\n", indent, returnVar)
	return err
}

// NoReturn marks the end of syscalls which never return as unreachable.
type NoReturn struct{ NopCall }

func (NoReturn) Name() string { return "noreturn" }

func (NoReturn) Description() string {
	return "mark the code following noreturn syscalls unreachable"
}

func (NoReturn) Applies(sc *sysdef.Syscall) bool { return sc.NoReturn }

func (NoReturn) PostCall(w io.Writer, sc *sysdef.Syscall, returnVar string) error {
	_, err := io.WriteString(w, indent+"__builtin_unreachable();\n")
	return err
}

var wrappers = map[string]CallWrapper{
	BlockingRetry{}.Name(): BlockingRetry{},
	NoReturn{}.Name():      NoReturn{},
}

// LookupWrapper returns the built-in call wrapper registered under name.
func LookupWrapper(name string) (CallWrapper, error) {
	w, ok := wrappers[name]
	if !ok {
		return nil, fmt.Errorf("unknown call wrapper: %q (not one of %s)", name, strings.Join(WrapperNames(), ", "))
	}
	return w, nil
}

// LookupWrappers resolves a list of call wrapper names, preserving order.
func LookupWrappers(names ...string) ([]CallWrapper, error) {
	list := make([]CallWrapper, 0, len(names))
	for _, name := range names {
		w, err := LookupWrapper(name)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, nil
}

// WrapperNames returns the sorted names of the built-in call wrappers.
func WrapperNames() []string {
	names := maps.Keys(wrappers)
	slices.Sort(names)
	return names
}
