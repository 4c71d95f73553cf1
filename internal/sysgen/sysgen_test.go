package sysgen_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stealthrocket/sysgen/internal/assert"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

func typeOf(t testing.TB, name string) sysdef.Type {
	t.Helper()
	typ, err := sysdef.LookupType(name)
	assert.OK(t, err)
	return typ
}

func channelWrite(t testing.TB) *sysdef.Syscall {
	return &sysdef.Syscall{
		Name:    "channel_write",
		Ordinal: 24,
		Args: []sysdef.Arg{
			{Name: "handle", Type: typeOf(t, "u32")},
			{Name: "options", Type: typeOf(t, "u32")},
			{Name: "bytes", Type: typeOf(t, "u8"), Pointer: sysdef.PointerIn},
			{Name: "num_bytes", Type: typeOf(t, "u32")},
		},
		Return: typeOf(t, "i32"),
	}
}

func threadExit() *sysdef.Syscall {
	return &sysdef.Syscall{
		Name:     "thread_exit",
		Ordinal:  3,
		Return:   sysdef.Void,
		NoReturn: true,
	}
}

func portWait(t testing.TB) *sysdef.Syscall {
	return &sysdef.Syscall{
		Name:    "port_wait",
		Ordinal: 7,
		Args: []sysdef.Arg{
			{Name: "handle", Type: typeOf(t, "handle")},
			{Name: "deadline", Type: typeOf(t, "time")},
			{Name: "packet", Type: typeOf(t, "any"), Pointer: sysdef.PointerOut},
		},
		Return:   typeOf(t, "status"),
		Blocking: true,
	}
}

// objectGet has an argument named like the return variable of trampolines.
func objectGet(t testing.TB) *sysdef.Syscall {
	return &sysdef.Syscall{
		Name:    "object_get",
		Ordinal: 12,
		Args:    []sysdef.Arg{{Name: "ret", Type: typeOf(t, "u32")}},
		Return:  typeOf(t, "status"),
	}
}

func clockGet(t testing.TB) *sysdef.Syscall {
	return &sysdef.Syscall{
		Name:     "clock_get_monotonic",
		Ordinal:  40,
		Return:   typeOf(t, "time"),
		Category: sysdef.CategoryVDSOCall,
		Const:    true,
	}
}

func generate(t testing.TB, g sysgen.Generator, syscalls ...*sysdef.Syscall) string {
	t.Helper()
	b := new(strings.Builder)
	assert.OK(t, sysgen.Run(b, g, syscalls))
	return b.String()
}

// recorder is a call wrapper writing a marker line in each hook.
type recorder struct {
	name    string
	applies func(*sysdef.Syscall) bool
}

func (r recorder) Name() string { return r.name }

func (r recorder) Applies(sc *sysdef.Syscall) bool {
	return r.applies == nil || r.applies(sc)
}

func (r recorder) PreCall(w io.Writer, sc *sysdef.Syscall) error {
	_, err := io.WriteString(w, "    // "+r.name+" pre\n")
	return err
}

func (r recorder) PostCall(w io.Writer, sc *sysdef.Syscall, returnVar string) error {
	line := "    // " + r.name + " post"
	if returnVar != "" {
		line += " " + returnVar
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

// failingWriter accepts limit bytes then fails all writes.
type failingWriter struct {
	limit int
	b     strings.Builder
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(b []byte) (int, error) {
	if len(b) > w.limit {
		n, _ := w.b.Write(b[:w.limit])
		w.limit = 0
		return n, errDiskFull
	}
	w.limit -= len(b)
	return w.b.Write(b)
}
