package sysdef_test

import (
	"strings"
	"testing"

	"github.com/stealthrocket/sysgen/internal/assert"
	"github.com/stealthrocket/sysgen/internal/sysdef"
)

func load(t *testing.T, s string) *sysdef.Table {
	t.Helper()
	table, err := sysdef.Load(strings.NewReader(s))
	assert.OK(t, err)
	return table
}

func TestLoadChannelWrite(t *testing.T) {
	table := load(t, `
syscalls:
  - name: channel_write
    ordinal: 24
    args:
      - { name: handle, type: handle }
      - { name: options, type: u32 }
      - { name: bytes, type: u8, pointer: in }
      - { name: num_bytes, type: u32 }
    return: status
    blocking: true
`)
	assert.Equal(t, len(table.Syscalls), 1)

	sc := table.Lookup("channel_write")
	assert.NotEqual(t, sc, nil)
	assert.Equal(t, sc.Ordinal, 24)
	assert.Equal(t, sc.NumArgs(), 4)
	assert.Equal(t, sc.Return.CType, "zx_status_t")
	assert.Equal(t, sc.Blocking, true)
	assert.Equal(t, sc.IsVoid(), false)
	assert.Equal(t, sc.Args[2].Pointer, sysdef.PointerIn)
	assert.Equal(t, sc.Args[2].Type.CType, "uint8_t")
	assert.Equal(t, sc.Args[0].IsPointer(), false)
}

func TestLoadDefaults(t *testing.T) {
	table := load(t, `
syscalls:
  - name: thread_exit
    noreturn: true
  - name: clock_get_monotonic
    category: vdsocall
    return: time
`)
	exit := table.Syscalls[0]
	assert.Equal(t, exit.IsVoid(), true)
	assert.Equal(t, exit.NumArgs(), 0)
	assert.Equal(t, exit.NoReturn, true)

	clock := table.Syscalls[1]
	assert.Equal(t, clock.IsVDSOCall(), true)
	assert.Equal(t, clock.Return.Size, 8)
}

func TestLoadEmpty(t *testing.T) {
	table := load(t, ``)
	assert.Equal(t, len(table.Syscalls), 0)
}

func TestLoadArgumentNamedRet(t *testing.T) {
	table := load(t, `
syscalls:
  - name: object_get
    args:
      - { name: ret, type: u32 }
    return: status
`)
	sc := table.Lookup("object_get")
	assert.Equal(t, sc.HasArg("ret"), true)
	assert.Equal(t, sc.HasArg("ret_"), false)
	assert.Equal(t, sc.IsVoid(), false)
}

func TestLoadAssignsOrdinals(t *testing.T) {
	table := load(t, `
syscalls:
  - name: a
  - name: b
    ordinal: 0
  - name: c
  - name: d
    ordinal: 2
  - name: e
`)
	ordinals := make([]int, len(table.Syscalls))
	for i, sc := range table.Syscalls {
		ordinals[i] = sc.Ordinal
	}
	assert.EqualAll(t, ordinals, []int{1, 0, 3, 2, 4})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		scenario string
		table    string
		err      error
	}{
		{
			scenario: "two syscalls with the same name",
			table:    "syscalls: [{name: a}, {name: a}]",
			err:      sysdef.ErrDuplicateName,
		},
		{
			scenario: "two syscalls with the same ordinal",
			table:    "syscalls: [{name: a, ordinal: 1}, {name: b, ordinal: 1}]",
			err:      sysdef.ErrDuplicateOrdinal,
		},
		{
			scenario: "two arguments with the same name",
			table:    "syscalls: [{name: a, args: [{name: x, type: u8}, {name: x, type: u8}]}]",
			err:      sysdef.ErrDuplicateName,
		},
		{
			scenario: "argument of unknown type",
			table:    "syscalls: [{name: a, args: [{name: x, type: f128}]}]",
			err:      sysdef.ErrUnknownType,
		},
		{
			scenario: "return value of unknown type",
			table:    "syscalls: [{name: a, return: f128}]",
			err:      sysdef.ErrUnknownType,
		},
		{
			scenario: "void argument",
			table:    "syscalls: [{name: a, args: [{name: x, type: void}]}]",
			err:      sysdef.ErrInvalidArgument,
		},
		{
			scenario: "untyped argument which is not a pointer",
			table:    "syscalls: [{name: a, args: [{name: x, type: any}]}]",
			err:      sysdef.ErrInvalidArgument,
		},
		{
			scenario: "syscall name which is not an identifier",
			table:    "syscalls: [{name: 'channel-write'}]",
			err:      sysdef.ErrInvalidName,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := sysdef.Load(strings.NewReader(test.table))
			assert.Error(t, err, test.err)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := sysdef.Load(strings.NewReader("syscalls: [{name: a, returns: u32}]"))
	assert.NotEqual(t, err, nil)
}

func TestLoadRejectsUnknownPointerKind(t *testing.T) {
	_, err := sysdef.Load(strings.NewReader("syscalls: [{name: a, args: [{name: x, type: u8, pointer: sideways}]}]"))
	assert.NotEqual(t, err, nil)
}
