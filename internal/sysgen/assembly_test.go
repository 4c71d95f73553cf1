package sysgen_test

import (
	"strings"
	"testing"

	"github.com/stealthrocket/sysgen/internal/assert"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

func TestX86AssemblyChannelWrite(t *testing.T) {
	g := sysgen.NewX86Assembly("X86_SYSCALL", "zx_")
	assert.Text(t, generate(t, g, channelWrite(t)), `X86_SYSCALL(zx_channel_write, 24, 4, rdi, rsi, rdx, r10)
int32_t zx_channel_write(uint32_t handle, uint32_t options, user_ptr<const uint8_t> bytes, uint32_t num_bytes) {
    int32_t ret;
    ret = SYSCALL_zx_channel_write(handle, options, bytes, num_bytes);
    return ret;
}

`)
}

func TestArm64AssemblyChannelWrite(t *testing.T) {
	g := sysgen.NewArm64Assembly("ARM64_SYSCALL", "zx_")
	assert.Text(t, generate(t, g, channelWrite(t)), `ARM64_SYSCALL(zx_channel_write, 24, 4, x0, x1, x2, x3)
int32_t zx_channel_write(uint32_t handle, uint32_t options, user_ptr<const uint8_t> bytes, uint32_t num_bytes) {
    int32_t ret;
    ret = SYSCALL_zx_channel_write(handle, options, bytes, num_bytes);
    return ret;
}

`)
}

func TestAssemblyVoidNoArgs(t *testing.T) {
	g := sysgen.NewX86Assembly("X86_SYSCALL", "zx_")
	out := generate(t, g, threadExit())
	assert.Text(t, out, `X86_SYSCALL(zx_thread_exit, 3, 0)
void zx_thread_exit(void) {
    SYSCALL_zx_thread_exit();
}

`)
	assert.Equal(t, strings.Contains(out, "return"), false)
}

func TestAssemblyWrapperNesting(t *testing.T) {
	w1 := recorder{name: "w1"}
	w2 := recorder{name: "w2"}
	never := recorder{name: "never", applies: func(*sysdef.Syscall) bool { return false }}

	g := sysgen.NewArm64Assembly("ARM64_SYSCALL", "zx_", w1, never, w2)
	assert.Text(t, generate(t, g, portWait(t)), `ARM64_SYSCALL(zx_port_wait, 7, 3, x0, x1, x2)
zx_status_t zx_port_wait(zx_handle_t handle, zx_time_t deadline, user_ptr<void> packet) {
    zx_status_t ret;
    // w1 pre
    // w2 pre
    ret = SYSCALL_zx_port_wait(handle, deadline, packet);
    // w2 post ret
    // w1 post ret
    return ret;
}

`)
}

func TestAssemblyWrappersReceiveEmptyReturnVar(t *testing.T) {
	g := sysgen.NewX86Assembly("X86_SYSCALL", "", recorder{name: "w"})
	assert.Text(t, generate(t, g, threadExit()), `X86_SYSCALL(thread_exit, 3, 0)
void thread_exit(void) {
    // w pre
    SYSCALL_thread_exit();
    // w post
}

`)
}

func TestAssemblyBuiltinWrappers(t *testing.T) {
	wrappers, err := sysgen.LookupWrappers("blocking-retry", "noreturn")
	assert.OK(t, err)

	g := sysgen.NewX86Assembly("X86_SYSCALL", "zx_", wrappers...)
	assert.Text(t, generate(t, g, portWait(t), threadExit(), channelWrite(t)), `X86_SYSCALL(zx_port_wait, 7, 3, rdi, rsi, rdx)
zx_status_t zx_port_wait(zx_handle_t handle, zx_time_t deadline, user_ptr<void> packet) {
    zx_status_t ret;
    do {
    ret = SYSCALL_zx_port_wait(handle, deadline, packet);
    } while (unlikely(ret == ZX_ERR_INTERNAL_INTR_RETRY));
    return ret;
}

X86_SYSCALL(zx_thread_exit, 3, 0)
void zx_thread_exit(void) {
    SYSCALL_zx_thread_exit();
    __builtin_unreachable();
}

X86_SYSCALL(zx_channel_write, 24, 4, rdi, rsi, rdx, r10)
int32_t zx_channel_write(uint32_t handle, uint32_t options, user_ptr<const uint8_t> bytes, uint32_t num_bytes) {
    int32_t ret;
    ret = SYSCALL_zx_channel_write(handle, options, bytes, num_bytes);
    return ret;
}

`)
}

func TestAssemblyArgumentNamedRet(t *testing.T) {
	g := sysgen.NewX86Assembly("X86_SYSCALL", "zx_", recorder{name: "w"})
	assert.Text(t, generate(t, g, objectGet(t)), `X86_SYSCALL(zx_object_get, 12, 1, rdi)
zx_status_t zx_object_get(uint32_t ret) {
    zx_status_t ret_;
    // w pre
    ret_ = SYSCALL_zx_object_get(ret);
    // w post ret_
    return ret_;
}

`)
}

func TestAssemblySkipsVDSOCalls(t *testing.T) {
	g := sysgen.NewX86Assembly("X86_SYSCALL", "zx_")
	assert.Equal(t, generate(t, g, clockGet(t)), "")
}

func TestAssemblyStackArguments(t *testing.T) {
	sc := &sysdef.Syscall{Name: "many", Ordinal: 1, Return: sysdef.Void}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		sc.Args = append(sc.Args, sysdef.Arg{Name: name, Type: typeOf(t, "u64")})
	}

	out := generate(t, sysgen.NewX86Assembly("X86_SYSCALL", ""), sc)
	assert.HasPrefix(t, out, "X86_SYSCALL(many, 1, 8, rdi, rsi, rdx, r10, r8, r9, 8(%rsp), 16(%rsp))\n")

	out = generate(t, sysgen.NewArm64Assembly("ARM64_SYSCALL", ""), sc)
	assert.HasPrefix(t, out, "ARM64_SYSCALL(many, 1, 8, x0, x1, x2, x3, x4, x5, x6, x7)\n")
}

func TestAssemblyUnsupportedShapes(t *testing.T) {
	tooMany := &sysdef.Syscall{Name: "too_many", Return: sysdef.Void}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		tooMany.Args = append(tooMany.Args, sysdef.Arg{Name: name, Type: typeOf(t, "u32")})
	}
	u128 := sysdef.Type{Name: "u128", CType: "__uint128_t", Size: 16}
	wideArg := &sysdef.Syscall{
		Name:   "wide_arg",
		Args:   []sysdef.Arg{{Name: "x", Type: u128}},
		Return: sysdef.Void,
	}
	widePointer := &sysdef.Syscall{
		Name:   "wide_pointer",
		Args:   []sysdef.Arg{{Name: "x", Type: u128, Pointer: sysdef.PointerOut}},
		Return: sysdef.Void,
	}
	wideReturn := &sysdef.Syscall{Name: "wide_return", Return: u128}

	for _, g := range []sysgen.Generator{
		sysgen.NewX86Assembly("X86_SYSCALL", ""),
		sysgen.NewArm64Assembly("ARM64_SYSCALL", ""),
	} {
		for _, sc := range []*sysdef.Syscall{tooMany, wideArg, wideReturn} {
			b := new(strings.Builder)
			err := g.Syscall(b, sc)
			assert.Error(t, err, sysgen.ErrUnsupported)
			assert.Equal(t, b.String(), "")
		}
		assert.OK(t, g.Syscall(new(strings.Builder), widePointer))
	}
}

func TestAssemblyIsDeterministic(t *testing.T) {
	wrappers, err := sysgen.LookupWrappers("blocking-retry", "noreturn")
	assert.OK(t, err)

	syscalls := []*sysdef.Syscall{channelWrite(t), threadExit(), portWait(t), clockGet(t)}
	first := generate(t, sysgen.NewX86Assembly("X86_SYSCALL", "zx_", wrappers...), syscalls...)
	again := generate(t, sysgen.NewX86Assembly("X86_SYSCALL", "zx_", wrappers...), syscalls...)
	assert.Equal(t, again, first)
}
