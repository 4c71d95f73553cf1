package sysgen

import (
	"io"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

// DeclarationOptions selects the flavor of prototypes written by
// Declarations.
type DeclarationOptions struct {
	// Extern wraps the declarations in an extern "C" block for C++ sources.
	Extern bool
	// Kernel declares the kernel side of syscalls: user pointers are wrapped
	// and calls implemented in the vDSO are left out.
	Kernel bool
}

// Declarations generates the prototypes of syscall functions.
type Declarations struct {
	prefix string
	opts   DeclarationOptions
}

// NewDeclarations returns a generator of prototypes for the syscall functions
// named prefix+name. User prototypes put each argument on its own line.
func NewDeclarations(prefix string, opts DeclarationOptions) *Declarations {
	return &Declarations{prefix: prefix, opts: opts}
}

func (g *Declarations) Header(w io.Writer) error {
	if !g.opts.Extern {
		return nil
	}
	_, err := io.WriteString(w, "#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")
	return err
}

func (g *Declarations) Syscall(w io.Writer, sc *sysdef.Syscall) error {
	if g.opts.Kernel && sc.IsVDSOCall() {
		return nil
	}

	opts := SignatureOptions{NoArgsType: "void"}
	if g.opts.Kernel {
		opts.InterArg = ArgSeparator
		opts.WrapUserPointers = true
	} else {
		opts.BeforeArgs = "\n" + indent
		opts.InterArg = ",\n" + indent
	}
	if err := WriteSignature(w, sc, g.prefix, opts); err != nil {
		return err
	}

	attrs := ""
	if sc.NoReturn {
		attrs += " __NO_RETURN"
	}
	if sc.Const && sc.IsVDSOCall() {
		attrs += " __CONST"
	}
	_, err := io.WriteString(w, attrs+";\n\n")
	return err
}

func (g *Declarations) Footer(w io.Writer) error {
	if !g.opts.Extern {
		return nil
	}
	_, err := io.WriteString(w, "#ifdef __cplusplus\n}\n#endif\n")
	return err
}
