package sysgen

import (
	"io"
	"strings"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

const indent = "    "

// ReturnVar is the name of the variable holding the raw return value of a
// syscall in generated function bodies. Underscores are appended to it when
// the syscall has an argument of the same name.
const ReturnVar = "ret"

// ArgSeparator is the usual InterArg of signatures written on one line.
const ArgSeparator = ", "

// SignatureOptions configures how WriteSignature formats a function
// signature.
type SignatureOptions struct {
	// BeforeArgs is written right after the opening parenthesis.
	BeforeArgs string
	// InterArg is written between arguments as-is, an empty InterArg joins
	// them with nothing. Most callers want ArgSeparator.
	InterArg string
	// WrapUserPointers declares pointer arguments as user_ptr<T> instead of
	// plain C pointers.
	WrapUserPointers bool
	// NoArgsType is written in place of the argument list when the syscall
	// has no arguments (e.g. "void").
	NoArgsType string
}

// WriteSignature writes the signature of sc, up to the closing parenthesis of
// the argument list. It never writes a terminating ';', a function body, or
// attributes.
func WriteSignature(w io.Writer, sc *sysdef.Syscall, prefix string, opts SignatureOptions) error {
	b := new(strings.Builder)
	b.WriteString(sc.Return.CType)
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(sc.Name)
	b.WriteByte('(')
	b.WriteString(opts.BeforeArgs)

	if len(sc.Args) == 0 {
		b.WriteString(opts.NoArgsType)
	}
	for i, arg := range sc.Args {
		if i != 0 {
			b.WriteString(opts.InterArg)
		}
		writeArgDecl(b, arg, opts.WrapUserPointers)
	}

	b.WriteByte(')')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeArgDecl(b *strings.Builder, arg sysdef.Arg, wrap bool) {
	ctype := arg.Type.CType
	if arg.Pointer == sysdef.PointerIn {
		ctype = "const " + ctype
	}
	switch {
	case !arg.IsPointer():
		b.WriteString(ctype)
	case wrap:
		b.WriteString("user_ptr<")
		b.WriteString(ctype)
		b.WriteString(">")
	default:
		b.WriteString(ctype)
		b.WriteString("*")
	}
	b.WriteByte(' ')
	b.WriteString(arg.Name)
}

// WriteReturnVar writes the declaration of the variable receiving the return
// value of sc and returns its name, which never shadows an argument of sc.
// Nothing is written and the name is empty when sc returns void.
func WriteReturnVar(w io.Writer, sc *sysdef.Syscall) (string, error) {
	if sc.IsVoid() {
		return "", nil
	}
	name := returnVarName(sc)
	_, err := io.WriteString(w, indent+sc.Return.CType+" "+name+";\n")
	return name, err
}

func returnVarName(sc *sysdef.Syscall) string {
	name := ReturnVar
	for sc.HasArg(name) {
		name += "_"
	}
	return name
}

// WriteInvocation writes a call of prefix+sc.Name passing the arguments by
// the names they have in the syscall table, assigning the result to
// returnVar unless it is empty. Arguments are passed as-is, without casts.
func WriteInvocation(w io.Writer, sc *sysdef.Syscall, returnVar, prefix string) error {
	b := new(strings.Builder)
	b.WriteString(indent)
	if returnVar != "" {
		b.WriteString(returnVar)
		b.WriteString(" = ")
	}
	b.WriteString(prefix)
	b.WriteString(sc.Name)
	b.WriteByte('(')
	for i, arg := range sc.Args {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
	}
	b.WriteString(");\n")
	_, err := io.WriteString(w, b.String())
	return err
}
