package sysgen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stealthrocket/sysgen/internal/sysdef"
)

const (
	defaultGoPackage  = "syscalls"
	defaultGoTypeName = "SyscallNumber"
)

// GoEnum generates a Go source file declaring a typed constant for the number
// of each syscall.
//
// The file is buffered until Footer, which writes it in gofmt layout. Nothing
// reaches the output writer before then.
type GoEnum struct {
	pkg      string
	typeName string
	buf      bytes.Buffer
}

// NewGoEnum returns a generator of Go constants of type typeName in package
// pkg. Empty arguments select the "syscalls" package and the "SyscallNumber"
// type.
func NewGoEnum(pkg, typeName string) *GoEnum {
	if pkg == "" {
		pkg = defaultGoPackage
	}
	if typeName == "" {
		typeName = defaultGoTypeName
	}
	return &GoEnum{pkg: pkg, typeName: typeName}
}

func (g *GoEnum) Header(w io.Writer) error {
	g.buf.Reset()
	_, err := fmt.Fprintf(&g.buf, `// Code generated by sysgen. DO NOT EDIT.

package %[1]s

type %[2]s int

const (
`, g.pkg, g.typeName)
	return err
}

func (g *GoEnum) Syscall(w io.Writer, sc *sysdef.Syscall) error {
	if sc.IsVDSOCall() {
		return nil
	}
	_, err := fmt.Fprintf(&g.buf, "\t%s%s %s = %d\n", g.typeName, GoName(sc.Name), g.typeName, sc.Ordinal)
	return err
}

func (g *GoEnum) Footer(w io.Writer) error {
	g.buf.WriteString(")\n")
	src, err := format.Source(g.buf.Bytes())
	g.buf.Reset()
	if err != nil {
		return fmt.Errorf("formatting Go source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// GoName converts a snake_case syscall name to an exported Go identifier
// (e.g. "channel_write" becomes "ChannelWrite").
func GoName(name string) string {
	// Casers are stateful, they cannot be shared between goroutines.
	title := cases.Title(language.English)
	b := new(strings.Builder)
	for _, word := range strings.Split(name, "_") {
		b.WriteString(title.String(word))
	}
	return b.String()
}
