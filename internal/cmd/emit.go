package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/stealthrocket/sysgen/internal/build"
	"github.com/stealthrocket/sysgen/internal/print/human"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

const emitUsage = `
Usage:	sysgen emit <generator> <syscalls.yaml> [options]

   The emit command runs a single generator over a syscall table, regardless
   of the build configuration. The output is written to stdout unless a file
   is given with --file, and nothing is written if generation fails.

   Run 'sysgen get generators' to list the available generators.

Example:

   $ sysgen emit numbers syscalls.yaml
   #define ZX_SYS_channel_write 24
   ...

Options:
   -f, --file path       Write the output to a file instead of stdout
   -h, --help            Show this usage information
       --macro name      Name of the trampoline macro of assembly generators
       --package name    Package name of the go-enum generator
       --prefix string   Prefix of the generated names (default depends on the generator)
       --type name       Type name of the go-enum generator
   -v, --verbose         Enable debug logs
   -w, --wrapper name    Call wrapper applied by assembly generators (may be repeated)
`

func emit(ctx context.Context, args []string) error {
	var (
		file     human.Path
		opts     sysgen.Options
		wrappers stringList
	)

	flagSet := newFlagSet("sysgen emit", emitUsage)
	customVar(flagSet, &file, "f", "file")
	stringVar(flagSet, &opts.Macro, "macro")
	stringVar(flagSet, &opts.Package, "package")
	stringVar(flagSet, &opts.Prefix, "prefix")
	stringVar(flagSet, &opts.TypeName, "type")
	customVar(flagSet, &wrappers, "w", "wrapper")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return usage("Expected a generator name and the path to a syscall table as arguments" + useEmit())
	}

	factory, err := sysgen.LookupGenerator(args[0])
	if err != nil {
		return usageError("sysgen emit: %s%s", err, useEmit())
	}
	if opts.Wrappers, err = sysgen.LookupWrappers(wrappers...); err != nil {
		return usageError("sysgen emit: %s", err)
	}
	g, err := factory.New(opts)
	if err != nil {
		return usageError("sysgen emit: %s", err)
	}

	table, err := sysdef.LoadFile(args[1])
	if err != nil {
		return err
	}

	if file != "" {
		path, err := file.Resolve()
		if err != nil {
			return err
		}
		return build.WriteFile(ctx, path, g, table.Syscalls)
	}

	// Buffer the whole output so a failed pass never reaches stdout.
	buf := new(bytes.Buffer)
	if err := sysgen.Run(buf, g, table.Syscalls); err != nil {
		return err
	}
	_, err = buf.WriteTo(os.Stdout)
	return err
}

func useEmit() string {
	s := new(strings.Builder)
	s.WriteString("\n\n")
	s.WriteString(`Use 'sysgen emit <generator> <syscalls.yaml>' where the supported generators are:`)
	for _, g := range sysgen.Generators {
		s.WriteString("\n   ")
		s.WriteString(g.Name)
	}
	return s.String()
}
