package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/stealthrocket/sysgen/internal/build"
	"github.com/stealthrocket/sysgen/internal/print/human"
	"github.com/stealthrocket/sysgen/internal/print/jsonprint"
	"github.com/stealthrocket/sysgen/internal/print/textprint"
	"github.com/stealthrocket/sysgen/internal/print/yamlprint"
	"github.com/stealthrocket/sysgen/internal/stream"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

const getUsage = `
Usage:	sysgen get <resource type> [options]

   The get sub-command displays the resources known to sysgen. The command
   must be followed by the name of resources to display, which must be one
   of syscall, generator, wrapper or type.
   (the command also accepts plurals and abbreviations of the resource names)

   Syscalls are read from the table given with --table, or from the table of
   the build configuration.

Examples:

   $ sysgen get syscalls -q
   thread_exit
   port_wait
   channel_write

   $ sysgen get wrappers -o yaml
   name: blocking-retry
   description: restart blocking syscalls interrupted by the kernel
   ...

Options:
   -c, --config path    Path to the build configuration (overrides SYSGENCONFIG)
   -h, --help           Show this usage information
   -o, --output format  Output format, one of: text, json, yaml
   -q, --quiet          Only display the resource names
   -t, --table path     Path to the syscall table
`

type resource struct {
	typ string
	alt []string
	get func(w io.Writer, out outputFormat, quiet bool, table func() (*sysdef.Table, error)) error
}

var resources = [...]resource{
	{
		typ: "generator",
		alt: []string{"gen", "gens", "generators"},
		get: getGenerators,
	},
	{
		typ: "syscall",
		alt: []string{"sc", "sys", "syscalls"},
		get: getSyscalls,
	},
	{
		typ: "type",
		alt: []string{"types"},
		get: getTypes,
	},
	{
		typ: "wrapper",
		alt: []string{"wr", "wrappers"},
		get: getWrappers,
	},
}

func get(ctx context.Context, args []string) error {
	var (
		output = outputFormat("text")
		quiet  = false
		path   human.Path
	)

	flagSet := newFlagSet("sysgen get", getUsage)
	customVar(flagSet, &output, "o", "output")
	boolVar(flagSet, &quiet, "q", "quiet")
	customVar(flagSet, &path, "t", "table")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return usage(`Expected the resource type as argument` + useGet())
	}
	r, ok := findResource(args[0])
	if !ok {
		return usageError("sysgen get %s: unknown resource type%s", args[0], useGet())
	}

	loadTable := func() (*sysdef.Table, error) {
		if path != "" {
			p, err := path.Resolve()
			if err != nil {
				return nil, err
			}
			return sysdef.LoadFile(p)
		}
		cfg, err := build.LoadConfig()
		if err != nil {
			return nil, err
		}
		return cfg.LoadTable()
	}
	return r.get(os.Stdout, output, quiet, loadTable)
}

type syscallRow struct {
	Name     string          `json:"name"               yaml:"name"               text:"SYSCALL"`
	Ordinal  int             `json:"ordinal"            yaml:"ordinal"            text:"ORDINAL"`
	Args     []string        `json:"args"               yaml:"args"               text:"ARGS"`
	Return   string          `json:"return"             yaml:"return"             text:"RETURN"`
	Category sysdef.Category `json:"category,omitempty" yaml:"category,omitempty" text:"CATEGORY"`
	Flags    []string        `json:"flags,omitempty"    yaml:"flags,omitempty"    text:"FLAGS"`
}

func newSyscallRow(sc *sysdef.Syscall) (syscallRow, error) {
	row := syscallRow{
		Name:     sc.Name,
		Ordinal:  sc.Ordinal,
		Args:     make([]string, len(sc.Args)),
		Return:   sc.Return.Name,
		Category: sc.Category,
	}
	for i, arg := range sc.Args {
		row.Args[i] = arg.Name + ":" + arg.Type.Name
		if arg.IsPointer() {
			row.Args[i] += "*"
		}
	}
	if sc.Blocking {
		row.Flags = append(row.Flags, "blocking")
	}
	if sc.NoReturn {
		row.Flags = append(row.Flags, "noreturn")
	}
	if sc.Const {
		row.Flags = append(row.Flags, "const")
	}
	return row, nil
}

func getSyscalls(w io.Writer, out outputFormat, quiet bool, loadTable func() (*sysdef.Table, error)) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	rows := stream.Convert(stream.NewReader(table.Syscalls...), newSyscallRow)
	return printAll(w, out, quiet, rows,
		textprint.OrderBy(func(a, b syscallRow) int { return a.Ordinal - b.Ordinal }),
	)
}

func getGenerators(w io.Writer, out outputFormat, quiet bool, _ func() (*sysdef.Table, error)) error {
	return printAll[sysgen.Factory](w, out, quiet, stream.NewReader(sysgen.Generators[:]...))
}

type wrapperRow struct {
	Name        string `json:"name"        yaml:"name"        text:"WRAPPER"`
	Description string `json:"description" yaml:"description" text:"DESCRIPTION"`
}

func getWrappers(w io.Writer, out outputFormat, quiet bool, _ func() (*sysdef.Table, error)) error {
	names := sysgen.WrapperNames()
	rows := stream.Convert(stream.NewReader(names...), func(name string) (wrapperRow, error) {
		wrapper, err := sysgen.LookupWrapper(name)
		if err != nil {
			return wrapperRow{}, err
		}
		row := wrapperRow{Name: wrapper.Name()}
		if d, ok := wrapper.(interface{ Description() string }); ok {
			row.Description = d.Description()
		}
		return row, nil
	})
	return printAll(w, out, quiet, rows)
}

func getTypes(w io.Writer, out outputFormat, quiet bool, _ func() (*sysdef.Table, error)) error {
	rows := stream.Convert(stream.NewReader(sysdef.TypeNames()...), sysdef.LookupType)
	return printAll(w, out, quiet, rows)
}

func printAll[T any](w io.Writer, out outputFormat, quiet bool, rows stream.Reader[T], opts ...textprint.TableOption[T]) error {
	var writer stream.WriteCloser[T]
	switch out {
	case "json":
		writer = jsonprint.NewWriter[T](w)
	case "yaml":
		writer = yamlprint.NewWriter[T](w)
	default:
		opts = append(opts, textprint.Header[T](!quiet), textprint.List[T](quiet))
		writer = textprint.NewTableWriter[T](w, opts...)
	}
	if _, err := stream.Copy[T](writer, rows); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func findResource(name string) (*resource, bool) {
	for i, r := range resources {
		if r.typ == name {
			return &resources[i], true
		}
		for _, alt := range r.alt {
			if alt == name {
				return &resources[i], true
			}
		}
	}
	return nil, false
}

func useGet() string {
	s := new(strings.Builder)
	s.WriteString("\n\n")
	s.WriteString(`Use 'sysgen get <resource type>' where the supported resource types are:`)
	for _, r := range resources {
		s.WriteString("\n   ")
		s.WriteString(r.typ)
	}
	return s.String()
}
