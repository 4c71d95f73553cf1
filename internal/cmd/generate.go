package cmd

import (
	"context"
	"fmt"

	"github.com/stealthrocket/sysgen/internal/build"
	"github.com/stealthrocket/sysgen/internal/log"
)

const generateUsage = `
Usage:	sysgen generate [options] [<output>...]

   The generate command runs the generators listed in the build configuration
   over the syscall table and writes their outputs. Outputs are replaced only
   once they have been completely generated.

   Outputs may be selected by generator name or by path, all the outputs are
   generated when none are given.

Example:

   $ cat sysgen.yaml
   syscalls: syscalls.yaml
   outputs:
     - generator: x86-asm
       path: gen/syscalls-x86-64.S
       wrappers: [blocking-retry, noreturn]
     - generator: numbers
       path: gen/zircon-syscall-numbers.h

   $ sysgen generate numbers

Options:
   -c, --config path  Path to the build configuration (overrides SYSGENCONFIG)
   -h, --help         Show this usage information
   -v, --verbose      Enable debug logs
`

func generate(ctx context.Context, args []string) error {
	flagSet := newFlagSet("sysgen generate", generateUsage)
	only, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	cfg, err := build.LoadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Outputs) == 0 {
		return fmt.Errorf("no outputs configured in %s", build.ConfigPath)
	}

	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}
	log.L.Debug("loaded syscall table", "syscalls", len(table.Syscalls), "outputs", len(cfg.Outputs))

	return build.Build(ctx, cfg, table, only...)
}
