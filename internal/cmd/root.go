// Package cmd implements the sysgen command line.
package cmd

// Notes on program structure
// --------------------------
//
// sysgen uses subcommands to invoke specific functionalities of the program.
// Each subcommand is implemented by a function named after the command, in a
// file of the same name (e.g. the "emit" command is implemented by the emit
// function in emit.go).
//
// The usage message for each command is declared by a constant starting with
// the command name and followed by the suffix "Usage". For example, the usage
// message for the "help" command is declared by the constant helpUsage.
//
// The usage message contains a "Usage:	sysgen <command>" section presenting
// the structure of the command. Note the tabulation separating "Usage:" and
// "sysgen".

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/slices"

	"github.com/stealthrocket/sysgen/internal/build"
	"github.com/stealthrocket/sysgen/internal/log"
	"github.com/stealthrocket/sysgen/internal/print/human"
)

const rootUsage = `sysgen - syscall code generator

   sysgen turns a table of syscall definitions into the sources needed to
   build a kernel and its userspace: syscall trampolines for each supported
   architecture, syscall numbers, trace metadata and declaration headers.

Example:

   $ sysgen generate
   ...

   $ sysgen emit x86-asm syscalls.yaml --wrapper blocking-retry
   X86_SYSCALL(zx_channel_write, 24, 4, rdi, rsi, rdx, r10)
   ...

For a list of commands available, run 'sysgen help'.`

// verbose is set by the -v option of all commands.
var verbose bool

// Root is the sysgen entrypoint, it returns the exit code of the program.
func Root(ctx context.Context, args ...string) int {
	defer func(path human.Path) { build.ConfigPath = path }(build.ConfigPath)
	verbose = false

	if path, ok := os.LookupEnv("SYSGENCONFIG"); ok {
		_ = build.ConfigPath.Set(path)
	}

	if len(args) == 0 {
		fmt.Println(rootUsage)
		return 0
	}

	cmd, args := args[0], args[1:]
	run, _, ok := lookupCommand(cmd)
	if !ok {
		run = func(ctx context.Context, _ []string) error { return unknown(ctx, cmd) }
	}

	err := run(ctx, args)
	if errors.Is(err, flag.ErrHelp) {
		_, usage, _ := lookupCommand(cmd)
		fmt.Println(strings.TrimSpace(usage))
		return 0
	}

	switch e := err.(type) {
	case nil:
		return 0
	case exitCode:
		return int(e)
	case usage:
		fmt.Fprintf(os.Stderr, "%s\n", e)
		return 2
	default:
		perrorf("sysgen %s: %s", cmd, err)
		return 1
	}
}

func lookupCommand(name string) (run func(context.Context, []string) error, usage string, ok bool) {
	switch name {
	case "config":
		return config, configUsage, true
	case "emit":
		return emit, emitUsage, true
	case "generate":
		return generate, generateUsage, true
	case "get":
		return get, getUsage, true
	case "help":
		return help, helpUsage, true
	case "version":
		return version, versionUsage, true
	default:
		return nil, "", false
	}
}

// exitCode is an error type returned from command functions to indicate the
// exit code that should be returned by the program.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit: %d", e)
}

// usage is an error type returned from command functions to indicate a usage
// error.
//
// Usage errors cause the program to exit with status code 2.
type usage string

func usageError(msg string, args ...any) error {
	return usage(fmt.Sprintf(msg, args...))
}

func (e usage) Error() string {
	return string(e)
}

var errorLabel = color.New(color.FgRed, color.Bold)

func perrorf(msg string, args ...any) {
	errorLabel.Fprint(color.Error, "ERR:")
	fmt.Fprintf(color.Error, " "+msg+"\n", args...)
}

func setEnum[T ~string](enum *T, typ string, value string, options ...string) error {
	for _, option := range options {
		if option == value {
			*enum = T(option)
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %q (not one of %s)", typ, value, strings.Join(options, ", "))
}

type outputFormat string

func (o outputFormat) String() string {
	return string(o)
}

func (o *outputFormat) Set(value string) error {
	return setEnum(o, "output format", value, "text", "json", "yaml")
}

type stringList []string

func (s stringList) String() string {
	return fmt.Sprintf("%v", []string(s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func newFlagSet(cmd, usage string) *flag.FlagSet {
	flagSet := flag.NewFlagSet(cmd, flag.ContinueOnError)
	// Errors are reported by parseFlags, and usage messages by Root when
	// the command returns flag.ErrHelp.
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	customVar(flagSet, &build.ConfigPath, "c", "config")
	boolVar(flagSet, &verbose, "v", "verbose")
	return flagSet
}

// parseFlags is a greedy parser which consumes all options known to f and
// returns the remaining arguments.
func parseFlags(f *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := f.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usageError("%s: %s", f.Name(), err)
		}
		rest := f.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			positional = append(positional, rest...)
			rest = nil
		}
		if len(rest) == 0 {
			if verbose {
				log.EnableDebug()
			}
			return positional, nil
		}
		i := slices.IndexFunc(rest, func(s string) bool {
			return strings.HasPrefix(s, "-") && s != "-"
		})
		if i < 0 {
			i = len(rest)
		}
		positional = append(positional, rest[:i]...)
		args = rest[i:]
	}
}

func boolVar(f *flag.FlagSet, dst *bool, name string, alias ...string) {
	f.BoolVar(dst, name, *dst, "")
	for _, name := range alias {
		f.BoolVar(dst, name, *dst, "")
	}
}

func stringVar(f *flag.FlagSet, dst *string, name string, alias ...string) {
	f.StringVar(dst, name, *dst, "")
	for _, name := range alias {
		f.StringVar(dst, name, *dst, "")
	}
}

func customVar(f *flag.FlagSet, dst flag.Value, name string, alias ...string) {
	f.Var(dst, name, "")
	for _, name := range alias {
		f.Var(dst, name, "")
	}
}
