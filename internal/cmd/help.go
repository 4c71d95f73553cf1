package cmd

import (
	"context"
	"fmt"
	"strings"
)

const helpUsage = `
Usage:	sysgen <command> [options]

Build Commands:
   generate  Generate the outputs listed in the build configuration
   emit      Run a single generator and write its output

Inspection Commands:
   get       Display syscalls, generators, call wrappers or types
   config    Show the build configuration

Other Commands:
   help      Show usage information about sysgen commands
   version   Show the sysgen version information

Global Options:
   -c, --config path  Path to the build configuration (overrides SYSGENCONFIG)
   -v, --verbose      Enable debug logs

For a description of each command, run 'sysgen help <command>'.`

func help(ctx context.Context, args []string) error {
	flagSet := newFlagSet("sysgen help", helpUsage)
	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	cmd := "help"
	if len(args) > 0 {
		cmd = args[0]
	}
	_, msg, ok := lookupCommand(cmd)
	if !ok {
		return usageError("sysgen help %s: unknown command", cmd)
	}
	fmt.Println(strings.TrimSpace(msg))
	return nil
}
