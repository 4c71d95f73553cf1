package cmd

import "context"

const unknownCommand = `sysgen %s: unknown command
For a list of commands available, run 'sysgen help'.`

func unknown(ctx context.Context, cmd string) error {
	return usageError(unknownCommand, cmd)
}
