package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/stealthrocket/sysgen/internal/cmd"
)

func init() {
	// Logs go through the hclog logger of internal/log.
	log.SetOutput(io.Discard)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Root(ctx, os.Args[1:]...)
	stop()
	os.Exit(code)
}
