// Package log holds the logger shared by the sysgen packages.
package log

import (
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

// L is the program logger, it writes to stderr.
var L hclog.Logger

func init() {
	L = hclog.New(&hclog.LoggerOptions{
		Name:   "sysgen",
		Output: os.Stderr,
		Level:  hclog.Info,
	})

	if str := os.Getenv("SYSGEN_TRACE"); str != "" {
		L.SetLevel(hclog.Trace)
	}
}
