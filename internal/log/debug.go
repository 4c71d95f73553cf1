package log

import hclog "github.com/hashicorp/go-hclog"

// EnableDebug lowers the log level to Debug, unless tracing was already
// enabled from the environment.
func EnableDebug() {
	if !L.IsTrace() {
		L.SetLevel(hclog.Debug)
	}
}
