package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application logger. Output goes to stderr so that tables and
// reports written to stdout stay clean.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}

// SetLogLevel sets the level of Log from its name.
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "trace":
		Log.SetLevel(logrus.TraceLevel)
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	default:
		return fmt.Errorf("bad log level %q", level)
	}
	return nil
}
