// Package logging holds the shared application logger. Engines and services
// log through logging.Log; HTTP request logging is handled separately by
// fiber's logger middleware.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger. Bootstrap must be called once at startup
// before anything logs.
var Log *logrus.Logger

// Bootstrap initialises Log. In development the output is human-readable
// text; everywhere else JSON, so log collectors can parse it.
func Bootstrap(env string) {
	Log = logrus.New()
	Log.Out = os.Stdout
	Log.SetLevel(logrus.InfoLevel)

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}
