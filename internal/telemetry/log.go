// Package telemetry holds the structured logger and Prometheus collectors
// shared by the ICMP and RDT engines. Neither engine depends on telemetry
// for correctness: every call here is additive diagnostics layered on top
// of the literal stdout lines scripted consumers parse.
package telemetry

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger writing to out. debug raises the level to
// Debug, which is where the per-tick RDT sender snapshots and per-probe
// completion lines are logged; everything else stays at Info.
func NewLogger(debug bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
