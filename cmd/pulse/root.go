package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ravvdevv/pulse-rdt/internal/history"
	"github.com/ravvdevv/pulse-rdt/internal/telemetry"
)

var (
	cfgFile string
	debug   bool

	log *logrus.Logger
)

// newRootCmd builds the pulse root command and wires the ping, traceroute,
// rdt-demo, serve-metrics and history subcommands onto it. There is no
// payload-size flag: the Echo Request payload is a fixed 52 ASCII bytes, a
// wire invariant the fixed-offset reply parsing depends on.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulse",
		Short: "Hand-rolled ICMP ping/traceroute and a selective-repeat RDT simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.pulse-rdt.yaml)")
	root.PersistentFlags().BoolVarP(&debug, "debug", "v", false, "enable debug logging and hex dumps")

	root.AddCommand(newPingCmd())
	root.AddCommand(newTracerouteCmd())
	root.AddCommand(newRDTDemoCmd())
	root.AddCommand(newServeMetricsCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// initConfig binds viper to an optional ~/.pulse-rdt.yaml and PULSE_* env
// vars, and constructs the process-wide logger at the resolved debug level.
func initConfig() error {
	viper.SetEnvPrefix("PULSE")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".pulse-rdt")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if !debug {
		debug = viper.GetBool("debug")
	}
	log = telemetry.NewLogger(debug, os.Stderr)
	return nil
}

// openHistoryStore opens the session-history database at
// ~/.pulse-rdt/history.db, creating its parent directory if needed. Callers
// treat a failure to open history as non-fatal: it is domain-stack
// enrichment, never required for a probe session to run.
func openHistoryStore() (*history.Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".pulse-rdt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return history.Open(filepath.Join(dir, "history.db"))
}

func newSessionID() string { return uuid.NewString() }

func logSessionStart(kind, host, sessionID string) {
	log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"kind":       kind,
		"host":       host,
	}).Info("session starting")
}

func logSessionEnd(kind, sessionID string, started time.Time) {
	log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"kind":       kind,
		"elapsed":    time.Since(started),
	}).Info("session finished")
}
