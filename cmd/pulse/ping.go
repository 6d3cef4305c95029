package main

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ravvdevv/pulse-rdt/internal/history"
	"github.com/ravvdevv/pulse-rdt/internal/icmp"
	"github.com/ravvdevv/pulse-rdt/internal/telemetry"
)

func newPingCmd() *cobra.Command {
	var (
		count    int
		interval float64
		timeout  float64
		ttl      int
	)

	cmd := &cobra.Command{
		Use:   "ping <host>",
		Short: "Send a fixed number of ICMP Echo Requests and report round-trip statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			sessionID := newSessionID()
			started := time.Now()
			logSessionStart("ping", host, sessionID)
			defer logSessionEnd("ping", sessionID, started)

			metrics := telemetry.NewMetrics(prometheus.NewRegistry())

			prober := icmp.NewRawSocketProbe(time.Duration(viper.GetFloat64("ping.timeout") * float64(time.Second)))
			session := icmp.NewPingSession(prober, host)
			session.Count = count
			session.Interval = time.Duration(interval * float64(time.Second))
			session.TTL = viper.GetInt("ping.ttl")
			if debug {
				session.DebugOut = os.Stderr
			}
			session.OnProbe = func(outcome *icmp.Outcome, err error) {
				metrics.ProbesSent.Inc()
				if err == nil {
					metrics.ProbesReceived.Inc()
					metrics.ProbeRTT.Observe(outcome.RTT.Seconds())
				}
				log.WithField("session_id", sessionID).Debug("probe completed")
			}

			if err := session.Run(os.Stdout); err != nil {
				return fmt.Errorf("ping %s: %w", host, err)
			}

			recordPingHistory(sessionID, host, started, session.Stats())
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 4, "number of echo requests to send")
	cmd.Flags().Float64VarP(&interval, "interval", "i", 0, "seconds to wait between requests")
	cmd.Flags().Float64Var(&timeout, "timeout", 5, "per-probe timeout in seconds")
	cmd.Flags().IntVar(&ttl, "ttl", 64, "IP time-to-live for outgoing requests")

	// Config-file/env defaults apply unless the flag is set explicitly.
	viper.BindPFlag("ping.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("ping.ttl", cmd.Flags().Lookup("ttl"))
	return cmd
}

func recordPingHistory(sessionID, host string, started time.Time, stats icmp.Stats) {
	store, err := openHistoryStore()
	if err != nil {
		log.WithError(err).Warn("history store unavailable, skipping session record")
		return
	}
	defer store.Close()

	if err := store.Insert(history.Record{
		SessionID: sessionID,
		Kind:      "ping",
		Host:      host,
		StartedAt: started,
		Sent:      stats.Sent,
		Received:  stats.Received,
		LossPct:   stats.Loss() * 100,
		MinRTT:    stats.Min,
		MaxRTT:    stats.Max,
		AvgRTT:    stats.Avg,
	}); err != nil {
		log.WithError(err).Warn("failed to persist ping session history")
	}
}
