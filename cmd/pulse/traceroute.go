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

func newTracerouteCmd() *cobra.Command {
	var timeout float64

	cmd := &cobra.Command{
		Use:   "traceroute <host>",
		Short: "Discover the path to a host via incrementing-TTL ICMP probes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			sessionID := newSessionID()
			started := time.Now()
			logSessionStart("traceroute", host, sessionID)
			defer logSessionEnd("traceroute", sessionID, started)

			metrics := telemetry.NewMetrics(prometheus.NewRegistry())

			prober := icmp.NewRawSocketProbe(time.Duration(viper.GetFloat64("traceroute.timeout") * float64(time.Second)))
			session := icmp.NewTracerouteSession(prober, host)
			if debug {
				session.DebugOut = os.Stderr
			}

			var sent, received int
			var rtts []time.Duration
			session.OnProbe = func(outcome *icmp.Outcome, err error) {
				sent++
				metrics.ProbesSent.Inc()
				if err == nil {
					received++
					rtts = append(rtts, outcome.RTT)
					metrics.ProbesReceived.Inc()
					metrics.ProbeRTT.Observe(outcome.RTT.Seconds())
				}
				log.WithField("session_id", sessionID).Debug("hop probed")
			}

			if err := session.Run(os.Stdout); err != nil {
				return fmt.Errorf("traceroute %s: %w", host, err)
			}

			recordTracerouteHistory(sessionID, host, started, sent, received, rtts)
			return nil
		},
	}

	cmd.Flags().Float64Var(&timeout, "timeout", 5, "per-hop timeout in seconds")
	viper.BindPFlag("traceroute.timeout", cmd.Flags().Lookup("timeout"))
	return cmd
}

func recordTracerouteHistory(sessionID, host string, started time.Time, sent, received int, rtts []time.Duration) {
	store, err := openHistoryStore()
	if err != nil {
		log.WithError(err).Warn("history store unavailable, skipping session record")
		return
	}
	defer store.Close()

	rec := history.Record{
		SessionID: sessionID,
		Kind:      "traceroute",
		Host:      host,
		StartedAt: started,
		Sent:      sent,
		Received:  received,
	}
	if sent > 0 {
		rec.LossPct = float64(sent-received) / float64(sent) * 100
	}
	if len(rtts) > 0 {
		minRTT, maxRTT := rtts[0], rtts[0]
		var total time.Duration
		for _, r := range rtts {
			if r < minRTT {
				minRTT = r
			}
			if r > maxRTT {
				maxRTT = r
			}
			total += r
		}
		rec.MinRTT, rec.MaxRTT = minRTT, maxRTT
		rec.AvgRTT = total / time.Duration(len(rtts))
	}

	if err := store.Insert(rec); err != nil {
		log.WithError(err).Warn("failed to persist traceroute session history")
	}
}
