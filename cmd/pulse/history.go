package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		host  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent ping/traceroute session summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(host, limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(os.Stdout, "no recorded sessions")
				return nil
			}

			for _, r := range records {
				fmt.Printf("%s  %-10s %-20s sent=%d recv=%d loss=%.1f%% rtt(min/avg/max)=%v/%v/%v  %s\n",
					r.SessionID, r.Kind, r.Host, r.Sent, r.Received, r.LossPct,
					r.MinRTT, r.AvgRTT, r.MaxRTT, humanize.Time(r.StartedAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "filter to sessions against this host")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of sessions to show")
	return cmd
}
