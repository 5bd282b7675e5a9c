package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/export"
	"github.com/agentgrowth/leadflow/internal/model"
	"github.com/agentgrowth/leadflow/internal/pipeline"
	"github.com/agentgrowth/leadflow/internal/store"
)

var (
	exportOut         string
	exportStatus      string
	exportSince       string
	exportUndelivered bool
	exportLimit       int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and operate on stored leads",
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to an xlsx spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		filter, err := exportFilter()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := exportLeads(ctx, st, filter, exportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d leads to %s\n", n, exportOut)
		return nil
	},
}

var leadsRedeliverCmd = &cobra.Command{
	Use:   "redeliver <lead-id>",
	Short: "Re-run report generation and delivery for one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("redeliver"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		env, err := initDelivery()
		if err != nil {
			return err
		}

		// Redelivery never touches the rate limiter or the queue.
		svc := pipeline.New(st, nil, nil, env.Renderer, env.Dispatcher)
		out, err := svc.Redeliver(ctx, args[0])

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "delivered:  %t\n", out.Delivered())
		fmt.Fprintf(w, "crm synced: %t\n", out.CRMSynced())
		if out.ObjectName != "" {
			fmt.Fprintf(w, "object:     %s\n", out.ObjectName)
		}
		if out.MessageID != "" {
			fmt.Fprintf(w, "message id: %s\n", out.MessageID)
		}
		return err
	},
}

func exportFilter() (store.LeadFilter, error) {
	filter := store.LeadFilter{
		Status:      model.LeadStatus(exportStatus),
		Undelivered: exportUndelivered,
		Limit:       exportLimit,
	}
	if exportStatus != "" && !filter.Status.Valid() {
		return filter, fmt.Errorf("invalid --status %q", exportStatus)
	}
	if exportSince != "" {
		since, err := time.Parse(time.DateOnly, exportSince)
		if err != nil {
			return filter, fmt.Errorf("invalid --since %q: want YYYY-MM-DD", exportSince)
		}
		filter.Since = since
	}
	return filter, nil
}

func exportLeads(ctx context.Context, st store.Store, filter store.LeadFilter, path string) (int, error) {
	leads, err := st.ListLeads(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFile(path, leads); err != nil {
		return 0, err
	}
	zap.L().Info("leads exported", zap.Int("count", len(leads)), zap.String("path", path))
	return len(leads), nil
}

func init() {
	leadsExportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output spreadsheet path")
	leadsExportCmd.Flags().StringVar(&exportStatus, "status", "", "only leads with this status")
	leadsExportCmd.Flags().StringVar(&exportSince, "since", "", "only leads created on or after this date (YYYY-MM-DD)")
	leadsExportCmd.Flags().BoolVar(&exportUndelivered, "undelivered", false, "only leads whose report was not delivered")
	leadsExportCmd.Flags().IntVar(&exportLimit, "limit", 10000, "maximum number of leads")

	leadsCmd.AddCommand(leadsExportCmd, leadsRedeliverCmd)
	rootCmd.AddCommand(leadsCmd)
}
