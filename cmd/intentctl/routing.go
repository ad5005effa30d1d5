package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"website_backend/internal/intent/service"
	"website_backend/internal/intent/transport"
	"website_backend/platform/logger"

	"github.com/spf13/cobra"
)

type routingOptions struct {
	department string
	format     string
}

type routingRow struct {
	Intent          string `json:"intent" yaml:"intent"`
	Department      string `json:"department" yaml:"department"`
	Priority        int    `json:"priority" yaml:"priority"`
	AutoResponse    bool   `json:"autoResponse" yaml:"auto_response"`
	SuggestedAction string `json:"suggestedAction" yaml:"suggested_action"`
}

func newRoutingCmd() *cobra.Command {
	opts := &routingOptions{}

	cmd := &cobra.Command{
		Use:   "routing",
		Short: "Print the intent routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRouting(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.department, "department", "d", "", "only show intents routed to this department (sales, support, general)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

func runRouting(out io.Writer, opts *routingOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	switch opts.department {
	case "", "sales", "support", "general":
	default:
		return fmt.Errorf("unknown department %q", opts.department)
	}

	svc := service.New(nil, nil, logger.Discard())
	table := svc.RoutingTable(transport.RoutingListRequest{Department: opts.department})

	rows := make([]routingRow, 0, len(table.Items))
	for _, item := range table.Items {
		rows = append(rows, routingRow{
			Intent:          item.Intent.String(),
			Department:      item.Department,
			Priority:        item.Priority,
			AutoResponse:    item.AutoResponse,
			SuggestedAction: item.SuggestedAction,
		})
	}

	if opts.format != formatText {
		return writeStructured(out, opts.format, rows)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INTENT\tDEPARTMENT\tPRIORITY\tAUTO\tACTION")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", row.Intent, row.Department, row.Priority, row.AutoResponse, row.SuggestedAction)
	}
	return tw.Flush()
}
