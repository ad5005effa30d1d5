package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "intentctl",
		Short: "Inspect the website chat intent classifier",
		Long: `intentctl runs the chat widget's intent classifier outside the API server.

Examples:
  intentctl classify "Wat kost Microsoft 365 per gebruiker?"
  echo "Onze server ligt plat" | intentctl classify --format json
  intentctl classify --ai "Kunnen jullie iets met onze wifi?"
  intentctl routing --department support --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newRoutingCmd())
	return root
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported format %q (text, json, yaml)", format)
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}
