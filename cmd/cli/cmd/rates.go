// Package cmd - rates table commands
package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"landed-cost/core/rates"
)

func newRatesCmd(root *rootOptions) *cobra.Command {
	var (
		ratesPath string
		format    string
	)

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "Inspect the rates table",
		Long: `Inspect the rates table the calculator uses.

The table is read from the path in the config file (or $LANDED_COST_RATES).
A file that is missing or invalid is replaced, as a whole, by the built-in
table.`,
	}
	ratesCmd.PersistentFlags().StringVar(&ratesPath, "rates", "", "rates file (.json, .yaml or .hcl); overrides the config")

	// provider resolves the rates path and loads it once.
	provider := func(cmd *cobra.Command) *rates.Provider {
		path := root.cfg.Rates.Path
		if cmd.Flags().Changed("rates") {
			path = ratesPath
		}
		p := rates.NewProvider(path, nil)
		if err := p.LastError(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: using built-in rates: %v\n", err)
		}
		return p
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the rates table in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, source := provider(cmd).Snapshot()
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				fmt.Fprintf(out, "# source: %s, fingerprint: %s\n", source, table.Fingerprint())
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(table); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"source":      source,
					"fingerprint": table.Fingerprint(),
					"rates":       table,
				})
			}
			return fmt.Errorf("unknown format %q (use yaml or json)", format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	validateCmd := &cobra.Command{
		Use:   "validate <rates-file>",
		Short: "Check that a rates file loads without falling back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := rates.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d containers, fingerprint %s)\n",
				args[0], len(table.Containers), table.Fingerprint())
			return nil
		},
	}

	containersCmd := &cobra.Command{
		Use:   "containers",
		Short: "List the container types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := provider(cmd).Get()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tVOLUME (CU FT)\tPAYLOAD (LBS)")
			for _, id := range table.ContainerIDs() {
				c, err := table.Container(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\n", c.ID, c.VolumeCuft, c.PayloadLbs)
			}
			return tw.Flush()
		},
	}

	ratesCmd.AddCommand(showCmd, validateCmd, containersCmd)
	return ratesCmd
}
