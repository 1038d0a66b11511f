// Package cmd - working order commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"landed-cost/adapters/orderfile"
	"landed-cost/core/output"
	"landed-cost/core/types"
)

// newOrderCmd manages the working order file that calculate reads.
func newOrderCmd() *cobra.Command {
	var orderPath string

	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Manage the working order",
		Long: `Manage the working order: the line items a calculation runs on.

The order is kept in a YAML or JSON file (order.yaml by default), so it can
also be edited by hand.`,
	}
	orderCmd.PersistentFlags().StringVarP(&orderPath, "order", "o", defaultOrderPath, "order file (.yaml or .json)")

	var in types.LineItemInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a line item to the order",
		Long: `Add a line item to the order.

Give the carton size either as --length, --width and --height in inches or
as --volume in cubic feet.

Examples:
  landed-cost order add --name "Bluetooth Speaker" --length 12 --width 8 --height 9 --weight 2 --qty 500 --cost 10 --category electronics
  landed-cost order add --name "Yoga Mat" --volume 0.35 --weight 2.5 --qty 200 --cost 4.75`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := types.NewLineItem(in)
			if err != nil {
				return err
			}
			o, err := orderfile.ReadOrEmpty(orderPath)
			if err != nil {
				return err
			}
			o = o.Add(item)
			if err := orderfile.Write(orderPath, o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s); %d item(s) in %s\n", item.Name, item.ID, o.Len(), orderPath)
			return nil
		},
	}
	f := addCmd.Flags()
	f.StringVar(&in.Name, "name", "", "product name")
	f.Float64Var(&in.LengthIn, "length", 0, "carton length (in)")
	f.Float64Var(&in.WidthIn, "width", 0, "carton width (in)")
	f.Float64Var(&in.HeightIn, "height", 0, "carton height (in)")
	f.Float64Var(&in.VolumeCuft, "volume", 0, "carton volume (cu ft), instead of dimensions")
	f.Float64Var(&in.WeightLbs, "weight", 0, "unit weight (lbs)")
	f.Int64Var(&in.Quantity, "qty", 0, "quantity")
	f.Float64Var(&in.UnitCost, "cost", 0, "unit cost (USD)")
	f.StringVar(&in.Category, "category", "", "product category, e.g. electronics")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("qty")
	addCmd.MarkFlagRequired("cost")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := orderfile.ReadOrEmpty(orderPath)
			if err != nil {
				return err
			}
			if err := orderfile.Write(orderPath, o.Clear()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d item(s) from %s\n", o.Len(), orderPath)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := orderfile.ReadOrEmpty(orderPath)
			if err != nil {
				return err
			}
			return output.RenderOrder(cmd.OutOrStdout(), o)
		},
	}

	orderCmd.AddCommand(addCmd, clearCmd, showCmd)
	return orderCmd
}
