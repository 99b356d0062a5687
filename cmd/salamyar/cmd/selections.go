package cmd

import (
	"fmt"
	"salamyar/services/selection"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	selectionsCmd.AddCommand(selectionsListCmd)
	selectionsCmd.AddCommand(selectionsRemoveCmd)
	selectionsCmd.AddCommand(selectionsClearCmd)
	selectionsCmd.AddCommand(selectionsConfirmCmd)
	rootCmd.AddCommand(selectionsCmd)
}

var selectionsCmd = &cobra.Command{
	Use:   "selections",
	Short: "The 'selections' subcommand manages the shortlist of selected products.",
}

// loadSelector returns a selector with the shortlist already fetched.
func loadSelector(cmd *cobra.Command) (*selection.Selector, error) {
	client, err := app.Catalog()
	if err != nil {
		return nil, err
	}
	selector := selection.New(client, selection.Options{})
	if !selector.Load(cmd.Context()) {
		app.Render.Error(selector.State().Error)
		selector.Close()
		return nil, errReported
	}
	return selector, nil
}

// reportSelector renders the selector's error, if any, as the command result.
func reportSelector(selector *selection.Selector, ok bool) error {
	if ok {
		return nil
	}
	app.Render.Error(selector.State().Error)
	return errReported
}

var selectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the shortlist.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selector, err := loadSelector(cmd)
		if err != nil {
			return err
		}
		defer selector.Close()

		state := selector.State()
		// asked for explicitly, so an empty list still says so
		state.EverSelected = true
		app.Render.Shortlist(state)
		return nil
	},
}

var selectionsRemoveCmd = &cobra.Command{
	Use:   "remove <product id>",
	Short: "Removes a product from the shortlist.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		selector, err := loadSelector(cmd)
		if err != nil {
			return err
		}
		defer selector.Close()

		err = reportSelector(selector, selector.RemoveProduct(cmd.Context(), productID))
		if err != nil {
			return err
		}
		app.Render.Shortlist(selector.State())
		return nil
	},
}

var selectionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Removes every product from the shortlist.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.Catalog()
		if err != nil {
			return err
		}
		selector := selection.New(client, selection.Options{})
		defer selector.Close()
		return reportSelector(selector, selector.ClearAllProducts(cmd.Context()))
	},
}

var selectionsConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirms the shortlist and prints the vendors holding several of its products.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selector, err := loadSelector(cmd)
		if err != nil {
			return err
		}
		defer selector.Close()

		report, ok := selector.ConfirmCart(cmd.Context())
		err = reportSelector(selector, ok)
		if err != nil {
			return err
		}
		app.Render.Report(*report)
		return nil
	},
}
