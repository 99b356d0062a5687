package cmd

import (
	"context"
	"salamyar/services/search"
	"strings"

	"github.com/spf13/cobra"
)

var searchAll bool

func init() {
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "keep loading pages until every result is fetched")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Searches the catalog and prints the first page of results.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.Catalog()
		if err != nil {
			return err
		}
		searcher := search.New(client)
		defer searcher.Close()

		ctx := cmd.Context()
		searcher.Search(ctx, strings.Join(args, " "))
		if searchAll {
			loadAll(ctx, searcher)
		}

		state := searcher.State()
		app.Render.SearchHeader(state)
		app.Render.ProductGrid(state, 0, false)
		if state.Error != "" {
			return errReported
		}
		return nil
	},
}

// loadAll drains the remaining pages. It stops early when a page does not
// move the offset forward or adds nothing.
func loadAll(ctx context.Context, searcher *search.Searcher) {
	for {
		state := searcher.State()
		if !state.HasMore || state.Error != "" || state.Meta == nil || ctx.Err() != nil {
			return
		}
		if state.Meta.NextOffset() <= state.Meta.CurrentOffset {
			return
		}
		before := len(state.Products)
		searcher.LoadMore(ctx)
		if len(searcher.State().Products) == before {
			return
		}
	}
}
