package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"salamyar/lib/platforms/catalog"
	"salamyar/lib/telemetry"
	"salamyar/lib/textutil"
	"salamyar/services/render"
	"salamyar/services/search"
	"salamyar/services/selection"
	"salamyar/services/session"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Starts an interactive session: search, pick one product per search, confirm the cart.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := app.Catalog()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx, time.Second*15)

		sh := newShell(client, app.Session, app.Render, cmd.OutOrStdout())
		defer sh.close()
		sh.selector.Load(ctx)

		app.Render.Banner()
		app.Render.Welcome()
		app.Render.Shortlist(sh.selector.State())
		app.Render.Error(sh.selector.State().Error)

		return sh.run(ctx, cmd.InOrStdin())
	},
}

type catalogClient interface {
	search.Client
	selection.Client
}

type shell struct {
	searcher *search.Searcher
	selector *selection.Selector
	session  *session.Session
	render   render.Renderer
	out      io.Writer
}

func newShell(client catalogClient, sess *session.Session, renderer render.Renderer, out io.Writer) *shell {
	return &shell{
		searcher: search.New(client),
		selector: selection.New(client, selection.Options{}),
		session:  sess,
		render:   renderer,
		out:      out,
	}
}

func (s *shell) close() {
	s.searcher.Close()
	s.selector.Close()
}

const shellHelp = `commands:
  search <query>     search the catalog, starts a new search session
  more               load the next page of results
  select <n|name>    pick a result by row number or name, one per search
  remove <id>        remove a product from the shortlist
  list               print the shortlist
  confirm            find vendors holding several shortlisted products
  clear              empty the shortlist
  whoami             print the signed in user
  quit               leave`

func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "salamyar> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		if s.exec(ctx, scanner.Text()) {
			return nil
		}
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	command, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "":
	case "search":
		s.search(ctx, rest)
	case "more":
		s.searcher.LoadMore(ctx)
		s.showResults()
	case "select":
		s.selectProduct(ctx, rest)
	case "remove":
		s.remove(ctx, rest)
	case "list":
		s.render.Shortlist(s.selector.State())
	case "confirm":
		s.confirm(ctx)
	case "clear":
		s.clear(ctx)
	case "whoami":
		s.render.User(s.session.State().User)
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	default:
		fmt.Fprintf(s.out, "unknown command %q, try 'help'\n", command)
	}
	return false
}

func (s *shell) showResults() {
	state := s.searcher.State()
	s.render.SearchHeader(state)
	s.render.ProductGrid(state, s.selector.State().SelectedForSession, true)
}

func (s *shell) search(ctx context.Context, query string) {
	if query == "" {
		fmt.Fprintln(s.out, "usage: search <query>")
		return
	}
	s.searcher.Search(ctx, query)
	s.selector.StartNewSearchSession()
	s.showResults()
}

// resolve picks a product from the current results by 1-based row number
// or by fuzzy name.
func (s *shell) resolve(arg string) (catalog.Product, bool) {
	products := s.searcher.State().Products
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(products) {
			return catalog.Product{}, false
		}
		return products[n-1], true
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	index, _ := textutil.FindName(arg, names)
	if index < 0 {
		return catalog.Product{}, false
	}
	return products[index], true
}

func (s *shell) selectProduct(ctx context.Context, arg string) {
	if arg == "" {
		fmt.Fprintln(s.out, "usage: select <n|name>")
		return
	}
	product, ok := s.resolve(arg)
	if !ok {
		fmt.Fprintf(s.out, "no result matches %q\n", arg)
		return
	}
	if !product.IsAvailable {
		s.render.Error("محصول ناموجود")
		return
	}
	if !s.selector.SelectProduct(ctx, product) {
		s.render.Error(s.selector.State().Error)
		return
	}
	s.render.Shortlist(s.selector.State())
}

func (s *shell) remove(ctx context.Context, arg string) {
	productID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "usage: remove <product id>")
		return
	}
	if !s.selector.RemoveProduct(ctx, productID) {
		s.render.Error(s.selector.State().Error)
		return
	}
	s.render.Shortlist(s.selector.State())
}

func (s *shell) confirm(ctx context.Context) {
	report, ok := s.selector.ConfirmCart(ctx)
	if !ok {
		s.render.Error(s.selector.State().Error)
		return
	}
	s.render.Report(*report)
}

func (s *shell) clear(ctx context.Context) {
	if !s.selector.ClearAllProducts(ctx) {
		s.render.Error(s.selector.State().Error)
		return
	}
	s.render.Shortlist(s.selector.State())
}
