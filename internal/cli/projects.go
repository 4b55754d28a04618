package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/internal/config"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/fetcher"
	"github.com/matzehuels/folio/pkg/projects"
)

// fetchFlags are shared by the commands that read through the proxy.
type fetchFlags struct {
	apiURL    string
	sort      string
	direction string
	minStars  int
	noForks   bool
	fresh     bool
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.apiURL, "api", "", "proxy base URL (overrides config)")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "sort field: updated, created, pushed, full_name")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "sort direction: asc, desc")
	cmd.Flags().IntVar(&f.minStars, "min-stars", -1, "hide repositories with fewer stars (overrides config)")
	cmd.Flags().BoolVar(&f.noForks, "no-forks", false, "hide forked repositories")
	cmd.Flags().BoolVar(&f.fresh, "fresh", false, "ignore cached listings")
}

// resolve merges flags over the client config.
func (f *fetchFlags) resolve(cfg config.ClientConfig) (string, fetcher.Options, error) {
	apiURL := cfg.APIURL
	if f.apiURL != "" {
		apiURL = f.apiURL
	}
	opts := fetcher.Options{
		Sort:         f.sort,
		Direction:    f.direction,
		MinStars:     cfg.MinStars,
		ExcludeForks: cfg.NoForks || f.noForks,
		ForceFresh:   f.fresh,
	}
	if f.minStars >= 0 {
		opts.MinStars = f.minStars
	}
	if err := ferrors.ValidateSort(opts.Sort); err != nil {
		return "", opts, err
	}
	if err := ferrors.ValidateDirection(opts.Direction); err != nil {
		return "", opts, err
	}
	return apiURL, opts, nil
}

func (c *CLI) newFetcher(cfg config.ClientConfig, apiURL string) *fetcher.Client {
	return fetcher.New(apiURL,
		fetcher.WithLogger(c.Logger),
		fetcher.WithDebounce(cfg.Debounce),
		fetcher.WithExpiration(cfg.Expiration),
	)
}

func (c *CLI) projectsCommand() *cobra.Command {
	var flags fetchFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "projects [username]",
		Short: "List a user's portfolio projects",
		Long: `List a user's public repositories as portfolio projects.

Repositories are fetched through the proxy, converted to project cards and
filtered by stars and fork status.`,
		Example: `  # Projects for the configured user
  folio projects

  # Someone else's starred, non-fork work
  folio projects octocat --min-stars 10 --no-forks

  # Machine-readable output
  folio projects octocat --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			username := cfg.Client.Username
			if len(args) == 1 {
				username = args[0]
			}
			if err := ferrors.ValidateUsername(username); err != nil {
				return err
			}
			apiURL, opts, err := flags.resolve(cfg.Client)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			client := c.newFetcher(cfg.Client, apiURL)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching repositories for %s...", username))
			if !asJSON {
				spinner.Start()
			}
			prog := newProgress(logger)
			ps, err := client.Projects(ctx, username, opts)
			spinner.Stop()
			if err != nil {
				return describeFetchError(err)
			}
			logger.Debug("transformed projects", "count", len(ps))

			if asJSON {
				return writeJSON(os.Stdout, ps)
			}
			prog.done("Loaded projects", "user", username, "count", len(ps))
			printProjects(username, ps)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print projects as JSON")

	return cmd
}

// describeFetchError rewrites fetch errors into something a terminal user
// can act on.
func describeFetchError(err error) error {
	var rl *ferrors.RateLimitedError
	var ne *ferrors.NetworkError
	switch {
	case errors.As(err, &rl):
		if rl.ResetAt.IsZero() {
			return errors.New("GitHub rate limit exceeded; try again later")
		}
		return fmt.Errorf("GitHub rate limit exceeded; resets at %s", rl.ResetAt.Local().Format("15:04"))
	case errors.As(err, &ne) && ne.Status == 0:
		return fmt.Errorf("proxy unreachable (is `folio serve` running?): %w", err)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printProjects renders the project cards as a table.
func printProjects(username string, ps []projects.Project) {
	printNewline()
	fmt.Println(StyleTitle.Render(username) + StyleDim.Render(" · "+strconv.Itoa(len(ps))+" projects"))
	if len(ps) == 0 {
		printInfo("No projects match the current filters")
		return
	}
	fmt.Println(projectTable(ps, -1).Render())
	printNewline()
}

// projectTable builds the table used by both projects and browse. The row
// at cursor is highlighted; -1 highlights nothing.
func projectTable(ps []projects.Project, cursor int) *table.Table {
	rows := make([][]string, len(ps))
	for i, p := range ps {
		rows[i] = []string{
			p.Title,
			strconv.Itoa(p.Stars),
			strings.Join(p.Tags, ", "),
			truncate(p.Description, 48),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Project", "★", "Tags", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == cursor:
				return base.Foreground(colorCyan).Bold(true)
			case col == 1:
				return base.Foreground(colorCyan)
			case col == 3:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
