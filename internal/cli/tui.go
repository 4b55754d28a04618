package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/fetcher"
	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/projects"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

var sortCycle = []string{github.SortUpdated, github.SortCreated, github.SortPushed, github.SortFullName}

func (c *CLI) browseCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "browse [username]",
		Short: "Browse projects interactively",
		Long: `Browse a user's projects in an interactive table that refetches as
filters change.

Keys: ↑/↓ move, s cycle sort, o flip direction, f toggle forks,
+/- adjust minimum stars, r refetch, R clear cache and refetch, q quit.`,
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

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			client := c.newFetcher(cfg.Client, apiURL)
			loader := client.NewLoader(ctx, username, opts, true)
			defer loader.Close()

			model := NewBrowseModel(ctx, client, loader, username, opts)
			p := tea.NewProgram(model, tea.WithContext(ctx))
			loader.OnChange(func(s fetcher.State) { p.Send(stateMsg(s)) })

			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive project browser
// =============================================================================

type stateMsg fetcher.State

type refetchedMsg struct{}

// BrowseModel is the bubbletea model for the project browser.
type BrowseModel struct {
	ctx      context.Context
	client   *fetcher.Client
	loader   *fetcher.Loader
	username string
	opts     fetcher.Options

	State  fetcher.State
	Cursor int
	Offset int
	Height int
}

// NewBrowseModel creates a browser bound to loader.
func NewBrowseModel(ctx context.Context, client *fetcher.Client, loader *fetcher.Loader, username string, opts fetcher.Options) BrowseModel {
	return BrowseModel{
		ctx:      ctx,
		client:   client,
		loader:   loader,
		username: username,
		opts:     opts,
		State:    loader.State(),
		Height:   15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.State = fetcher.State(msg)
		m.clampCursor()
	case refetchedMsg:
		m.State = m.loader.State()
		m.clampCursor()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m BrowseModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.State.Projects)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "r":
		return m, m.refetch(false)
	case "R":
		return m, m.refetch(true)
	case "f":
		m.opts.ExcludeForks = !m.opts.ExcludeForks
		m.loader.SetParams(m.username, m.opts)
	case "+", "=":
		m.opts.MinStars++
		m.loader.SetParams(m.username, m.opts)
	case "-":
		if m.opts.MinStars > 0 {
			m.opts.MinStars--
			m.loader.SetParams(m.username, m.opts)
		}
	case "s":
		i := slices.Index(sortCycle, m.opts.Query(m.username).Sort)
		m.opts.Sort = sortCycle[(i+1)%len(sortCycle)]
		m.loader.SetParams(m.username, m.opts)
	case "o":
		if m.opts.Query(m.username).Direction == github.DirectionAsc {
			m.opts.Direction = github.DirectionDesc
		} else {
			m.opts.Direction = github.DirectionAsc
		}
		m.loader.SetParams(m.username, m.opts)
	}
	return m, nil
}

// refetch runs a loader refetch off the update loop. reload drops the
// client's stored listings first.
func (m BrowseModel) refetch(reload bool) tea.Cmd {
	loader, client, ctx := m.loader, m.client, m.ctx
	return func() tea.Msg {
		if reload {
			client.ClearCache()
		}
		loader.Refetch(ctx)
		return refetchedMsg{}
	}
}

func (m *BrowseModel) clampCursor() {
	n := len(m.State.Projects)
	if m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	q := m.opts.Query(m.username)
	b.WriteString(StyleTitle.Render(m.username))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  sort %s %s · min ★ %d · forks %s",
		q.Sort, q.Direction, m.opts.MinStars, onOff(!m.opts.ExcludeForks))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  s sort  o order  f forks  +/- stars  r refetch  R reload  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())

	ps := m.State.Projects
	if len(ps) > 0 {
		end := min(m.Offset+m.Height, len(ps))
		b.WriteString(projectTable(ps[m.Offset:end], m.Cursor-m.Offset).Render())
		b.WriteString("\n\n")
		b.WriteString(m.detail(ps[m.Cursor]))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(ps))))
	} else if !m.State.Loading && m.State.Err == nil {
		b.WriteString(listDimStyle.Render("  No projects match the current filters"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m BrowseModel) statusLine() string {
	switch {
	case m.State.Loading:
		return StyleDim.Render("Loading projects...") + "\n\n"
	case m.State.Err != nil:
		msg := describeFetchError(m.State.Err).Error()
		if rl := m.client.Guard().State(); rl.Limited {
			msg += fmt.Sprintf(" (retry %d, %s left)", rl.Retries,
				time.Until(rl.ResetAt).Round(time.Second))
		}
		return styleIconError.Render(iconError) + " " + listErrorStyle.Render(msg) + "\n\n"
	}
	return ""
}

func (m BrowseModel) detail(p projects.Project) string {
	var b strings.Builder
	b.WriteString("  " + StyleValue.Render(p.Title) + "\n")
	b.WriteString("  " + StyleDim.Render(p.Description) + "\n")
	b.WriteString("  " + StyleLink.Render(p.Link) + "\n\n")
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
