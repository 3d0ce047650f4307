package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/marketplace-txn/internal/application"
	"github.com/bnema/marketplace-txn/internal/domain"
)

type describedMsg struct {
	done  int
	total int
}

type listLoadedMsg struct {
	count int
	err   error
}

// listLoaderModel shows progress while transactions are listed and then
// enriched one by one from the catalog.
type listLoaderModel struct {
	spinner  spinner.Model
	muted    lipgloss.Style
	done     int
	total    int
	count    int
	err      error
	finished bool
}

func newListLoaderModel() listLoaderModel {
	return listLoaderModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (m listLoaderModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m listLoaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case describedMsg:
		m.done, m.total = msg.done, msg.total
		return m, nil
	case listLoadedMsg:
		m.finished = true
		m.count, m.err = msg.count, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m listLoaderModel) View() string {
	switch {
	case m.finished && m.err == nil:
		return m.muted.Render(fmt.Sprintf("Loaded %d %s", m.count, pluralize(m.count, "transaction"))) + "\n"
	case m.finished:
		return ""
	case m.total == 0:
		return m.spinner.View() + " Fetching transactions..."
	default:
		return fmt.Sprintf("%s Looking up services %d/%d", m.spinner.View(), m.done, m.total)
	}
}

// loadTransactionDetails lists the viewer's transactions and enriches each
// one. progress, when set, is told how many are done.
func loadTransactionDetails(ctx context.Context, orchestrator *application.Orchestrator, progress func(done, total int)) ([]domain.TransactionDetails, error) {
	txs, err := orchestrator.ListMine(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.TransactionDetails, 0, len(txs))
	for i, tx := range txs {
		if progress != nil {
			progress(i, len(txs))
		}
		items = append(items, orchestrator.Describe(ctx, tx))
	}
	return items, nil
}

// loadWithProgress runs loadTransactionDetails behind a spinner drawn on
// output.
func loadWithProgress(ctx context.Context, output io.Writer, orchestrator *application.Orchestrator) ([]domain.TransactionDetails, error) {
	p := tea.NewProgram(
		newListLoaderModel(),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	var (
		items   []domain.TransactionDetails
		loadErr error
	)
	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		items, loadErr = loadTransactionDetails(ctx, orchestrator, func(done, total int) {
			p.Send(describedMsg{done: done, total: total})
		})
		p.Send(listLoadedMsg{count: len(items), err: loadErr})
	}()

	_, runErr := p.Run()
	<-loaded
	if loadErr != nil {
		return nil, loadErr
	}
	if runErr != nil {
		return nil, runErr
	}
	return items, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
