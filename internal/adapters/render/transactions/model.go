package transactions

import (
	"errors"
	"io"

	"github.com/bnema/marketplace-txn/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   func(styles) string
	styles styles
	output string
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// RenderList renders the viewer's transactions, most recent activity first
// as given.
func RenderList(items []domain.TransactionDetails, opts RenderOptions) (string, error) {
	return render(func(s styles) string {
		return listView(items, opts, s)
	})
}

// RenderDetail renders one transaction with the actions open to the viewer.
func RenderDetail(item domain.TransactionDetails, actions []domain.ActionDescriptor, opts RenderOptions) (string, error) {
	return render(func(s styles) string {
		return detailView(item, actions, opts, s)
	})
}

func render(view func(styles) string) (string, error) {
	p := tea.NewProgram(
		model{view: view, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
