package transactions

import (
	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	id      lipgloss.Style
	detail  lipgloss.Style
	key     lipgloss.Style
	meta    lipgloss.Style
	action  lipgloss.Style
	warning lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		action:  lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}

var stateColors = map[domain.TransactionState]lipgloss.Color{
	domain.StateExchanging:        lipgloss.Color("#60A5FA"),
	domain.StateRequested:         lipgloss.Color("#FBBF24"),
	domain.StateRequestAccepted:   lipgloss.Color("#34D399"),
	domain.StatePrepaid:           lipgloss.Color("#A78BFA"),
	domain.StateClientConfirmed:   lipgloss.Color("#34D399"),
	domain.StateProviderConfirmed: lipgloss.Color("#34D399"),
	domain.StateDoubleConfirmed:   lipgloss.Color("#10B981"),
	domain.StateFinishedAndPayed:  lipgloss.Color("#10B981"),
	domain.StateCanceled:          lipgloss.Color("#EF4444"),
}

func stateStyle(state domain.TransactionState) lipgloss.Style {
	color, ok := stateColors[state]
	if !ok {
		color = lipgloss.Color("#9CA3AF")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
