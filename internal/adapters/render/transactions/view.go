package transactions

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now    time.Time
	Viewer domain.Identity
}

func listView(items []domain.TransactionDetails, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Transactions"),
		s.header.Render(fmt.Sprintf("transactions: %d", len(items))),
	}

	if len(items) == 0 {
		lines = append(lines, s.empty.Render("No transactions yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, item := range items {
		lines = append(lines, listLine(item, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func listLine(item domain.TransactionDetails, opts RenderOptions, s styles) string {
	tx := item.Transaction
	parts := []string{
		s.id.Render(fmt.Sprintf("#%d", tx.ID)),
		s.detail.Render(serviceTitle(item)),
		stateStyle(tx.State).Render("[" + tx.State.Label() + "]"),
	}
	if role, ok := tx.RoleOf(opts.Viewer.Subject); ok {
		parts = append(parts, s.meta.Render("as "+string(role)))
	}
	parts = append(parts, s.meta.Render(formatAge(tx.LatestMilestone(), opts.Now)))

	return strings.Join(parts, "  ")
}

func detailView(item domain.TransactionDetails, actions []domain.ActionDescriptor, opts RenderOptions, s styles) string {
	tx := item.Transaction
	lines := []string{
		s.title.Render(fmt.Sprintf("Transaction #%d", tx.ID)),
		field(s, "state", stateStyle(tx.State).Render(tx.State.Label())+s.meta.Render(" ("+string(tx.State)+")")),
		field(s, "service", s.detail.Render(serviceLine(item))),
	}

	if role, ok := tx.RoleOf(opts.Viewer.Subject); ok {
		lines = append(lines,
			field(s, "role", s.detail.Render(string(role))),
			field(s, "counterpart", s.detail.Render(tx.Counterpart(role))),
		)
	} else {
		lines = append(lines,
			field(s, "client", s.detail.Render(tx.ClientID)),
			field(s, "provider", s.detail.Render(tx.ProviderID)),
		)
	}

	lines = append(lines, field(s, "created", s.meta.Render(formatTimestamp(tx.CreatedAt, opts.Now))))
	if tx.RequestAcceptedAt != nil {
		lines = append(lines, field(s, "accepted", s.meta.Render(formatTimestamp(*tx.RequestAcceptedAt, opts.Now))))
	}
	if tx.FinishedAt != nil {
		lines = append(lines, field(s, "finished", s.meta.Render(formatTimestamp(*tx.FinishedAt, opts.Now))))
	}

	lines = append(lines, s.section.Render(actionsView(tx, actions, s)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func actionsView(tx domain.Transaction, actions []domain.ActionDescriptor, s styles) string {
	lines := []string{s.title.Render("Actions")}

	if len(actions) == 0 {
		note := "No actions available."
		if tx.State == domain.StateDoubleConfirmed {
			note = "Both parties confirmed. Waiting for settlement."
		}
		lines = append(lines, s.empty.Render(note))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, action := range actions {
		label := s.action.Render(action.Label)
		if action.Cancels() {
			label = s.warning.Render(action.Label)
		}
		lines = append(lines, fmt.Sprintf("- %s %s", label, s.meta.Render(string(action.TargetState))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SnapshotLine is the one-line form printed for each update while watching.
func SnapshotLine(tx domain.Transaction, opts RenderOptions) string {
	s := newStyles()
	parts := []string{
		s.meta.Render(opts.Now.Format("15:04:05")),
		s.id.Render(fmt.Sprintf("#%d", tx.ID)),
		stateStyle(tx.State).Render(tx.State.Label()),
	}
	if tx.State.Terminal() {
		parts = append(parts, s.header.Render("(final)"))
	}
	return strings.Join(parts, " ")
}

func field(s styles, key, value string) string {
	return s.key.Render(fmt.Sprintf("%-12s", key+":")) + value
}

func serviceTitle(item domain.TransactionDetails) string {
	if item.Service != nil && strings.TrimSpace(item.Service.Title) != "" {
		return strings.TrimSpace(item.Service.Title)
	}
	return fmt.Sprintf("service %d", item.Transaction.ServiceID)
}

func serviceLine(item domain.TransactionDetails) string {
	line := serviceTitle(item)
	if item.Service == nil {
		return line
	}

	var extras []string
	if item.Service.ProviderName != "" {
		extras = append(extras, "by "+item.Service.ProviderName)
	}
	if item.Service.Game != "" {
		extras = append(extras, item.Service.Game)
	}
	if item.Service.Price != "" {
		extras = append(extras, item.Service.Price)
	}
	if len(extras) == 0 {
		return line
	}
	return line + " (" + strings.Join(extras, ", ") + ")"
}

func formatTimestamp(at, now time.Time) string {
	if at.IsZero() {
		return "unknown"
	}
	stamp := at.Local().Format("2006-01-02 15:04")
	if now.IsZero() {
		return stamp
	}
	return stamp + " (" + formatAge(at, now) + ")"
}

func formatAge(at, now time.Time) string {
	if at.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		days := int(math.Floor(elapsed.Hours() / 24))
		return plural(days, "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
