package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	txrender "github.com/bnema/marketplace-txn/internal/adapters/render/transactions"
	"github.com/bnema/marketplace-txn/internal/application"
	"github.com/bnema/marketplace-txn/internal/domain"
)

func newTxCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Work with marketplace transactions",
	}

	cmd.AddCommand(
		newTxCreateCmd(app),
		newTxListCmd(app),
		newTxShowCmd(app),
		newTxActCmd(app),
		newTxWatchCmd(app),
	)

	return cmd
}

func newTxCreateCmd(app *app) *cobra.Command {
	var serviceID int64
	var direct bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a transaction for a service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			tx, err := app.orchestrator.Create(cmd.Context(), viewer, serviceID, direct)
			if err != nil {
				if errors.Is(err, domain.ErrActiveTransactionExists) {
					return fmt.Errorf("service %d: you already have an open transaction for it: %w", serviceID, err)
				}
				return err
			}

			return showDetails(cmd, app, viewer, tx, false)
		},
	}

	cmd.Flags().Int64Var(&serviceID, "service", 0, "Service ID")
	cmd.Flags().BoolVar(&direct, "direct", false, "Send the reservation request immediately")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newTxListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			var items []domain.TransactionDetails
			if asJSON {
				items, err = loadTransactionDetails(cmd.Context(), app.orchestrator, nil)
			} else {
				items, err = loadWithProgress(cmd.Context(), cmd.ErrOrStderr(), app.orchestrator)
			}
			if err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}

			if asJSON {
				out := make([]transactionOutput, 0, len(items))
				for _, item := range items {
					out = append(out, toOutput(item, viewer, nil))
				}
				return writeJSON(cmd, out)
			}

			rendered, err := txrender.RenderList(items, txrender.RenderOptions{Now: app.now(), Viewer: viewer})
			if err != nil {
				return fmt.Errorf("render transactions: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newTxShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a transaction and the actions open to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}
			viewer, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			tx, err := app.orchestrator.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return showDetails(cmd, app, viewer, tx, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newTxActCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "act ID TARGET_STATE",
		Short: "Move a transaction to its next state",
		Long:  "Request a transition, e.g. `mtx tx act 42 requested` or `mtx tx act 42 canceled`. Run `mtx tx show ID` to list the transitions open to you.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}
			target, err := parseTargetState(args[1])
			if err != nil {
				return err
			}
			viewer, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			watcher := application.NewWatcher(app.orchestrator, app.channel, id, app.watcherConfig(), application.WithWatcherLogger(app.logger))
			if _, err := watcher.Refresh(cmd.Context()); err != nil {
				return err
			}

			action := findAction(watcher.AvailableActions(viewer), target)
			confirmed := yes
			if !confirmed && action.RequiresConfirmation {
				confirmed, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), action.Prompt)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return err
				}
			}

			updated, err := watcher.Execute(cmd.Context(), viewer, action, confirmed)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), txrender.SnapshotLine(updated, txrender.RenderOptions{Now: app.now(), Viewer: viewer}))
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newTxWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch ID",
		Short: "Follow a transaction live until it settles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}
			viewer, err := requireSession(cmd, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			watcher := application.NewWatcher(app.orchestrator, app.channel, id, app.watcherConfig(), application.WithWatcherLogger(app.logger))
			err = watcher.Run(cmd.Context(), func(tx domain.Transaction) {
				_, _ = fmt.Fprintln(out, txrender.SnapshotLine(tx, txrender.RenderOptions{Now: app.now(), Viewer: viewer}))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func showDetails(cmd *cobra.Command, app *app, viewer domain.Identity, tx domain.Transaction, asJSON bool) error {
	details := app.orchestrator.Describe(cmd.Context(), tx)
	actions := app.orchestrator.AvailableActions(tx, viewer)

	if asJSON {
		return writeJSON(cmd, toOutput(details, viewer, actions))
	}

	rendered, err := txrender.RenderDetail(details, actions, txrender.RenderOptions{Now: app.now(), Viewer: viewer})
	if err != nil {
		return fmt.Errorf("render transaction: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// findAction returns the lifecycle descriptor for target, or a bare one so
// the orchestrator reports why the move is not allowed.
func findAction(actions []domain.ActionDescriptor, target domain.TransactionState) domain.ActionDescriptor {
	for _, action := range actions {
		if action.TargetState == target {
			return action
		}
	}
	return domain.ActionDescriptor{TargetState: target}
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
