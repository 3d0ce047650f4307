package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/marketplace-txn/internal/domain"
)

var errSignedOut = errors.New("not signed in, run `mtx login`")

// requireSession restores the stored session and re-validates it the way the
// app does when it regains the foreground.
func requireSession(cmd *cobra.Command, app *app) (domain.Identity, error) {
	ctx := cmd.Context()
	if err := app.session.LoadPersisted(ctx); err != nil {
		return domain.Identity{}, err
	}

	if err := app.session.ResumeCheck(ctx); err != nil {
		if errors.Is(err, domain.ErrRefreshFailed) {
			return domain.Identity{}, fmt.Errorf("session expired, please sign in again with `mtx login`: %w", err)
		}
		app.logger.Warn().Err(err).Msg("could not re-validate session")
	}

	if !app.session.Authenticated() {
		return domain.Identity{}, errSignedOut
	}
	return app.session.Identity(), nil
}
