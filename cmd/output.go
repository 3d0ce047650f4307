package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/marketplace-txn/internal/domain"
)

type transactionOutput struct {
	ID                int64          `json:"id"`
	State             string         `json:"state"`
	Label             string         `json:"label"`
	ServiceID         int64          `json:"serviceId"`
	ClientID          string         `json:"clientId"`
	ProviderID        string         `json:"providerId"`
	Role              string         `json:"role,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	RequestAcceptedAt *time.Time     `json:"requestAcceptedAt,omitempty"`
	FinishedAt        *time.Time     `json:"finishedAt,omitempty"`
	Service           *serviceOutput `json:"service,omitempty"`
	Actions           []actionOutput `json:"actions,omitempty"`
}

type serviceOutput struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ProviderName string `json:"providerName,omitempty"`
	Game         string `json:"game,omitempty"`
	Price        string `json:"price,omitempty"`
}

type actionOutput struct {
	Label       string `json:"label"`
	TargetState string `json:"targetState"`
	Prompt      string `json:"prompt"`
}

func toOutput(details domain.TransactionDetails, viewer domain.Identity, actions []domain.ActionDescriptor) transactionOutput {
	tx := details.Transaction
	out := transactionOutput{
		ID:                int64(tx.ID),
		State:             string(tx.State),
		Label:             tx.State.Label(),
		ServiceID:         tx.ServiceID,
		ClientID:          tx.ClientID,
		ProviderID:        tx.ProviderID,
		CreatedAt:         tx.CreatedAt,
		RequestAcceptedAt: tx.RequestAcceptedAt,
		FinishedAt:        tx.FinishedAt,
	}
	if role, ok := tx.RoleOf(viewer.Subject); ok {
		out.Role = string(role)
	}
	if details.Service != nil {
		out.Service = &serviceOutput{
			ID:           details.Service.ID,
			Title:        details.Service.Title,
			ProviderName: details.Service.ProviderName,
			Game:         details.Service.Game,
			Price:        details.Service.Price,
		}
	}
	for _, action := range actions {
		out.Actions = append(out.Actions, actionOutput{
			Label:       action.Label,
			TargetState: string(action.TargetState),
			Prompt:      action.Prompt,
		})
	}
	return out
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func parseTransactionID(raw string) (domain.TransactionID, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", raw)
	}
	return domain.TransactionID(id), nil
}

func parseTargetState(raw string) (domain.TransactionState, error) {
	state := domain.TransactionState(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")))
	if !state.Valid() {
		return "", fmt.Errorf("unknown state %q", raw)
	}
	return state, nil
}
