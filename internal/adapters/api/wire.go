package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
)

// localDateTime is the zone-less layout the backend uses for its timestamps.
const localDateTime = "2006-01-02T15:04:05.999999999"

type transactionDTO struct {
	ID                    int64     `json:"id"`
	State                 string    `json:"state"`
	ServiceID             int64     `json:"serviceId"`
	ClientID              string    `json:"idClient"`
	ProviderID            string    `json:"idProvider"`
	CreationDate          *wireTime `json:"creationDate"`
	RequestValidationDate *wireTime `json:"requestValidationDate"`
	FinishDate            *wireTime `json:"finishDate"`
}

type createRequestDTO struct {
	ServiceID     int64 `json:"serviceId"`
	DirectRequest bool  `json:"directRequest"`
}

type updateStateDTO struct {
	NewState domain.TransactionState `json:"newState"`
}

// wireTime accepts RFC 3339 and zone-less local date-times, the latter read
// as UTC. Empty strings and null decode to the zero time.
type wireTime struct {
	time.Time
}

func (w *wireTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseWireTime(raw)
	if err != nil {
		return err
	}
	w.Time = parsed
	return nil
}

func parseWireTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.ParseInLocation(localDateTime, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return parsed, nil
}

func (d transactionDTO) toDomain() (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:         domain.TransactionID(d.ID),
		State:      domain.TransactionState(d.State),
		ServiceID:  d.ServiceID,
		ClientID:   d.ClientID,
		ProviderID: d.ProviderID,
	}
	if d.CreationDate != nil {
		tx.CreatedAt = d.CreationDate.Time
	}
	tx.RequestAcceptedAt = optionalTime(d.RequestValidationDate)
	tx.FinishedAt = optionalTime(d.FinishDate)

	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func optionalTime(w *wireTime) *time.Time {
	if w == nil || w.IsZero() {
		return nil
	}
	t := w.Time
	return &t
}

// DecodeTransaction decodes one transaction snapshot as sent by the REST
// endpoints and the realtime stream.
func DecodeTransaction(data []byte) (domain.Transaction, error) {
	var dto transactionDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}
	return dto.toDomain()
}

func decodeTransactions(data []byte) ([]domain.Transaction, error) {
	var dtos []transactionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode transaction list: %w", err)
	}
	out := make([]domain.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
