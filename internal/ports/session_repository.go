package ports

import (
	"context"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
)

// SessionRecord is the non-secret half of a persisted session. The
// credentials themselves live in a SecretStore under AccessRef/RefreshRef.
type SessionRecord struct {
	Identity         domain.Identity
	AccessRef        string
	RefreshRef       string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	UpdatedAt        time.Time
}

type SessionRepository interface {
	Load(ctx context.Context) (SessionRecord, error)
	Save(ctx context.Context, record SessionRecord) error
	Clear(ctx context.Context) error
}
