package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const (
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	tempFilePattern = ".session-*.toml.tmp"
)

// SessionRepository persists the non-secret session record as a TOML file.
type SessionRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(path string) (*SessionRepository, error) {
	if path == "" {
		return nil, errors.New("session path is empty")
	}
	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{path: normalized, mu: lockForPath(normalized)}, nil
}

func (r *SessionRepository) Path() string {
	return r.path
}

// Load returns domain.ErrSessionNotFound when nothing has been saved.
func (r *SessionRepository) Load(ctx context.Context) (ports.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return ports.SessionRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return ports.SessionRecord{}, err
	}
	if file.Session == nil || file.Session.Identity.Subject == "" {
		return ports.SessionRecord{}, domain.ErrSessionNotFound
	}

	return fromSchema(*file.Session), nil
}

func (r *SessionRepository) Save(ctx context.Context, record ports.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.Identity.Subject == "" {
		return errors.New("session record has no subject")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	encoded := toSchema(record)
	return r.writeSchema(fileSchema{Version: currentSchemaVersion, Session: &encoded})
}

// Clear removes the session file. Clearing twice is not an error.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (r *SessionRepository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *SessionRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(record ports.SessionRecord) sessionSchema {
	return sessionSchema{
		Identity: identitySchema{
			Subject:     record.Identity.Subject,
			DisplayName: record.Identity.DisplayName,
			Email:       record.Identity.Email,
		},
		AccessRef:        record.AccessRef,
		RefreshRef:       record.RefreshRef,
		AccessExpiresAt:  formatTime(record.AccessExpiresAt),
		RefreshExpiresAt: formatTime(record.RefreshExpiresAt),
		UpdatedAt:        formatTime(record.UpdatedAt),
	}
}

func fromSchema(s sessionSchema) ports.SessionRecord {
	return ports.SessionRecord{
		Identity: domain.Identity{
			Subject:     s.Identity.Subject,
			DisplayName: s.Identity.DisplayName,
			Email:       s.Identity.Email,
		},
		AccessRef:        s.AccessRef,
		RefreshRef:       s.RefreshRef,
		AccessExpiresAt:  parseTime(s.AccessExpiresAt),
		RefreshExpiresAt: parseTime(s.RefreshExpiresAt),
		UpdatedAt:        parseTime(s.UpdatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
