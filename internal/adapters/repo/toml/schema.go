package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Session *sessionSchema `toml:"session,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	Identity         identitySchema `toml:"identity"`
	AccessRef        string         `toml:"access_ref"`
	RefreshRef       string         `toml:"refresh_ref"`
	AccessExpiresAt  string         `toml:"access_expires_at,omitempty"`
	RefreshExpiresAt string         `toml:"refresh_expires_at,omitempty"`
	UpdatedAt        string         `toml:"updated_at"`
}

type identitySchema struct {
	Subject     string `toml:"subject"`
	DisplayName string `toml:"display_name,omitempty"`
	Email       string `toml:"email,omitempty"`
}
