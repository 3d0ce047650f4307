package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/bnema/marketplace-txn/internal/adapters/api"
	authadapter "github.com/bnema/marketplace-txn/internal/adapters/auth"
	"github.com/bnema/marketplace-txn/internal/adapters/realtime"
	tomlrepo "github.com/bnema/marketplace-txn/internal/adapters/repo/toml"
	chainstore "github.com/bnema/marketplace-txn/internal/adapters/secrets/chain"
	filestore "github.com/bnema/marketplace-txn/internal/adapters/secrets/file"
	passstore "github.com/bnema/marketplace-txn/internal/adapters/secrets/pass"
	"github.com/bnema/marketplace-txn/internal/application"
	"github.com/bnema/marketplace-txn/internal/config"
	"github.com/bnema/marketplace-txn/internal/logging"
	"github.com/bnema/marketplace-txn/internal/ports"
)

type app struct {
	cfg          config.Config
	logger       zerolog.Logger
	authorizer   *authadapter.LoopbackAuthorizer
	session      *application.SessionManager
	orchestrator *application.Orchestrator
	channel      ports.UpdateChannel
	now          func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.Console(os.Stderr, cfg.Log.Level)

	secrets, err := newSecretStore(cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	records, err := tomlrepo.NewSessionRepository(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	endpoints := authadapter.KeycloakEndpoints(cfg.Auth.Issuer)
	oauthClient := authadapter.Client{
		Endpoints:      endpoints,
		ClientID:       cfg.Auth.ClientID,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.API.Timeout,
	}
	authorizer := &authadapter.LoopbackAuthorizer{
		AuthorizationURL: endpoints.AuthorizationURL,
		ClientID:         cfg.Auth.ClientID,
		Scopes:           cfg.Auth.Scopes,
		ListenAddr:       cfg.Auth.CallbackListen,
		Timeout:          cfg.Auth.LoginTimeout,
	}

	session := application.NewSessionManager(
		authorizer,
		oauthClient,
		secrets,
		records,
		authadapter.ParseAccessToken,
		application.WithSessionLogger(logger),
		application.WithSessionNamespace(cfg.Session.Namespace),
	)

	apiClient, err := api.NewClient(cfg.API.BaseURL, session, api.WithTimeout(cfg.API.Timeout), api.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("wire api client: %w", err)
	}
	channel, err := realtime.NewChannel(cfg.API.BaseURL, session, realtime.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("wire realtime channel: %w", err)
	}

	catalog := application.NewCatalogCache(api.NewCatalogClient(apiClient), 0, ports.SystemClock{})

	orchestrator := application.NewOrchestrator(
		apiClient,
		catalog,
		application.WithOrchestratorLogger(logger),
		application.WithCreateTimeout(cfg.API.Timeout),
	)

	return &app{
		cfg:          cfg,
		logger:       logger,
		authorizer:   authorizer,
		session:      session,
		orchestrator: orchestrator,
		channel:      channel,
		now:          time.Now,
	}, nil
}

func newSecretStore(cfg config.SecretsConfig, logger zerolog.Logger) (ports.SecretStore, error) {
	switch cfg.Backend {
	case config.SecretsBackendFile:
		return filestore.NewStore(cfg.Dir), nil
	case config.SecretsBackendPass:
		return passstore.NewStore(passstore.WithPrefix(cfg.PassPrefix)), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.Dir, cfg.PassPrefix, logger)
	}
}

func (a *app) watcherConfig() application.WatcherConfig {
	return application.WatcherConfig{
		MaxReconnects:     a.cfg.Realtime.MaxReconnects,
		ReconnectDelay:    a.cfg.Realtime.ReconnectDelay,
		MaxReconnectDelay: a.cfg.Realtime.MaxReconnectDelay,
	}
}
