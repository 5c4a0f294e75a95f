package cmd

import (
	"context"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/chem"
	"github.com/msto63/lavoisier/internal/lavoisier/client"
	"github.com/msto63/lavoisier/internal/lavoisier/server"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	"github.com/msto63/lavoisier/pkg/core/cache"
	"github.com/msto63/lavoisier/pkg/core/config"
	"github.com/msto63/lavoisier/pkg/core/logging"
)

// backend is what the commands talk to. *client.Client satisfies it
// directly; localBackend adapts an in-process service.
type backend interface {
	Balance(ctx context.Context, equation string) (*service.BalanceResult, error)
	Parse(ctx context.Context, equation string) (*service.ParseResult, error)
	Tokens(ctx context.Context, equation string) ([]server.TokenView, error)
	Examples(ctx context.Context) ([]catalog.Example, error)
	Example(ctx context.Context, name string) (*catalog.Example, error)
	History(ctx context.Context, filter store.Filter) ([]*store.Record, error)
	HistoryStats(ctx context.Context) (*store.Stats, error)
	Close() error
}

var _ backend = (*client.Client)(nil)

type localBackend struct {
	svc    *service.Service
	source string
}

func (b *localBackend) Balance(ctx context.Context, equation string) (*service.BalanceResult, error) {
	return b.svc.Balance(ctx, service.BalanceRequest{Equation: equation, Source: b.source})
}

func (b *localBackend) Parse(ctx context.Context, equation string) (*service.ParseResult, error) {
	return b.svc.Parse(ctx, equation)
}

func (b *localBackend) Tokens(ctx context.Context, equation string) ([]server.TokenView, error) {
	tokens, err := b.svc.Tokenize(ctx, equation)
	if err != nil {
		return nil, err
	}
	return server.TokenViews(tokens), nil
}

func (b *localBackend) Examples(ctx context.Context) ([]catalog.Example, error) {
	return b.svc.Examples(), nil
}

func (b *localBackend) Example(ctx context.Context, name string) (*catalog.Example, error) {
	ex, err := b.svc.Example(name)
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (b *localBackend) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	return b.svc.History(ctx, filter)
}

func (b *localBackend) HistoryStats(ctx context.Context) (*store.Stats, error) {
	return b.svc.HistoryStats(ctx)
}

func (b *localBackend) Close() error {
	return b.svc.Close()
}

// openBackend dials --remote when set, otherwise builds the service in
// process. source tags history records written locally.
func openBackend(source string) (backend, error) {
	if remote != "" {
		c, err := client.Dial(remote)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to connect to "+remote).
				WithCode(mdwerror.CodeServiceUnavailable)
		}
		return c, nil
	}
	svc, err := buildService(appConfig)
	if err != nil {
		return nil, err
	}
	return &localBackend{svc: svc, source: source}, nil
}

// buildService wires the balancing service from the configuration
func buildService(cfg *config.Config) (*service.Service, error) {
	logger := logging.New("lavoisier")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to load example catalog").
			WithCode(mdwerror.CodeConfigError)
	}

	svcCfg := service.Config{
		Logger:         logger,
		MaxInputLength: cfg.Lavoisier.MaxInputLength,
		Format: chem.FormatOptions{
			Arrow:        cfg.Lavoisier.Arrow,
			ExplicitOnes: cfg.Lavoisier.ExplicitOnes,
		},
		SkipVerify: !cfg.Lavoisier.VerifyEnabled(),
		Catalog:    cat,
	}
	if cfg.Cache.Enabled {
		svcCfg.Cache = cache.NewResultCache(cfg.Cache.MaxItems, cfg.Cache.TTL.Duration)
	}
	if cfg.History.Enabled {
		history, err := store.NewSQLiteHistoryStore(store.SQLiteConfig{Path: cfg.History.Path})
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to open history").
				WithCode(mdwerror.CodeStorage)
		}
		svcCfg.History = history
	}

	svc, err := service.NewService(svcCfg)
	if err != nil {
		if svcCfg.History != nil {
			svcCfg.History.Close()
		}
		return nil, err
	}
	return svc, nil
}

// commandContext bounds a single CLI operation
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
