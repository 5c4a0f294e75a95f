package tui

import (
	"context"
	"time"

	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

// Backend balances equations, either in process or on a remote server
type Backend interface {
	Balance(ctx context.Context, equation string) (*service.BalanceResult, error)
	Examples(ctx context.Context) ([]catalog.Example, error)
	History(ctx context.Context, filter store.Filter) ([]*store.Record, error)
}

// LocalBackend runs the balancing service in process
type LocalBackend struct {
	Service *service.Service
}

// Balance implements Backend
func (b LocalBackend) Balance(ctx context.Context, equation string) (*service.BalanceResult, error) {
	return b.Service.Balance(ctx, service.BalanceRequest{Equation: equation, Source: "tui"})
}

// Examples implements Backend
func (b LocalBackend) Examples(ctx context.Context) ([]catalog.Example, error) {
	return b.Service.Examples(), nil
}

// History implements Backend
func (b LocalBackend) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	return b.Service.History(ctx, filter)
}

// Entry is one balancing attempt shown in the balance view
type Entry struct {
	Input     string
	Result    *service.BalanceResult
	Err       error
	Timestamp time.Time
}

// Message types for tea.Cmd async operations

// balanceResultMsg is sent when a balancing call returns
type balanceResultMsg struct {
	input  string
	result *service.BalanceResult
	err    error
}

// examplesLoadedMsg is sent when the sample equations are loaded
type examplesLoadedMsg struct {
	examples []catalog.Example
	err      error
}

// historyLoadedMsg is sent when history records are loaded
type historyLoadedMsg struct {
	records []*store.Record
	err     error
}
