// Package storage persists tenant configuration, call logs and call
// performance rows.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/JermWang/disclaw/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Stats is a coarse summary of stored state.
type Stats struct {
	TotalTenants  int
	TotalCalls    int
	ActiveTenants int // autopost enabled
}

// Storage is the persistence edge of the pipeline. Call logs are
// append-only and returned newest first.
type Storage interface {
	Tenant(ctx context.Context, guildID string) (*model.TenantConfig, error)
	SaveTenant(ctx context.Context, cfg *model.TenantConfig) error
	DeleteTenant(ctx context.Context, guildID string) error
	AllTenants(ctx context.Context) ([]model.TenantConfig, error)

	AppendCallLog(ctx context.Context, log *model.CallLog) error
	CallLogs(ctx context.Context, guildID string, limit int) ([]model.CallLog, error)
	CallLogsSince(ctx context.Context, guildID string, since time.Time, limit int) ([]model.CallLog, error)

	UpsertPerformance(ctx context.Context, perf *model.CallPerformance) error
	Performance(ctx context.Context, callID string) (*model.CallPerformance, error)
	PerformancesSince(ctx context.Context, guildID string, since time.Time, limit int) ([]model.CallPerformance, error)

	Stats(ctx context.Context) (Stats, error)
	Close() error
}
