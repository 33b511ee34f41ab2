package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JermWang/disclaw/internal/model"
)

// Memory is an in-memory Storage used when no database is configured and
// throughout the tests.
type Memory struct {
	mu           sync.RWMutex
	tenants      map[string]model.TenantConfig
	callLogs     map[string][]model.CallLog // newest first
	performances map[string]model.CallPerformance
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tenants:      make(map[string]model.TenantConfig),
		callLogs:     make(map[string][]model.CallLog),
		performances: make(map[string]model.CallPerformance),
	}
}

func (m *Memory) Tenant(_ context.Context, guildID string) (*model.TenantConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.tenants[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (m *Memory) SaveTenant(_ context.Context, cfg *model.TenantConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[cfg.GuildID] = *cfg
	return nil
}

func (m *Memory) DeleteTenant(_ context.Context, guildID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tenants, guildID)
	delete(m.callLogs, guildID)
	return nil
}

func (m *Memory) AllTenants(_ context.Context) ([]model.TenantConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.TenantConfig, 0, len(m.tenants))
	for _, cfg := range m.tenants {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

func (m *Memory) AppendCallLog(_ context.Context, log *model.CallLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLogs[log.GuildID] = append([]model.CallLog{*log}, m.callLogs[log.GuildID]...)
	return nil
}

func (m *Memory) CallLogs(_ context.Context, guildID string, limit int) ([]model.CallLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := m.callLogs[guildID]
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return append([]model.CallLog(nil), logs...), nil
}

func (m *Memory) CallLogsSince(_ context.Context, guildID string, since time.Time, limit int) ([]model.CallLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.CallLog
	for _, log := range m.callLogs[guildID] {
		if log.CreatedAt.Before(since) {
			break // logs are newest first
		}
		out = append(out, log)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) UpsertPerformance(_ context.Context, perf *model.CallPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.performances[perf.CallID] = *perf
	return nil
}

func (m *Memory) Performance(_ context.Context, callID string) (*model.CallPerformance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	perf, ok := m.performances[callID]
	if !ok {
		return nil, ErrNotFound
	}
	return &perf, nil
}

func (m *Memory) PerformancesSince(_ context.Context, guildID string, since time.Time, limit int) ([]model.CallPerformance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.CallPerformance
	for _, perf := range m.performances {
		if perf.GuildID != guildID || perf.CallAt.Before(since) {
			continue
		}
		out = append(out, perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallAt.After(out[j].CallAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{TotalTenants: len(m.tenants)}
	for _, logs := range m.callLogs {
		s.TotalCalls += len(logs)
	}
	for _, cfg := range m.tenants {
		if cfg.Policy.AutopostEnabled {
			s.ActiveTenants++
		}
	}
	return s, nil
}

func (m *Memory) Close() error { return nil }
