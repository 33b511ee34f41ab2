package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JermWang/disclaw/internal/model"
)

// SQLite stores everything in a single database file. Tenant configs and
// call cards are kept as JSON documents; the columns queried by the
// dispatch and tracking loops are broken out for indexing.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLite opens (and if needed creates) the database at path and runs
// migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			guild_id   TEXT PRIMARY KEY,
			config     TEXT NOT NULL,
			autopost   INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS call_logs (
			id           TEXT PRIMARY KEY,
			guild_id     TEXT NOT NULL,
			channel_id   TEXT NOT NULL,
			mint         TEXT NOT NULL,
			card         TEXT NOT NULL,
			triggered_by TEXT NOT NULL,
			user_id      TEXT,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_logs_guild_created
			ON call_logs (guild_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS call_performance (
			call_id          TEXT PRIMARY KEY,
			guild_id         TEXT NOT NULL,
			channel_id       TEXT NOT NULL,
			token_address    TEXT NOT NULL,
			token_symbol     TEXT NOT NULL,
			call_price       REAL NOT NULL,
			call_at          INTEGER NOT NULL,
			ath_price        REAL NOT NULL,
			ath_at           INTEGER NOT NULL,
			last_price       REAL NOT NULL,
			last_checked_at  INTEGER NOT NULL,
			bonus_alert_sent INTEGER NOT NULL DEFAULT 0,
			bonus_alert_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_call_performance_guild_call_at
			ON call_performance (guild_id, call_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Tenant(ctx context.Context, guildID string) (*model.TenantConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT config FROM tenants WHERE guild_id = ?", guildID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query tenant: %w", err)
	}
	var cfg model.TenantConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode tenant config: %w", err)
	}
	return &cfg, nil
}

func (s *SQLite) SaveTenant(ctx context.Context, cfg *model.TenantConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode tenant config: %w", err)
	}
	autopost := 0
	if cfg.Policy.AutopostEnabled {
		autopost = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tenants (guild_id, config, autopost, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			config = excluded.config,
			autopost = excluded.autopost,
			updated_at = excluded.updated_at`,
		cfg.GuildID, string(raw), autopost, cfg.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save tenant: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteTenant(ctx context.Context, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tenants WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM call_logs WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("delete tenant call logs: %w", err)
	}
	return nil
}

func (s *SQLite) AllTenants(ctx context.Context) ([]model.TenantConfig, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT config FROM tenants ORDER BY guild_id")
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var out []model.TenantConfig
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		var cfg model.TenantConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return nil, fmt.Errorf("decode tenant config: %w", err)
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func (s *SQLite) AppendCallLog(ctx context.Context, log *model.CallLog) error {
	card, err := json.Marshal(log.Card)
	if err != nil {
		return fmt.Errorf("encode call card: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO call_logs (id, guild_id, channel_id, mint, card, triggered_by, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.GuildID, log.ChannelID, log.Card.Token.Mint, string(card),
		string(log.TriggeredBy), log.UserID, log.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert call log: %w", err)
	}
	return nil
}

func (s *SQLite) CallLogs(ctx context.Context, guildID string, limit int) ([]model.CallLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, channel_id, card, triggered_by, user_id, created_at
		FROM call_logs WHERE guild_id = ?
		ORDER BY created_at DESC LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("query call logs: %w", err)
	}
	defer rows.Close()
	return scanCallLogs(rows)
}

func (s *SQLite) CallLogsSince(ctx context.Context, guildID string, since time.Time, limit int) ([]model.CallLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, channel_id, card, triggered_by, user_id, created_at
		FROM call_logs WHERE guild_id = ? AND created_at >= ?
		ORDER BY created_at DESC LIMIT ?`, guildID, since.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("query call logs: %w", err)
	}
	defer rows.Close()
	return scanCallLogs(rows)
}

func scanCallLogs(rows *sql.Rows) ([]model.CallLog, error) {
	var out []model.CallLog
	for rows.Next() {
		var (
			log       model.CallLog
			card      string
			triggered string
			userID    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&log.ID, &log.GuildID, &log.ChannelID, &card, &triggered, &userID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan call log: %w", err)
		}
		if err := json.Unmarshal([]byte(card), &log.Card); err != nil {
			return nil, fmt.Errorf("decode call card: %w", err)
		}
		log.TriggeredBy = model.TriggerSource(triggered)
		log.UserID = userID.String
		log.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, log)
	}
	return out, rows.Err()
}

func (s *SQLite) UpsertPerformance(ctx context.Context, perf *model.CallPerformance) error {
	var bonusAt any
	if perf.BonusAlertAt != nil {
		bonusAt = perf.BonusAlertAt.Unix()
	}
	sent := 0
	if perf.BonusAlertSent {
		sent = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO call_performance (
			call_id, guild_id, channel_id, token_address, token_symbol,
			call_price, call_at, ath_price, ath_at, last_price, last_checked_at,
			bonus_alert_sent, bonus_alert_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(call_id) DO UPDATE SET
			ath_price = excluded.ath_price,
			ath_at = excluded.ath_at,
			last_price = excluded.last_price,
			last_checked_at = excluded.last_checked_at,
			bonus_alert_sent = excluded.bonus_alert_sent,
			bonus_alert_at = excluded.bonus_alert_at`,
		perf.CallID, perf.GuildID, perf.ChannelID, perf.TokenAddress, perf.TokenSymbol,
		perf.CallPrice, perf.CallAt.Unix(), perf.AthPrice, perf.AthAt.Unix(),
		perf.LastPrice, perf.LastCheckedAt.Unix(), sent, bonusAt)
	if err != nil {
		return fmt.Errorf("upsert performance: %w", err)
	}
	return nil
}

func (s *SQLite) Performance(ctx context.Context, callID string) (*model.CallPerformance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT call_id, guild_id, channel_id, token_address, token_symbol,
			call_price, call_at, ath_price, ath_at, last_price, last_checked_at,
			bonus_alert_sent, bonus_alert_at
		FROM call_performance WHERE call_id = ?`, callID)
	perf, err := scanPerformance(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return perf, err
}

func (s *SQLite) PerformancesSince(ctx context.Context, guildID string, since time.Time, limit int) ([]model.CallPerformance, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT call_id, guild_id, channel_id, token_address, token_symbol,
			call_price, call_at, ath_price, ath_at, last_price, last_checked_at,
			bonus_alert_sent, bonus_alert_at
		FROM call_performance WHERE guild_id = ? AND call_at >= ?
		ORDER BY call_at DESC LIMIT ?`, guildID, since.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()

	var out []model.CallPerformance
	for rows.Next() {
		perf, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *perf)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row rowScanner) (*model.CallPerformance, error) {
	var (
		perf      model.CallPerformance
		callAt    int64
		athAt     int64
		checkedAt int64
		sent      int
		bonusAt   sql.NullInt64
	)
	err := row.Scan(&perf.CallID, &perf.GuildID, &perf.ChannelID, &perf.TokenAddress,
		&perf.TokenSymbol, &perf.CallPrice, &callAt, &perf.AthPrice, &athAt,
		&perf.LastPrice, &checkedAt, &sent, &bonusAt)
	if err != nil {
		return nil, err
	}
	perf.CallAt = time.Unix(callAt, 0).UTC()
	perf.AthAt = time.Unix(athAt, 0).UTC()
	perf.LastCheckedAt = time.Unix(checkedAt, 0).UTC()
	perf.BonusAlertSent = sent != 0
	if bonusAt.Valid {
		t := time.Unix(bonusAt.Int64, 0).UTC()
		perf.BonusAlertAt = &t
	}
	return &perf, nil
}

func (s *SQLite) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tenants").Scan(&st.TotalTenants); err != nil {
		return st, fmt.Errorf("count tenants: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM call_logs").Scan(&st.TotalCalls); err != nil {
		return st, fmt.Errorf("count call logs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tenants WHERE autopost = 1").Scan(&st.ActiveTenants); err != nil {
		return st, fmt.Errorf("count active tenants: %w", err)
	}
	return st, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
