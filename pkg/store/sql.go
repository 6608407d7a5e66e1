package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/decoyhive/decoyhive/pkg/types"
)

// sqlStore serves both SQLite and PostgreSQL from one query set.
// Queries are written with ? placeholders and rebound to $N for the
// postgres dialect.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

func openSQL(d dialect, driverName, dsn string, logger *slog.Logger) (*sqlStore, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, opErr("open", err)
	}
	if d == dialectSQLite {
		// The sqlite driver serializes writers; one connection keeps
		// transactions from tripping over SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	s := &sqlStore{db: db, dialect: d, logger: logger}
	if _, err := db.Exec(d.schema()); err != nil {
		db.Close()
		return nil, opErr("migrate", err)
	}
	return s, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to $1..$N for postgres.
func (s *sqlStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func marshalMeta(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}

func unmarshalMeta(raw string) map[string]any {
	if raw == "" || raw == "{}" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func (s *sqlStore) CreateToken(ctx context.Context, p CreateTokenParams) (*types.Honeytoken, error) {
	meta, err := marshalMeta(p.Metadata)
	if err != nil {
		return nil, opErr("create token", err)
	}
	tok := &types.Honeytoken{
		TokenID:       newID(),
		TokenType:     p.TokenType,
		TokenValue:    p.TokenValue,
		HoneypotID:    p.HoneypotID,
		FilePath:      p.FilePath,
		CreatedAt:     time.Now().UTC(),
		AccessCount:   0,
		IsActive:      true,
		TokenMetadata: p.Metadata,
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO honeytokens
			(token_id, token_type, token_value, honeypot_id, file_path,
			 created_at, accessed_at, access_count, is_active, token_metadata)
		VALUES (?, ?, ?, ?, ?, ?, NULL, 0, TRUE, ?)`),
		tok.TokenID, tok.TokenType, tok.TokenValue, tok.HoneypotID,
		tok.FilePath, tok.CreatedAt, meta)
	if err != nil {
		return nil, opErr("create token", err)
	}
	s.logger.Debug("honeytoken created",
		"token_id", tok.TokenID, "token_type", tok.TokenType,
		"honeypot_id", tok.HoneypotID)
	return tok, nil
}

const tokenColumns = `token_id, token_type, token_value, honeypot_id, file_path,
	created_at, accessed_at, access_count, is_active, token_metadata`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*types.Honeytoken, error) {
	var tok types.Honeytoken
	var accessedAt sql.NullTime
	var meta string
	err := row.Scan(&tok.TokenID, &tok.TokenType, &tok.TokenValue,
		&tok.HoneypotID, &tok.FilePath, &tok.CreatedAt, &accessedAt,
		&tok.AccessCount, &tok.IsActive, &meta)
	if err != nil {
		return nil, err
	}
	if accessedAt.Valid {
		t := accessedAt.Time
		tok.AccessedAt = &t
	}
	tok.TokenMetadata = unmarshalMeta(meta)
	return &tok, nil
}

func (s *sqlStore) GetToken(ctx context.Context, tokenID string) (*types.Honeytoken, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+tokenColumns+` FROM honeytokens WHERE token_id = ?`), tokenID)
	tok, err := scanToken(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, opErr("get token", err)
	}
	return tok, nil
}

func (s *sqlStore) CheckToken(ctx context.Context, value string) (*types.Honeytoken, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, opErr("check token", err)
	}
	defer tx.Rollback()

	// Exact match against active tokens only. Oldest record wins if
	// the same value was somehow issued twice.
	row := tx.QueryRowContext(ctx, s.rebind(
		`SELECT `+tokenColumns+` FROM honeytokens
		 WHERE token_value = ? AND is_active = TRUE
		 ORDER BY created_at ASC, token_id ASC LIMIT 1`), value)
	tok, err := scanToken(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, opErr("check token", err)
	}

	now := time.Now().UTC()
	// SQL-side increment so concurrent checks never lose a count.
	_, err = tx.ExecContext(ctx, s.rebind(
		`UPDATE honeytokens
		 SET accessed_at = ?, access_count = access_count + 1
		 WHERE token_id = ?`), now, tok.TokenID)
	if err != nil {
		return nil, opErr("check token", err)
	}

	row = tx.QueryRowContext(ctx, s.rebind(
		`SELECT `+tokenColumns+` FROM honeytokens WHERE token_id = ?`), tok.TokenID)
	tok, err = scanToken(row)
	if err != nil {
		return nil, opErr("check token", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, opErr("check token", err)
	}

	s.logger.Warn("honeytoken accessed",
		"token_id", tok.TokenID, "token_type", tok.TokenType,
		"honeypot_id", tok.HoneypotID, "access_count", tok.AccessCount)
	return tok, nil
}

func (s *sqlStore) ListTokens(ctx context.Context, f ListFilter) ([]*types.Honeytoken, error) {
	query := `SELECT ` + tokenColumns + ` FROM honeytokens WHERE 1=1`
	var args []any
	if !f.IncludeInactive {
		query += ` AND is_active = TRUE`
	}
	if f.HoneypotID != "" {
		query += ` AND honeypot_id = ?`
		args = append(args, f.HoneypotID)
	}
	if f.TokenType != "" {
		query += ` AND token_type = ?`
		args = append(args, f.TokenType)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY created_at DESC, token_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, opErr("list tokens", err)
	}
	defer rows.Close()

	var out []*types.Honeytoken
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, opErr("list tokens", err)
		}
		out = append(out, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, opErr("list tokens", err)
	}
	return out, nil
}

func (s *sqlStore) DeactivateToken(ctx context.Context, tokenID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE honeytokens SET is_active = FALSE WHERE token_id = ?`), tokenID)
	if err != nil {
		return false, opErr("deactivate token", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, opErr("deactivate token", err)
	}
	if n > 0 {
		s.logger.Info("honeytoken deactivated", "token_id", tokenID)
	}
	return n > 0, nil
}

func (s *sqlStore) AddGenerationLog(ctx context.Context, e *types.GenerationLogEntry) error {
	if e.GenerationID == "" {
		e.GenerationID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	meta, err := marshalMeta(e.EntryMetadata)
	if err != nil {
		return opErr("add generation log", err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO generation_log
			(generation_id, content_type, file_type, honeypot_id, prompt_hash,
			 validation_score, is_valid, created_at, generation_time_ms, entry_metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.GenerationID, e.ContentType, e.FileType, e.HoneypotID, e.PromptHash,
		e.ValidationScore, e.IsValid, e.CreatedAt, e.GenerationTimeMS, meta)
	if err != nil {
		return opErr("add generation log", err)
	}
	return nil
}

func (s *sqlStore) ListGenerationLogs(ctx context.Context, honeypotID string, limit int) ([]*types.GenerationLogEntry, error) {
	query := `SELECT generation_id, content_type, file_type, honeypot_id, prompt_hash,
		validation_score, is_valid, created_at, generation_time_ms, entry_metadata
		FROM generation_log WHERE 1=1`
	var args []any
	if honeypotID != "" {
		query += ` AND honeypot_id = ?`
		args = append(args, honeypotID)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY created_at DESC, generation_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, opErr("list generation logs", err)
	}
	defer rows.Close()

	var out []*types.GenerationLogEntry
	for rows.Next() {
		var e types.GenerationLogEntry
		var meta string
		err := rows.Scan(&e.GenerationID, &e.ContentType, &e.FileType,
			&e.HoneypotID, &e.PromptHash, &e.ValidationScore, &e.IsValid,
			&e.CreatedAt, &e.GenerationTimeMS, &meta)
		if err != nil {
			return nil, opErr("list generation logs", err)
		}
		e.EntryMetadata = unmarshalMeta(meta)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, opErr("list generation logs", err)
	}
	return out, nil
}
