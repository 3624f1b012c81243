package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/guild-setup-service/internal/domain"
)

// MemberRepository defines persistence access for member profile records.
type MemberRepository interface {
	// EnsureSchema creates the members table when absent and adds any missing
	// column. It never drops or renames existing columns; safe to run on
	// every setup.
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, member *domain.MemberRecord) error
	GetByID(ctx context.Context, userID string) (*domain.MemberRecord, error)
}

type memberRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool, logger *zap.Logger) MemberRepository {
	return &memberRepository{pool: pool, logger: logger}
}

const createMembersTable = `
    CREATE TABLE IF NOT EXISTS members (
        user_id TEXT PRIMARY KEY,
        platform_username TEXT,
        x_profile_url TEXT,
        wallet_address TEXT,
        tokens BIGINT NOT NULL DEFAULT 0,
        xp BIGINT NOT NULL DEFAULT 0,
        rank TEXT,
        inventory TEXT,
        dao_member BOOLEAN NOT NULL DEFAULT FALSE,
        profile_picture TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`

// memberColumns lists every column the service expects, with the DDL used to
// add it when a previous deployment predates it.
var memberColumns = []struct {
	name string
	ddl  string
}{
	{"platform_username", "TEXT"},
	{"x_profile_url", "TEXT"},
	{"wallet_address", "TEXT"},
	{"tokens", "BIGINT NOT NULL DEFAULT 0"},
	{"xp", "BIGINT NOT NULL DEFAULT 0"},
	{"rank", "TEXT"},
	{"inventory", "TEXT"},
	{"dao_member", "BOOLEAN NOT NULL DEFAULT FALSE"},
	{"profile_picture", "TEXT"},
}

func (r *memberRepository) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		r.logger.Warn("no postgres pool available; skipping member schema ensure")
		return nil
	}

	if _, err := r.pool.Exec(ctx, createMembersTable); err != nil {
		return fmt.Errorf("create members table: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'members'`)
	if err != nil {
		return fmt.Errorf("inspect members table: %w", err)
	}
	existing := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan column name: %w", err)
		}
		existing[name] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read members columns: %w", err)
	}

	for _, col := range memberColumns {
		if _, ok := existing[col.name]; ok {
			continue
		}
		r.logger.Info("adding missing members column", zap.String("column", col.name))
		stmt := fmt.Sprintf(`ALTER TABLE members ADD COLUMN "%s" %s`, col.name, col.ddl)
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	return nil
}

func (r *memberRepository) Upsert(ctx context.Context, member *domain.MemberRecord) error {
	if r.pool == nil {
		return nil
	}
	const query = `
        INSERT INTO members (user_id, platform_username, x_profile_url, wallet_address,
                             tokens, xp, rank, inventory, dao_member, profile_picture)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id) DO UPDATE SET
            platform_username = EXCLUDED.platform_username,
            updated_at = NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.UserID,
		member.PlatformUsername,
		member.XProfileURL,
		member.WalletAddress,
		member.Tokens,
		member.XP,
		member.Rank,
		member.Inventory,
		member.DAOMember,
		member.ProfilePicture,
	).Scan(&member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) GetByID(ctx context.Context, userID string) (*domain.MemberRecord, error) {
	if r.pool == nil {
		return nil, pgx.ErrNoRows
	}
	const query = `
        SELECT user_id, platform_username, x_profile_url, wallet_address,
               tokens, xp, rank, inventory, dao_member, profile_picture,
               created_at, updated_at
        FROM members WHERE user_id=$1`

	var member domain.MemberRecord
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&member.UserID,
		&member.PlatformUsername,
		&member.XProfileURL,
		&member.WalletAddress,
		&member.Tokens,
		&member.XP,
		&member.Rank,
		&member.Inventory,
		&member.DAOMember,
		&member.ProfilePicture,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}
