package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	upsertProfile = `
INSERT INTO agent_profiles (pk, first_name, last_name, data)
VALUES ($1, $2, $3, $4)
ON CONFLICT (pk) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    data = EXCLUDED.data,
    updated_at = now()`

	selectProfile = `SELECT data FROM agent_profiles WHERE pk = $1`
)

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, p Profile) (string, error) {
	p, err := normalize(p)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	if _, err := r.db.Exec(ctx, upsertProfile, p.PK, p.FirstName, p.LastName, data); err != nil {
		return "", fmt.Errorf("save profile %s: %w", p.PK, err)
	}
	return p.PK, nil
}

func (r *PostgresRepository) Get(ctx context.Context, pk string) (Profile, error) {
	var data []byte
	if err := r.db.QueryRow(ctx, selectProfile, pk).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("get profile %s: %w", pk, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", pk, err)
	}
	return p, nil
}
