package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client, ""), mr
}

func TestRedisRepositorySaveAndGet(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	pk, err := repo.Save(ctx, Profile{PK: "agent-1", FirstName: "Ada", LastName: "Lovelace", Age: 36})
	require.NoError(t, err)
	assert.Equal(t, "agent-1", pk)
	assert.True(t, mr.Exists("AgentProfile:agent-1"))

	got, err := repo.Get(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, 36, got.Age)
	assert.Equal(t, "Ada Lovelace", got.DisplayName())
}

func TestRedisRepositoryGeneratesPK(t *testing.T) {
	repo, _ := newRedisRepo(t)

	pk, err := repo.Save(context.Background(), Profile{FirstName: "Grace", LastName: "Hopper"})
	require.NoError(t, err)

	_, err = uuid.Parse(pk)
	assert.NoError(t, err)

	got, err := repo.Get(context.Background(), pk)
	require.NoError(t, err)
	assert.Equal(t, pk, got.PK)
}

func TestRedisRepositoryOverwrites(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, Profile{PK: "p", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, Profile{PK: "p", FirstName: "C", LastName: "D"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "C D", got.DisplayName())
}

func TestRedisRepositoryGetMissing(t *testing.T) {
	repo, _ := newRedisRepo(t)

	_, err := repo.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRedisRepositoryCustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisRepository(client, "profiles")

	_, err := repo.Save(context.Background(), Profile{PK: "x", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("profiles:x"))
}

func TestSaveRejectsWhitespaceInPK(t *testing.T) {
	repo, _ := newRedisRepo(t)

	_, err := repo.Save(context.Background(), Profile{PK: "bad pk", FirstName: "A", LastName: "B"})

	assert.ErrorIs(t, err, ErrInvalidProfile)
}

type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(append([]any{sql}, args...)...)
	return pgconn.NewCommandTag("INSERT 0 1"), called.Error(0)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(append([]any{sql}, args...)...)
	return called.Get(0).(pgx.Row)
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func TestPostgresRepositorySave(t *testing.T) {
	db := &mockDB{}
	db.On("Exec", upsertProfile, "agent-1", "Ada", "Lovelace", mock.AnythingOfType("[]uint8")).Return(nil)
	repo := NewPostgresRepository(db)

	pk, err := repo.Save(context.Background(), Profile{PK: "agent-1", FirstName: "Ada", LastName: "Lovelace"})

	require.NoError(t, err)
	assert.Equal(t, "agent-1", pk)
	db.AssertExpectations(t)
}

func TestPostgresRepositorySaveError(t *testing.T) {
	db := &mockDB{}
	db.On("Exec", upsertProfile, "agent-1", "Ada", "Lovelace", mock.Anything).Return(errors.New("connection reset"))
	repo := NewPostgresRepository(db)

	_, err := repo.Save(context.Background(), Profile{PK: "agent-1", FirstName: "Ada", LastName: "Lovelace"})

	assert.ErrorContains(t, err, "connection reset")
}

func TestPostgresRepositoryGet(t *testing.T) {
	data, err := json.Marshal(Profile{PK: "agent-1", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	db := &mockDB{}
	db.On("QueryRow", selectProfile, "agent-1").Return(fakeRow{data: data})
	repo := NewPostgresRepository(db)

	got, err := repo.Get(context.Background(), "agent-1")

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.DisplayName())
}

func TestPostgresRepositoryGetMissing(t *testing.T) {
	db := &mockDB{}
	db.On("QueryRow", selectProfile, "nobody").Return(fakeRow{err: pgx.ErrNoRows})
	repo := NewPostgresRepository(db)

	_, err := repo.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrProfileNotFound)
}
