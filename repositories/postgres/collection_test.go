package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*repositories.Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewStoreFromDB(WrapDB(sqlDB, zap.NewNop()), zap.NewNop()), mock
}

func TestCollection_Insert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users" (id, doc) VALUES ($1, $2)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := models.NewUser("ana@example.com", "Ana", "", models.RoleUser)
	id, err := store.Users.Insert(context.Background(), user)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_InsertDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := store.Users.Insert(context.Background(), models.NewUser("ana@example.com", "Ana", "", ""))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_Find(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("c1", []byte(`{"email":"ana@example.com","product_id":"p1","name":"Napa","price":12.5,"quantity":2}`)).
		AddRow("c2", []byte(`{"email":"ana@example.com","product_id":"p2","name":"Ace","price":3,"quantity":1}`))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "carts" WHERE doc @> $1::jsonb ORDER BY created_at, id`)).
		WithArgs(`{"email":"ana@example.com"}`).
		WillReturnRows(rows)

	items, err := store.Carts.Find(context.Background(), repositories.Filter{"email": "ana@example.com"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].ID)
	assert.Equal(t, 25.0, items[0].Subtotal())
	assert.Equal(t, "c2", items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindEmptyFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "categories"`)).
		WithArgs(`{}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	cats, err := store.Categories.Find(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindOneNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users" WHERE doc @> $1::jsonb ORDER BY created_at, id LIMIT 1`)).
		WithArgs(`{"email":"ghost@example.com"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	_, err := store.Users.FindOne(context.Background(), repositories.Filter{"email": "ghost@example.com"})

	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_FindByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM "users" WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow("u1", []byte(`{"email":"admin@example.com","role":"admin"}`)))

	user, err := store.Users.FindByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_UpdateByID(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "missing document", affected: 0, wantErr: repositories.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET doc = doc || $2::jsonb WHERE id = $1`)).
				WithArgs("u1", []byte(`{"role":"seller"}`)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := store.Users.UpdateByID(context.Background(), "u1",
				repositories.Update{"role": models.RoleSeller, "_id": "ignored"})

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCollection_IncrementByID(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "incremented", affected: 1},
		{name: "missing document", affected: 0, wantErr: repositories.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "carts" SET doc = jsonb_set(doc, ARRAY[$2::text], to_jsonb(COALESCE((doc->>$2::text)::numeric, 0) + $3::numeric)) WHERE id = $1`)).
				WithArgs("c1", "quantity", int64(3)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := store.Carts.IncrementByID(context.Background(), "c1", "quantity", 3)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCollection_DeleteMany(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "carts" WHERE doc @> $1::jsonb`)).
		WithArgs(`{"email":"ana@example.com"}`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.Carts.DeleteMany(context.Background(), repositories.Filter{"email": "ana@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_DeleteByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "carts" WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Carts.DeleteByID(context.Background(), "missing")

	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_InTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "carts" WHERE id = $1`)).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.InTransaction(context.Background(), func(ctx context.Context) error {
			return store.Carts.DeleteByID(ctx, "c1")
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "carts" WHERE id = $1`)).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.InTransaction(context.Background(), func(ctx context.Context) error {
			return store.Carts.DeleteByID(ctx, "c1")
		})

		assert.True(t, errors.Is(err, repositories.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBackend_Ping(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	store := NewStoreFromDB(WrapDB(sqlDB, zap.NewNop()), zap.NewNop())

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "postgres", store.Backend.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}
