package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestWithTransaction_Commits(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE hostels").WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), mock, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "UPDATE hostels SET available_rooms = available_rooms - 1 WHERE id = $1", int64(1))
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("no availability")
	err := WithTransaction(context.Background(), mock, func(ctx context.Context, tx pgx.Tx) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), mock, func(ctx context.Context, tx pgx.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_BeginFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	called := false
	err := WithTransaction(context.Background(), mock, func(ctx context.Context, tx pgx.Tx) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}
