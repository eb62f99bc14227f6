package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/framesync/pkg/core"
	"github.com/leapstack-labs/framesync/pkg/dialect"
)

func TestBulkLoaderLoad(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	columns := []core.Column{
		{Name: "id", Type: core.Int},
		{Name: "name", Type: core.VarChar, Size: 10},
	}
	rows := [][]any{
		{int64(1), "alpha"},
		{int64(2), "beta"},
	}

	mock.ExpectExec(`INSERT INTO "_source_sales_ab12" ("id", "name") VALUES ($1, $2), ($3, $4)`).
		WithArgs(int64(1), "alpha", int64(2), "beta").
		WillReturnResult(sqlmock.NewResult(0, 2))

	l := NewBulkLoader(dialect.Postgres, nil)
	loaded, err := l.Load(context.Background(), db, "_source_sales_ab12", columns, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkLoaderChunks(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	columns := []core.Column{{Name: "id", Type: core.Int}}
	rows := [][]any{{int64(1)}, {int64(2)}, {int64(3)}}

	mock.ExpectExec(`INSERT INTO "stage" ("id") VALUES ($1), ($2)`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "stage" ("id") VALUES ($1)`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l := NewBulkLoader(dialect.Postgres, nil)
	l.MaxParams = 2
	loaded, err := l.Load(context.Background(), db, "stage", columns, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkLoaderQuestionMarkPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	columns := []core.Column{{Name: "id", Type: core.Int}}

	mock.ExpectExec(`INSERT INTO [#stage] ([id]) VALUES (?)`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l := NewBulkLoader(dialect.SQLServer, nil)
	loaded, err := l.Load(context.Background(), db, "#stage", columns, [][]any{{int64(7)}})
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkLoaderEmpty(t *testing.T) {
	l := NewBulkLoader(dialect.Postgres, nil)
	loaded, err := l.Load(context.Background(), nil, "stage", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, loaded)
}

func TestBulkLoaderExecError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`INSERT INTO "stage" ("id") VALUES ($1)`).
		WithArgs(int64(1)).
		WillReturnError(assert.AnError)

	l := NewBulkLoader(dialect.Postgres, nil)
	_, err = l.Load(context.Background(), db, "stage", []core.Column{{Name: "id", Type: core.Int}}, [][]any{{int64(1)}})

	var te *core.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "load", te.Op)
}
