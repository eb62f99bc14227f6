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

func catalogColumns() []string {
	return []string{
		"column_name", "data_type", "character_maximum_length",
		"numeric_precision", "numeric_scale", "is_nullable", "is_primary_key",
	}
}

func TestCatalogTableSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(catalogColumns()).
		AddRow("id", "integer", nil, 32, 0, "NO", 1).
		AddRow("name", "character varying", 40, nil, nil, "YES", 0).
		AddRow("amount", "numeric", nil, 18, 6, "YES", 0).
		AddRow("notes", "text", nil, nil, nil, "YES", 0)
	mock.ExpectQuery("information_schema.columns").
		WithArgs("public", "sales", "public", "sales").
		WillReturnRows(rows)

	c := NewCatalog(dialect.Postgres, nil)
	schema, err := c.TableSchema(context.Background(), db, "sales")
	require.NoError(t, err)

	assert.Equal(t, "sales", schema.Name)
	assert.Equal(t, []core.Column{
		{Name: "id", Type: core.Int, NotNull: true, PrimaryKey: true},
		{Name: "name", Type: core.VarChar, Size: 40},
		{Name: "amount", Type: core.Decimal, Precision: 18, Scale: 6},
		{Name: "notes", Type: core.Text},
	}, schema.Columns)
	assert.Equal(t, []string{"id"}, schema.PrimaryKey())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogTableNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("information_schema.columns").
		WithArgs("public", "missing", "public", "missing").
		WillReturnRows(sqlmock.NewRows(catalogColumns()))

	c := NewCatalog(dialect.Postgres, nil)
	_, err = c.TableSchema(context.Background(), db, "missing")

	var tnf *core.TableNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.Equal(t, "missing", tnf.Table)
	assert.True(t, core.IsNotFound(err))
}

func TestCatalogQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("information_schema.columns").
		WillReturnError(assert.AnError)

	c := NewCatalog(dialect.Postgres, nil)
	_, err = c.TableSchema(context.Background(), db, "sales")

	var te *core.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "catalog", te.Op)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCatalogSchemaQualifiedTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(catalogColumns()).
		AddRow("id", "integer", nil, 32, 0, "NO", 0)
	mock.ExpectQuery("information_schema.columns").
		WithArgs("reporting", "sales", "reporting", "sales").
		WillReturnRows(rows)

	c := NewCatalog(dialect.Postgres, nil)
	schema, err := c.TableSchema(context.Background(), db, "reporting.sales")
	require.NoError(t, err)
	assert.Empty(t, schema.PrimaryKey())
}
