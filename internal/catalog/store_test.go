package catalog

import (
	"context"
	"regexp"
	"testing"

	"catalog-graphql/internal/dbexec"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(dbexec.NewStandardExecutor(db)), mock
}

func attributeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "name", "input_type"})
}

func attributeValueRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "attribute_id", "name", "slug"})
}

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"slug", "value_id", "product_id"})
}

func TestAttributesBySlugs(t *testing.T) {
	ctx := context.Background()

	t.Run("bulk lookup by slug set", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, slug, name, input_type FROM attribute WHERE slug IN (?,?)",
		)).
			WithArgs("size", "color").
			WillReturnRows(attributeRows().
				AddRow(1, "size", "Size", "DROPDOWN").
				AddRow(2, "color", "Color", "DROPDOWN"))

		attributes, err := store.AttributesBySlugs(ctx, []string{"size", "color"})
		require.NoError(t, err)
		require.Len(t, attributes, 2)
		assert.Equal(t, "size", attributes[0].Slug)
		assert.Equal(t, "Color", attributes[1].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty slug set issues no query", func(t *testing.T) {
		store, mock := newMockStore(t)

		attributes, err := store.AttributesBySlugs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, attributes)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttributesByIDs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, slug, name, input_type FROM attribute WHERE id IN (?,?)",
	)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(attributeRows().
			AddRow(1, "size", "Size", "DROPDOWN").
			AddRow(2, "color", "Color", "DROPDOWN"))

	attributes, err := store.AttributesByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, attributes, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeValuesByIDs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, attribute_id, name, slug FROM attribute_value WHERE id IN (?)",
	)).
		WithArgs(int64(10)).
		WillReturnRows(attributeValueRows().AddRow(10, 1, "Small", "small"))

	values, err := store.AttributeValuesByIDs(context.Background(), []int64{10})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, int64(1), values[0].AttributeID)
	assert.Equal(t, "Small", values[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeValuesByAttributeIDs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, attribute_id, name, slug FROM attribute_value WHERE attribute_id IN (?) ORDER BY attribute_id, id",
	)).
		WithArgs(int64(1)).
		WillReturnRows(attributeValueRows().
			AddRow(10, 1, "Small", "small").
			AddRow(11, 1, "Medium", "medium"))

	values, err := store.AttributeValuesByAttributeIDs(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelBySlug(t *testing.T) {
	t.Run("returns channel", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, slug FROM channel WHERE slug = ?",
		)).
			WithArgs("default-channel").
			WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(5, "default-channel"))

		channel, err := store.ChannelBySlug(context.Background(), "default-channel")
		require.NoError(t, err)
		require.NotNil(t, channel)
		assert.Equal(t, int64(5), channel.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown slug resolves to nil", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, slug FROM channel WHERE slug = ?",
		)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))

		channel, err := store.ChannelBySlug(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, channel)
	})
}

func TestProductAssignments(t *testing.T) {
	ctx := context.Background()

	t.Run("projects distinct slug, value, product rows", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT DISTINCT a.slug, apv.value_id, apv.product_id "+
				"FROM assigned_product_attribute_value AS apv "+
				"JOIN attribute_value AS v ON v.id = apv.value_id "+
				"JOIN attribute AS a ON a.id = v.attribute_id "+
				"WHERE apv.product_id IN (?) AND a.slug IN (?)",
		)).
			WithArgs(int64(100), "size").
			WillReturnRows(assignmentRows().AddRow("size", 10, 100))

		rows, err := store.ProductAssignments(ctx, []int64{100}, []string{"size"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, AssignmentRow{AttributeSlug: "size", ValueID: 10, ProductID: 100}, rows[0])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty scope issues no query", func(t *testing.T) {
		store, mock := newMockStore(t)

		rows, err := store.ProductAssignments(ctx, nil, []string{"size"})
		require.NoError(t, err)
		assert.Empty(t, rows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVariantAssignments(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT DISTINCT a.slug, avv.value_id, pv.product_id "+
			"FROM assigned_variant_attribute_value AS avv "+
			"JOIN product_variant AS pv ON pv.id = avv.variant_id "+
			"JOIN attribute_value AS v ON v.id = avv.value_id "+
			"JOIN attribute AS a ON a.id = v.attribute_id "+
			"WHERE pv.product_id IN (?,?) AND a.slug IN (?)",
	)).
		WithArgs(int64(100), int64(200), "size").
		WillReturnRows(assignmentRows().
			AddRow("size", 10, 100).
			AddRow("size", 11, 200))

	rows, err := store.VariantAssignments(context.Background(), []int64{100, 200}, []string{"size"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100), rows[0].ProductID)
	assert.Equal(t, int64(200), rows[1].ProductID)
	require.NoError(t, mock.ExpectationsWereMet())
}
