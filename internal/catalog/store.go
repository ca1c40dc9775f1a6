package catalog

import (
	"context"
	"fmt"

	"catalog-graphql/internal/dbexec"

	sq "github.com/Masterminds/squirrel"
)

// Store executes catalog read queries. All lookups are bulk operations keyed
// by ID or slug sets; the store never writes.
type Store struct {
	executor dbexec.QueryExecutor
}

// NewStore creates a store backed by the given query executor.
func NewStore(executor dbexec.QueryExecutor) *Store {
	return &Store{executor: executor}
}

// AttributesByIDs bulk-loads attributes for an ID set. Missing IDs simply
// produce no row.
func (s *Store) AttributesByIDs(ctx context.Context, ids []int64) ([]*Attribute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	builder := sq.Select("id", "slug", "name", "input_type").
		From("attribute").
		Where(sq.Eq{"id": ids})
	return s.queryAttributes(ctx, builder)
}

// AttributesBySlugs bulk-loads attributes for a slug set.
func (s *Store) AttributesBySlugs(ctx context.Context, slugs []string) ([]*Attribute, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	builder := sq.Select("id", "slug", "name", "input_type").
		From("attribute").
		Where(sq.Eq{"slug": slugs})
	return s.queryAttributes(ctx, builder)
}

// AttributeValuesByIDs bulk-loads attribute values for an ID set.
func (s *Store) AttributeValuesByIDs(ctx context.Context, ids []int64) ([]*AttributeValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	builder := sq.Select("id", "attribute_id", "name", "slug").
		From("attribute_value").
		Where(sq.Eq{"id": ids})
	return s.queryAttributeValues(ctx, builder)
}

// AttributeValuesByAttributeIDs bulk-loads every value belonging to any of
// the given attributes.
func (s *Store) AttributeValuesByAttributeIDs(ctx context.Context, attributeIDs []int64) ([]*AttributeValue, error) {
	if len(attributeIDs) == 0 {
		return nil, nil
	}
	builder := sq.Select("id", "attribute_id", "name", "slug").
		From("attribute_value").
		Where(sq.Eq{"attribute_id": attributeIDs}).
		OrderBy("attribute_id", "id")
	return s.queryAttributeValues(ctx, builder)
}

// ChannelBySlug loads a channel, or nil when the slug is unknown.
func (s *Store) ChannelBySlug(ctx context.Context, slug string) (*Channel, error) {
	query, args, err := sq.Select("id", "slug").
		From("channel").
		Where(sq.Eq{"slug": slug}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build channel query: %w", err)
	}

	rows, err := s.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var channel *Channel
	if rows.Next() {
		channel = &Channel{}
		if err := rows.Scan(&channel.ID, &channel.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
	}
	return channel, rows.Err()
}

// ProductAssignments returns the distinct (slug, value, product) rows for
// product-level attribute assignments inside the scope, restricted to the
// requested attribute slugs.
func (s *Store) ProductAssignments(ctx context.Context, productIDs []int64, slugs []string) ([]AssignmentRow, error) {
	if len(productIDs) == 0 || len(slugs) == 0 {
		return nil, nil
	}
	builder := sq.Select("a.slug", "apv.value_id", "apv.product_id").
		Distinct().
		From("assigned_product_attribute_value AS apv").
		Join("attribute_value AS v ON v.id = apv.value_id").
		Join("attribute AS a ON a.id = v.attribute_id").
		Where(sq.Eq{"apv.product_id": productIDs}).
		Where(sq.Eq{"a.slug": slugs})
	return s.queryAssignments(ctx, builder)
}

// VariantAssignments returns the distinct (slug, value, owning product) rows
// for variant-level attribute assignments. The owning product is reached
// through the variant, so several variants of one product collapse to the
// same row.
func (s *Store) VariantAssignments(ctx context.Context, productIDs []int64, slugs []string) ([]AssignmentRow, error) {
	if len(productIDs) == 0 || len(slugs) == 0 {
		return nil, nil
	}
	builder := sq.Select("a.slug", "avv.value_id", "pv.product_id").
		Distinct().
		From("assigned_variant_attribute_value AS avv").
		Join("product_variant AS pv ON pv.id = avv.variant_id").
		Join("attribute_value AS v ON v.id = avv.value_id").
		Join("attribute AS a ON a.id = v.attribute_id").
		Where(sq.Eq{"pv.product_id": productIDs}).
		Where(sq.Eq{"a.slug": slugs})
	return s.queryAssignments(ctx, builder)
}

func (s *Store) queryAttributes(ctx context.Context, builder sq.SelectBuilder) ([]*Attribute, error) {
	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attribute query: %w", err)
	}

	rows, err := s.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attributes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var attributes []*Attribute
	for rows.Next() {
		attribute := &Attribute{}
		if err := rows.Scan(&attribute.ID, &attribute.Slug, &attribute.Name, &attribute.InputType); err != nil {
			return nil, fmt.Errorf("failed to scan attribute row: %w", err)
		}
		attributes = append(attributes, attribute)
	}
	return attributes, rows.Err()
}

func (s *Store) queryAttributeValues(ctx context.Context, builder sq.SelectBuilder) ([]*AttributeValue, error) {
	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attribute value query: %w", err)
	}

	rows, err := s.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attribute values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []*AttributeValue
	for rows.Next() {
		value := &AttributeValue{}
		if err := rows.Scan(&value.ID, &value.AttributeID, &value.Name, &value.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan attribute value row: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (s *Store) queryAssignments(ctx context.Context, builder sq.SelectBuilder) ([]AssignmentRow, error) {
	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build assignment query: %w", err)
	}

	rows, err := s.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assignments []AssignmentRow
	for rows.Next() {
		var row AssignmentRow
		if err := rows.Scan(&row.AttributeSlug, &row.ValueID, &row.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, row)
	}
	return assignments, rows.Err()
}

func (s *Store) queryProductIDs(ctx context.Context, builder sq.SelectBuilder) ([]int64, error) {
	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product scope query: %w", err)
	}

	rows, err := s.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product scope: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
