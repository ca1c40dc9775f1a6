package catalog

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// ResolveVisibleProducts computes the product scope for a channel and
// requestor. Holders of any catalog-read permission see all products
// regardless of channel; everyone else is restricted to products with a
// visible-in-listings row for the channel. Without a channel and without
// elevated permission the scope is empty (fail closed, not an error).
// Predicates narrow the base scope as an AND intersection.
func (s *Store) ResolveVisibleProducts(ctx context.Context, requestor Requestor, channel *Channel, predicates ...ProductPredicate) ([]int64, error) {
	var builder sq.SelectBuilder

	switch {
	case requestor != nil && requestor.HasAnyPermission(CatalogReadPermissions...):
		builder = sq.Select("p.id").From("product AS p")
	case channel == nil:
		return nil, nil
	default:
		builder = sq.Select("p.id").
			From("product AS p").
			Join("product_channel_listing AS pcl ON pcl.product_id = p.id").
			Where(sq.Eq{"pcl.channel_id": channel.ID}).
			Where(sq.Eq{"pcl.visible_in_listings": true})
	}

	for _, predicate := range predicates {
		if predicate != nil {
			builder = predicate(builder)
		}
	}

	return s.queryProductIDs(ctx, builder)
}
