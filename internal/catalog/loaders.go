package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"catalog-graphql/internal/dataloader"
)

// Loader registry keys; one loader instance per key per request.
const (
	attributeByIDKey              = "attribute_by_id"
	attributeBySlugKey            = "attribute_by_slug"
	attributeValueByIDKey         = "attribute_value_by_id"
	attributeValuesByAttributeKey = "attribute_values_by_attribute"
	choiceGroupByScopeKey         = "choice_group_by_scope"
)

// AttributeByID returns the request's attribute-by-ID loader. Unknown IDs
// resolve to nil.
func AttributeByID(ctx context.Context, store *Store) *dataloader.Loader[int64, *Attribute] {
	return dataloader.Acquire(ctx, attributeByIDKey, func() *dataloader.Loader[int64, *Attribute] {
		return dataloader.New(attributeByIDKey, func(ctx context.Context, ids []int64) ([]*Attribute, error) {
			attributes, err := store.AttributesByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			byID := make(map[int64]*Attribute, len(attributes))
			for _, attribute := range attributes {
				byID[attribute.ID] = attribute
			}
			results := make([]*Attribute, len(ids))
			for i, id := range ids {
				results[i] = byID[id]
			}
			return results, nil
		})
	})
}

// AttributeBySlug returns the request's attribute-by-slug loader. Unmatched
// slugs resolve to nil.
func AttributeBySlug(ctx context.Context, store *Store) *dataloader.Loader[string, *Attribute] {
	return dataloader.Acquire(ctx, attributeBySlugKey, func() *dataloader.Loader[string, *Attribute] {
		return dataloader.New(attributeBySlugKey, func(ctx context.Context, slugs []string) ([]*Attribute, error) {
			attributes, err := store.AttributesBySlugs(ctx, slugs)
			if err != nil {
				return nil, err
			}
			bySlug := make(map[string]*Attribute, len(attributes))
			for _, attribute := range attributes {
				bySlug[attribute.Slug] = attribute
			}
			results := make([]*Attribute, len(slugs))
			for i, slug := range slugs {
				results[i] = bySlug[slug]
			}
			return results, nil
		})
	})
}

// AttributeValueByID returns the request's attribute-value-by-ID loader.
func AttributeValueByID(ctx context.Context, store *Store) *dataloader.Loader[int64, *AttributeValue] {
	return dataloader.Acquire(ctx, attributeValueByIDKey, func() *dataloader.Loader[int64, *AttributeValue] {
		return dataloader.New(attributeValueByIDKey, func(ctx context.Context, ids []int64) ([]*AttributeValue, error) {
			values, err := store.AttributeValuesByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			byID := make(map[int64]*AttributeValue, len(values))
			for _, value := range values {
				byID[value.ID] = value
			}
			results := make([]*AttributeValue, len(ids))
			for i, id := range ids {
				results[i] = byID[id]
			}
			return results, nil
		})
	})
}

// AttributeValuesByAttribute returns the request's values-by-attribute
// loader. Attributes without values resolve to an empty slice.
func AttributeValuesByAttribute(ctx context.Context, store *Store) *dataloader.Loader[int64, []*AttributeValue] {
	return dataloader.Acquire(ctx, attributeValuesByAttributeKey, func() *dataloader.Loader[int64, []*AttributeValue] {
		return dataloader.New(attributeValuesByAttributeKey, func(ctx context.Context, attributeIDs []int64) ([][]*AttributeValue, error) {
			values, err := store.AttributeValuesByAttributeIDs(ctx, attributeIDs)
			if err != nil {
				return nil, err
			}
			grouped := make(map[int64][]*AttributeValue, len(attributeIDs))
			for _, value := range values {
				grouped[value.AttributeID] = append(grouped[value.AttributeID], value)
			}
			results := make([][]*AttributeValue, len(attributeIDs))
			for i, attributeID := range attributeIDs {
				results[i] = grouped[attributeID]
			}
			return results, nil
		})
	})
}

// ChoiceScopeKey keys the single-slug choice path by the canonicalized
// product-ID scope plus one attribute slug.
type ChoiceScopeKey struct {
	products string
	Slug     string
}

// NewChoiceScopeKey canonicalizes a product-ID scope (sorted, deduplicated)
// and a slug into a cacheable composite key.
func NewChoiceScopeKey(productIDs []int64, slug string) ChoiceScopeKey {
	ids := append([]int64(nil), productIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	var last int64
	for i, id := range ids {
		if i > 0 && id == last {
			continue
		}
		last = id
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return ChoiceScopeKey{products: strings.Join(parts, ","), Slug: slug}
}

// ProductIDs recovers the canonical product-ID scope from the key.
func (k ChoiceScopeKey) ProductIDs() []int64 {
	if k.products == "" {
		return nil
	}
	parts := strings.Split(k.products, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ChoiceGroupByScope returns the request's single-slug choice loader. A key
// whose slug does not resolve yields nil; an empty product scope yields a
// group with no choices. Semantics are identical to ComputeChoices run with
// one slug.
func ChoiceGroupByScope(ctx context.Context, store *Store) *dataloader.Loader[ChoiceScopeKey, *ChoiceGroup] {
	return dataloader.Acquire(ctx, choiceGroupByScopeKey, func() *dataloader.Loader[ChoiceScopeKey, *ChoiceGroup] {
		return dataloader.New(choiceGroupByScopeKey, func(ctx context.Context, keys []ChoiceScopeKey) ([]*ChoiceGroup, error) {
			results := make([]*ChoiceGroup, len(keys))
			for i, key := range keys {
				group, err := computeChoiceGroup(ctx, store, key.ProductIDs(), key.Slug)
				if err != nil {
					return nil, err
				}
				results[i] = group
			}
			return results, nil
		})
	})
}
