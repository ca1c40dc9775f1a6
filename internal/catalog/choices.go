package catalog

import (
	"context"
)

// ComputeChoices aggregates, for every requested attribute slug, the distinct
// attribute values used inside the product scope and the number of distinct
// products carrying each value. Product-level and variant-level assignments
// are unioned per value, so a product reached through both paths counts once.
//
// Groups follow the requested slug order; slugs that do not resolve to an
// attribute are dropped from the output. An empty scope still yields one
// empty group per resolvable slug.
func ComputeChoices(ctx context.Context, store *Store, productIDs []int64, slugs []string) ([]ChoiceGroup, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	productRows, err := store.ProductAssignments(ctx, productIDs, slugs)
	if err != nil {
		return nil, err
	}
	variantRows, err := store.VariantAssignments(ctx, productIDs, slugs)
	if err != nil {
		return nil, err
	}

	return assembleChoiceGroups(ctx, store, productRows, variantRows, productIDs, slugs)
}

// computeChoiceGroup is the single-slug path behind ChoiceGroupByScope. It
// shares assembly with the multi-slug path so both produce identical
// union/count results; only the query fan-out differs.
func computeChoiceGroup(ctx context.Context, store *Store, productIDs []int64, slug string) (*ChoiceGroup, error) {
	slugs := []string{slug}

	productRows, err := store.ProductAssignments(ctx, productIDs, slugs)
	if err != nil {
		return nil, err
	}
	variantRows, err := store.VariantAssignments(ctx, productIDs, slugs)
	if err != nil {
		return nil, err
	}

	groups, err := assembleChoiceGroups(ctx, store, productRows, variantRows, productIDs, slugs)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}
	group := groups[0]
	return &group, nil
}

func assembleChoiceGroups(ctx context.Context, store *Store, productRows, variantRows []AssignmentRow, scopeIDs []int64, slugs []string) ([]ChoiceGroup, error) {
	scope := make(map[int64]struct{}, len(scopeIDs))
	for _, id := range scopeIDs {
		scope[id] = struct{}{}
	}

	// value -> distinct product union across both assignment paths
	valueToProducts := make(map[int64]map[int64]struct{})
	// slug -> value IDs in first-seen scan order
	slugValues := make(map[string][]int64)
	slugSeen := make(map[string]map[int64]struct{})
	var valueIDs []int64
	valueSeen := make(map[int64]struct{})

	collect := func(rows []AssignmentRow) {
		for _, row := range rows {
			products, ok := valueToProducts[row.ValueID]
			if !ok {
				products = make(map[int64]struct{})
				valueToProducts[row.ValueID] = products
			}
			products[row.ProductID] = struct{}{}

			// Re-check scope membership: the two assignment queries run
			// separately, so a row outside the scope never reaches a group.
			if _, ok := scope[row.ProductID]; !ok {
				continue
			}

			seen, ok := slugSeen[row.AttributeSlug]
			if !ok {
				seen = make(map[int64]struct{})
				slugSeen[row.AttributeSlug] = seen
			}
			if _, dup := seen[row.ValueID]; dup {
				continue
			}
			seen[row.ValueID] = struct{}{}
			slugValues[row.AttributeSlug] = append(slugValues[row.AttributeSlug], row.ValueID)

			if _, dup := valueSeen[row.ValueID]; !dup {
				valueSeen[row.ValueID] = struct{}{}
				valueIDs = append(valueIDs, row.ValueID)
			}
		}
	}
	collect(productRows)
	collect(variantRows)

	// One batched round trip per entity kind.
	valuesThunk := AttributeValueByID(ctx, store).LoadMany(ctx, valueIDs)
	attributesThunk := AttributeBySlug(ctx, store).LoadMany(ctx, slugs)

	values, err := valuesThunk()
	if err != nil {
		return nil, err
	}
	attributes, err := attributesThunk()
	if err != nil {
		return nil, err
	}

	valuesByID := make(map[int64]*AttributeValue, len(values))
	for _, value := range values {
		if value != nil {
			valuesByID[value.ID] = value
		}
	}
	attributesBySlug := make(map[string]*Attribute, len(attributes))
	for _, attribute := range attributes {
		if attribute != nil {
			attributesBySlug[attribute.Slug] = attribute
		}
	}

	groups := make([]ChoiceGroup, 0, len(slugs))
	for _, slug := range slugs {
		attribute := attributesBySlug[slug]
		if attribute == nil {
			// Unresolvable slugs are silently dropped, not errors.
			continue
		}

		choices := make([]Choice, 0, len(slugValues[slug]))
		for _, valueID := range slugValues[slug] {
			value := valuesByID[valueID]
			if value == nil {
				continue
			}
			choices = append(choices, Choice{
				Value:        value,
				ProductCount: len(valueToProducts[valueID]),
			})
		}
		groups = append(groups, ChoiceGroup{Attribute: attribute, Choices: choices})
	}
	return groups, nil
}
