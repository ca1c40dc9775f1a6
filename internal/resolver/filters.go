package resolver

import (
	"catalog-graphql/internal/catalog"

	sq "github.com/Masterminds/squirrel"
)

// productFilterPredicate translates a ProductFilterInput argument into a
// scope predicate. An empty or absent filter yields a nil predicate, which
// the scope resolver skips.
func productFilterPredicate(args map[string]interface{}) catalog.ProductPredicate {
	if len(args) == 0 {
		return nil
	}

	var conditions []sq.Sqlizer
	if search, ok := args["search"].(string); ok && search != "" {
		conditions = append(conditions, sq.Like{"p.name": "%" + search + "%"})
	}
	if categoryID, ok := args["categoryId"].(int); ok {
		conditions = append(conditions, sq.Eq{"p.category_id": int64(categoryID)})
	}
	if len(conditions) == 0 {
		return nil
	}

	return func(builder sq.SelectBuilder) sq.SelectBuilder {
		for _, condition := range conditions {
			builder = builder.Where(condition)
		}
		return builder
	}
}

// productWherePredicate translates a ProductWhereInput argument into a scope
// predicate. Operators within a field clause are combined with AND.
func productWherePredicate(args map[string]interface{}) catalog.ProductPredicate {
	if len(args) == 0 {
		return nil
	}

	var conditions []sq.Sqlizer
	if clause, ok := args["slug"].(map[string]interface{}); ok {
		conditions = append(conditions, stringClauseConditions("p.slug", clause)...)
	}
	if len(conditions) == 0 {
		return nil
	}

	return func(builder sq.SelectBuilder) sq.SelectBuilder {
		for _, condition := range conditions {
			builder = builder.Where(condition)
		}
		return builder
	}
}

func stringClauseConditions(column string, clause map[string]interface{}) []sq.Sqlizer {
	var conditions []sq.Sqlizer
	if eq, ok := clause["eq"].(string); ok {
		conditions = append(conditions, sq.Eq{column: eq})
	}
	if raw, ok := clause["oneOf"].([]interface{}); ok {
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			if str, ok := item.(string); ok {
				values = append(values, str)
			}
		}
		if len(values) > 0 {
			conditions = append(conditions, sq.Eq{column: values})
		}
	}
	return conditions
}
