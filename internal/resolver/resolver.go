// Package resolver exposes the catalog aggregation layer as a GraphQL query
// surface. Field resolvers read the request-scoped loader registry from
// context, so nested lookups batch and deduplicate automatically.
package resolver

import (
	"context"
	"fmt"

	"catalog-graphql/internal/catalog"
	"catalog-graphql/internal/logging"

	"github.com/graphql-go/graphql"
)

// Resolver handles GraphQL query execution against the catalog store.
type Resolver struct {
	store *catalog.Store

	attributeType      *graphql.Object
	attributeValueType *graphql.Object
	choiceStatsType    *graphql.Object
	choicesType        *graphql.Object
	filterInput        *graphql.InputObject
	whereInput         *graphql.InputObject
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store *catalog.Store) *Resolver {
	r := &Resolver{store: store}
	r.buildTypes()
	return r
}

// BuildGraphQLSchema constructs the executable GraphQL schema.
func (r *Resolver) BuildGraphQLSchema() (graphql.Schema, error) {
	rootQuery := graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"productAttributeChoices": r.productAttributeChoicesField(),
			"attribute":               r.attributeField(),
		},
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(rootQuery),
	})
}

func (r *Resolver) productAttributeChoicesField() *graphql.Field {
	return &graphql.Field{
		Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(r.choicesType))),
		Description: "Distinct attribute values used by visible products, with per-value product counts.",
		Args: graphql.FieldConfigArgument{
			"channel": &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.String),
			},
			"attributeSlugs": &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			},
			"filter": &graphql.ArgumentConfig{
				Type: r.filterInput,
			},
			"where": &graphql.ArgumentConfig{
				Type: r.whereInput,
			},
		},
		Resolve: r.resolveProductAttributeChoices,
	}
}

func (r *Resolver) attributeField() *graphql.Field {
	return &graphql.Field{
		Type: r.attributeType,
		Args: graphql.FieldConfigArgument{
			"slug": &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.String),
			},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			slug, _ := p.Args["slug"].(string)
			thunk := catalog.AttributeBySlug(p.Context, r.store).Load(p.Context, slug)
			return func() (interface{}, error) {
				attribute, err := thunk()
				if err != nil {
					return nil, err
				}
				if attribute == nil {
					return nil, nil
				}
				return attribute, nil
			}, nil
		},
	}
}

func (r *Resolver) resolveProductAttributeChoices(p graphql.ResolveParams) (interface{}, error) {
	ctx := p.Context

	channelSlug, _ := p.Args["channel"].(string)
	slugs, err := stringList(p.Args["attributeSlugs"])
	if err != nil {
		return nil, fmt.Errorf("invalid attributeSlugs argument: %w", err)
	}

	channel, err := r.store.ChannelBySlug(ctx, channelSlug)
	if err != nil {
		return nil, err
	}

	requestor := RequestorFromContext(ctx)
	scope, err := r.store.ResolveVisibleProducts(ctx, requestor, channel,
		productFilterPredicate(argMap(p.Args["filter"])),
		productWherePredicate(argMap(p.Args["where"])),
	)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("resolving product attribute choices",
		"channel", channelSlug,
		"attribute_slugs", slugs,
		"scope_size", len(scope),
	)

	// One requested slug goes through the per-request loader cache; several
	// slugs take the bulk path. Results are identical either way.
	if len(slugs) == 1 {
		thunk := catalog.ChoiceGroupByScope(ctx, r.store).
			Load(ctx, catalog.NewChoiceScopeKey(scope, slugs[0]))
		return func() (interface{}, error) {
			group, err := thunk()
			if err != nil {
				return nil, err
			}
			if group == nil {
				return []catalog.ChoiceGroup{}, nil
			}
			return []catalog.ChoiceGroup{*group}, nil
		}, nil
	}

	groups, err := catalog.ComputeChoices(ctx, r.store, scope, slugs)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []catalog.ChoiceGroup{}
	}
	return groups, nil
}

func stringList(raw interface{}) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string element, got %T", item)
		}
		out = append(out, str)
	}
	return out, nil
}

func argMap(raw interface{}) map[string]interface{} {
	m, _ := raw.(map[string]interface{})
	return m
}

type requestorContextKey struct{}

// WithRequestor attaches the authenticated caller to the request context.
func WithRequestor(ctx context.Context, requestor catalog.Requestor) context.Context {
	return context.WithValue(ctx, requestorContextKey{}, requestor)
}

// RequestorFromContext retrieves the authenticated caller, or nil for
// anonymous requests.
func RequestorFromContext(ctx context.Context) catalog.Requestor {
	if ctx == nil {
		return nil
	}
	requestor, _ := ctx.Value(requestorContextKey{}).(catalog.Requestor)
	return requestor
}
