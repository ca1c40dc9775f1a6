package resolver

import (
	"catalog-graphql/internal/catalog"

	"github.com/graphql-go/graphql"
)

func (r *Resolver) buildTypes() {
	r.attributeValueType = graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeValue",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"slug": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	r.attributeType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"slug":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"inputType": &graphql.Field{Type: graphql.String},
			"values": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(r.attributeValueType)),
				Description: "All values declared for this attribute.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					attribute, ok := p.Source.(*catalog.Attribute)
					if !ok {
						return nil, nil
					}
					thunk := catalog.AttributeValuesByAttribute(p.Context, r.store).
						Load(p.Context, attribute.ID)
					return func() (interface{}, error) {
						values, err := thunk()
						if err != nil {
							return nil, err
						}
						return values, nil
					}, nil
				},
			},
		},
	})

	r.choiceStatsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductAttributeChoiceStats",
		Fields: graphql.Fields{
			"productCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"value":        &graphql.Field{Type: graphql.NewNonNull(r.attributeValueType)},
		},
	})

	r.choicesType = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductAttributeChoices",
		Fields: graphql.Fields{
			"attribute": &graphql.Field{Type: graphql.NewNonNull(r.attributeType)},
			"choices":   &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(r.choiceStatsType)))},
		},
	})

	r.filterInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"search":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"categoryId": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	stringFilter := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StringFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"eq":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"oneOf": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	r.whereInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductWhereInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"slug": &graphql.InputObjectFieldConfig{Type: stringFilter},
		},
	})
}
