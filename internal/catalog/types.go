// Package catalog implements the batched data-fetching and aggregation layer
// of the product catalog: typed entity loaders for attributes and attribute
// values, channel/permission-aware product scope resolution, and the
// attribute-choice aggregation that joins product-level and variant-level
// assignments.
package catalog

import (
	sq "github.com/Masterminds/squirrel"
)

// Attribute is a product attribute definition. Slugs are unique.
type Attribute struct {
	ID        int64
	Slug      string
	Name      string
	InputType string
}

// AttributeValue is one selectable value of an attribute.
type AttributeValue struct {
	ID          int64
	AttributeID int64
	Name        string
	Slug        string
}

// Channel is a sales-context partition gating product visibility.
type Channel struct {
	ID   int64
	Slug string
}

// AssignmentRow is a distinct (attribute slug, value, product) projection from
// one of the two assignment paths. For variant-level assignments ProductID is
// the owning product derived through the variant.
type AssignmentRow struct {
	AttributeSlug string
	ValueID       int64
	ProductID     int64
}

// Choice pairs an attribute value with the number of distinct products in
// scope that carry it through either assignment path.
type Choice struct {
	Value        *AttributeValue
	ProductCount int
}

// ChoiceGroup is the aggregation output for one attribute. Choices are in
// first-seen scan order; callers must not assume a total order.
type ChoiceGroup struct {
	Attribute *Attribute
	Choices   []Choice
}

// ProductPredicate narrows a product scope query. Predicates are opaque to
// the aggregation layer and are ANDed with the permission/channel base scope.
type ProductPredicate func(sq.SelectBuilder) sq.SelectBuilder

// Permission names a catalog access grant.
type Permission string

// Permissions that bypass channel visibility for product scope resolution.
const (
	PermissionManageProducts  Permission = "MANAGE_PRODUCTS"
	PermissionManageOrders    Permission = "MANAGE_ORDERS"
	PermissionManageDiscounts Permission = "MANAGE_DISCOUNTS"
)

// CatalogReadPermissions is the permission set whose holders see all
// products regardless of channel listings.
var CatalogReadPermissions = []Permission{
	PermissionManageProducts,
	PermissionManageOrders,
	PermissionManageDiscounts,
}

// Requestor is the authenticated caller, consumed only as a permission
// predicate. A nil Requestor is an anonymous caller.
type Requestor interface {
	HasAnyPermission(permissions ...Permission) bool
}
