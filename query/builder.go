// Package query turns a generic list request (filter, sort, pagination) into
// the primitives a relational query needs: a condition map, an ordering and
// skip/take. Building is pure; Scope/CountScope apply the result to gorm.
package query

import (
	"reflect"
	"time"
)

// Filter is a flat field -> value mapping as produced by the list schemas.
// Values of type Search, DateRange or any slice are rewritten by BuildWhere;
// everything else, fixed-size arrays such as uuid.UUID included, is an
// equality condition.
type Filter map[string]any

// Search marks a value as a case-insensitive substring search.
type Search string

// DateRange is the date-range filter shape. Both bounds are inclusive.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Where is the merged condition map. Values are either plain equality values
// or one of Contains, Between, In.
type Where map[string]any

// Contains is a substring condition.
type Contains struct {
	Value       string
	Insensitive bool
}

// Between is a closed-interval condition. A nil bound is unbounded.
type Between struct {
	From *time.Time
	To   *time.Time
}

// In is a "field is one of" condition.
type In struct {
	Values []any
}

// Order is one ordering term.
type Order struct {
	Column string
	Desc   bool
}

// Page holds skip/take; nil means no bound.
type Page struct {
	Skip *int
	Take *int
}

// Spec is everything a paired list+count query needs.
type Spec struct {
	Where Where
	Order []Order
	Page  Page
}

// BuildWhere merges filter on top of base. base is copied first, so with an
// empty filter the result equals base; a filter key equal to a base key
// replaces it.
func BuildWhere(base Filter, filter Filter) Where {
	out := make(Where, len(base)+len(filter))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range filter {
		out[k] = condition(v)
	}
	return out
}

func condition(v any) any {
	switch tv := v.(type) {
	case Search:
		return Contains{Value: string(tv), Insensitive: true}
	case DateRange:
		return Between{From: tv.From, To: tv.To}
	case nil, string, []byte:
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return In{Values: values}
	}
	return v
}

// BuildOrder converts sort terms into ordering, left to right. An empty sort
// yields no ordering so the database default applies.
func BuildOrder(sort Sort) []Order {
	if len(sort) == 0 {
		return nil
	}
	out := make([]Order, 0, len(sort))
	for _, f := range sort {
		out = append(out, Order{Column: f.Field, Desc: f.Direction == Desc})
	}
	return out
}

// BuildPage maps offset/limit to skip/take.
func BuildPage(p Pageable) Page {
	return Page{Skip: p.Offset, Take: p.Limit}
}

// Build composes the full query spec.
func Build(base Filter, filter Filter, p Pageable) Spec {
	return Spec{
		Where: BuildWhere(base, filter),
		Order: BuildOrder(p.Sort),
		Page:  BuildPage(p),
	}
}
