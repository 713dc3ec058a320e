package query

import (
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Scope applies the conditions only. Used for count queries.
func (w Where) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keys := make([]string, 0, len(w))
		for k := range w {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if expr, ok := expression(k, w[k]); ok {
				db = db.Where(expr)
			}
		}
		return db
	}
}

func expression(column string, v any) (clause.Expression, bool) {
	col := clause.Column{Name: column}
	switch c := v.(type) {
	case Contains:
		op := "LIKE"
		if c.Insensitive {
			op = "ILIKE"
		}
		return clause.Expr{SQL: "? " + op + " ?", Vars: []any{col, "%" + likeEscaper.Replace(c.Value) + "%"}}, true
	case Between:
		switch {
		case c.From != nil && c.To != nil:
			return clause.Expr{SQL: "? BETWEEN ? AND ?", Vars: []any{col, *c.From, *c.To}}, true
		case c.From != nil:
			return clause.Gte{Column: col, Value: *c.From}, true
		case c.To != nil:
			return clause.Lte{Column: col, Value: *c.To}, true
		}
		return nil, false
	case In:
		return clause.IN{Column: col, Values: c.Values}, true
	}
	return clause.Eq{Column: col, Value: v}, true
}

// Scope applies conditions, ordering and pagination.
func (s Spec) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(s.Where.Scope())
		for _, o := range s.Order {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
		}
		if s.Page.Skip != nil {
			db = db.Offset(*s.Page.Skip)
		}
		if s.Page.Take != nil {
			db = db.Limit(*s.Page.Take)
		}
		return db
	}
}

// CountScope applies the same conditions as Scope without ordering or
// pagination, so a list and its total are derived from one condition.
func (s Spec) CountScope() func(*gorm.DB) *gorm.DB {
	return s.Where.Scope()
}
