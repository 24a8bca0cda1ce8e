// Package query shapes list and lookup queries: row visibility by role,
// free-text search, allow-listed sorting and pagination.
package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"texcat/internal/apperr"
	"texcat/internal/auth"
)

// MaxPerPage caps per_page; larger values are clamped, not rejected.
const MaxPerPage = 100

const defaultPerPage = 10

// ListParams is the filter/sort/pagination request for a list endpoint.
type ListParams struct {
	SearchBy string
	SortBy   []string
	Page     int
	PerPage  int
}

// Normalize applies defaults and bounds: page >= 1, per_page in
// [1, MaxPerPage] with a default of 10.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset is the zero-based row offset for the current page.
func (p ListParams) Offset() int { return (p.Page - 1) * p.PerPage }

// Spec declares, per entity, which columns a free-text search matches,
// which sort keys are accepted and the column each maps to, and the
// default order. Columns are table-qualified so joined list queries stay
// unambiguous.
type Spec struct {
	Table         string
	SearchColumns []string
	SortColumns   map[string]string
	DefaultSort   string
}

// Visible excludes soft-deleted rows always, and inactive rows unless
// the identity holds the ADMIN role. A zero identity is treated as
// anonymous. Applied uniformly to lookups and lists.
func Visible(table string, id auth.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(fmt.Sprintf("%s.is_delete = ?", table), false)
		if !id.IsAdmin() {
			db = db.Where(fmt.Sprintf("%s.is_active = ?", table), true)
		}
		return db
	}
}

// SearchCondition builds a case-insensitive substring predicate over the
// given columns, OR-combined.
func SearchCondition(columns []string, term string) (string, []any) {
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+" ILIKE ?")
		args = append(args, "%"+term+"%")
	}
	return strings.Join(parts, " OR "), args
}

// OrderClauses resolves sort specifiers against the allow-list. A "-"
// prefix means descending. Specifiers compose in order, the first one is
// the primary key of the sort. Unknown fields are rejected.
func OrderClauses(sortBy []string, allowed map[string]string) ([]string, error) {
	clauses := make([]string, 0, len(sortBy))
	for _, spec := range sortBy {
		field := strings.TrimPrefix(spec, "-")
		col, ok := allowed[field]
		if !ok {
			return nil, apperr.Validation("invalid sort field: %s", field)
		}
		if strings.HasPrefix(spec, "-") {
			clauses = append(clauses, col+" DESC")
		} else {
			clauses = append(clauses, col+" ASC")
		}
	}
	return clauses, nil
}

// Apply shapes a list query with search, sort and pagination, in that
// order. Visibility is expected to be applied by the caller via Visible.
func Apply(db *gorm.DB, p ListParams, spec Spec) (*gorm.DB, error) {
	p.Normalize()

	if p.SearchBy != "" && len(spec.SearchColumns) > 0 {
		cond, args := SearchCondition(spec.SearchColumns, p.SearchBy)
		db = db.Where(cond, args...)
	}

	if len(p.SortBy) > 0 {
		clauses, err := OrderClauses(p.SortBy, spec.SortColumns)
		if err != nil {
			return nil, err
		}
		for _, c := range clauses {
			db = db.Order(c)
		}
	} else if spec.DefaultSort != "" {
		db = db.Order(spec.DefaultSort)
	}

	return db.Offset(p.Offset()).Limit(p.PerPage), nil
}
