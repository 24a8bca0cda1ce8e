package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/models"
	"texcat/internal/query"
)

var hangerSpec = query.Spec{
	Table:         "hangers",
	SearchColumns: []string{"hangers.name", "hangers.code"},
	SortColumns: map[string]string{
		"name":       "hangers.name",
		"code":       "hangers.code",
		"created_at": "hangers.created_at",
	},
	DefaultSort: "hangers.created_at DESC",
}

func dryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func buildSQL(t *testing.T, db *gorm.DB) (string, []interface{}) {
	t.Helper()
	tx := db.Find(&[]map[string]interface{}{})
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestNormalizeDefaultsAndCap(t *testing.T) {
	p := query.ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)

	p = query.ListParams{Page: -3, PerPage: 100000}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, query.MaxPerPage, p.PerPage)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, query.ListParams{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 10, query.ListParams{Page: 2, PerPage: 10}.Offset())
	assert.Equal(t, 95, query.ListParams{Page: 20, PerPage: 5}.Offset())
}

func TestSearchCondition(t *testing.T) {
	cond, args := query.SearchCondition([]string{"hangers.name", "hangers.code"}, "Silk")
	assert.Equal(t, "hangers.name ILIKE ? OR hangers.code ILIKE ?", cond)
	assert.Equal(t, []any{"%Silk%", "%Silk%"}, args)
}

func TestOrderClauses(t *testing.T) {
	clauses, err := query.OrderClauses([]string{"-name", "created_at"}, hangerSpec.SortColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"hangers.name DESC", "hangers.created_at ASC"}, clauses)
}

func TestOrderClausesRejectsUnknownField(t *testing.T) {
	_, err := query.OrderClauses([]string{"password_hash"}, hangerSpec.SortColumns)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = query.OrderClauses([]string{"-drop table"}, hangerSpec.SortColumns)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestVisibleForStaffHidesInactive(t *testing.T) {
	staff := auth.Identity{Roles: []string{models.RoleStaff}}
	sql, vars := buildSQL(t, dryDB(t).Table("hangers").Scopes(query.Visible("hangers", staff)))

	assert.Contains(t, sql, "hangers.is_delete = ?")
	assert.Contains(t, sql, "hangers.is_active = ?")
	assert.Contains(t, vars, false)
	assert.Contains(t, vars, true)
}

func TestVisibleForAnonymousHidesInactive(t *testing.T) {
	sql, _ := buildSQL(t, dryDB(t).Table("hangers").Scopes(query.Visible("hangers", auth.Identity{})))
	assert.Contains(t, sql, "hangers.is_active = ?")
}

func TestVisibleForAdminShowsInactive(t *testing.T) {
	admin := auth.Identity{Roles: []string{models.RoleAdmin}}
	sql, _ := buildSQL(t, dryDB(t).Table("hangers").Scopes(query.Visible("hangers", admin)))

	assert.Contains(t, sql, "hangers.is_delete = ?")
	assert.NotContains(t, sql, "is_active")
}

func TestApplySearchSortPaginate(t *testing.T) {
	p := query.ListParams{SearchBy: "silk", SortBy: []string{"-name"}, Page: 2, PerPage: 10}
	q, err := query.Apply(dryDB(t).Table("hangers"), p, hangerSpec)
	require.NoError(t, err)

	sql, vars := buildSQL(t, q)
	assert.Contains(t, sql, "hangers.name ILIKE ? OR hangers.code ILIKE ?")
	assert.Contains(t, sql, "ORDER BY hangers.name DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, vars, "%silk%")
}

func TestApplyDefaultSort(t *testing.T) {
	q, err := query.Apply(dryDB(t).Table("hangers"), query.ListParams{}, hangerSpec)
	require.NoError(t, err)

	sql, _ := buildSQL(t, q)
	assert.Contains(t, sql, "ORDER BY hangers.created_at DESC")
}

func TestApplyInvalidSortFieldFails(t *testing.T) {
	_, err := query.Apply(dryDB(t).Table("hangers"), query.ListParams{SortBy: []string{"bogus"}}, hangerSpec)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestApplyMultiKeySortOrder(t *testing.T) {
	p := query.ListParams{SortBy: []string{"code", "-created_at"}}
	q, err := query.Apply(dryDB(t).Table("hangers"), p, hangerSpec)
	require.NoError(t, err)

	sql, _ := buildSQL(t, q)
	first := strings.Index(sql, "hangers.code ASC")
	second := strings.Index(sql, "hangers.created_at DESC")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}
