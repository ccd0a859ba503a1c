package repo

import (
	"gorm.io/gorm"

	"assettrack/internal/models"
)

// Scope is the per-request authorization context every company/asset
// query runs under. Non-admin scopes are pinned to a single company;
// the stores append the company filter themselves so a handler bug
// cannot widen visibility.
type Scope struct {
	ProfileID string
	Role      models.Role
	CompanyID *string
}

func (s Scope) Admin() bool { return s.Role == models.RoleAdmin }

// companyScoped narrows a query on a table's company_id column.
// Admin scopes see everything. A non-admin scope with no company
// matches nothing.
func (s Scope) companyScoped(q *gorm.DB, column string) *gorm.DB {
	if s.Admin() {
		return q
	}
	if s.CompanyID == nil {
		return q.Where("1 = 0")
	}
	return q.Where(column+" = ?", *s.CompanyID)
}
