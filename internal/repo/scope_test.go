package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"assettrack/internal/models"
)

// dryRunDB builds statements without executing them, so the generated
// WHERE clauses can be asserted with no database behind them.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=app dbname=app",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db
}

func TestScope_companyScoped(t *testing.T) {
	companyID := "3f0b7e6c-0000-0000-0000-000000000001"

	t.Run("Should pass admin queries through unfiltered", func(t *testing.T) {
		db := dryRunDB(t)
		scope := Scope{Role: models.RoleAdmin}
		var as []models.Asset
		tx := scope.companyScoped(db, "company_id").Find(&as)
		require.NoError(t, tx.Error)
		assert.NotContains(t, tx.Statement.SQL.String(), "company_id")
	})

	t.Run("Should pin non-admin queries to the scope's company", func(t *testing.T) {
		db := dryRunDB(t)
		scope := Scope{Role: models.RoleManager, CompanyID: &companyID}
		var as []models.Asset
		tx := scope.companyScoped(db, "company_id").Find(&as)
		require.NoError(t, tx.Error)
		assert.Contains(t, tx.Statement.SQL.String(), "company_id = $1")
		require.Len(t, tx.Statement.Vars, 1)
		assert.Equal(t, companyID, tx.Statement.Vars[0])
	})

	t.Run("Should match nothing for a non-admin scope without a company", func(t *testing.T) {
		db := dryRunDB(t)
		scope := Scope{Role: models.RoleTech}
		var as []models.Asset
		tx := scope.companyScoped(db, "company_id").Find(&as)
		require.NoError(t, tx.Error)
		assert.Contains(t, tx.Statement.SQL.String(), "1 = 0")
	})

	t.Run("Should narrow company lookups by their id column", func(t *testing.T) {
		db := dryRunDB(t)
		scope := Scope{Role: models.RoleManager, CompanyID: &companyID}
		var cs []models.Company
		tx := scope.companyScoped(db, "id").Find(&cs)
		require.NoError(t, tx.Error)
		assert.Contains(t, tx.Statement.SQL.String(), "id = $1")
		require.Len(t, tx.Statement.Vars, 1)
		assert.Equal(t, companyID, tx.Statement.Vars[0])
	})
}

func TestScope_Admin(t *testing.T) {
	assert.True(t, Scope{Role: models.RoleAdmin}.Admin())
	for _, r := range []models.Role{models.RolePending, models.RoleViewer, models.RoleTech, models.RoleManager} {
		assert.False(t, Scope{Role: r}.Admin(), string(r))
	}
}
