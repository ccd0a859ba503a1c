package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/models"
)

func TestAssetStore_Create(t *testing.T) {
	companyID := "3f0b7e6c-0000-0000-0000-000000000001"
	otherID := "3f0b7e6c-0000-0000-0000-000000000002"
	ctx := context.Background()

	t.Run("Should reject a non-admin scope with no company", func(t *testing.T) {
		s := NewAssetStore(dryRunDB(t))
		a := models.Asset{Name: "laptop", Serial: "sn-1"}
		err := s.Create(ctx, Scope{Role: models.RoleManager}, &a)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should reject creating under a company the scope cannot see", func(t *testing.T) {
		s := NewAssetStore(dryRunDB(t))
		a := models.Asset{Name: "laptop", Serial: "sn-1", CompanyID: &otherID}
		err := s.Create(ctx, Scope{Role: models.RoleManager, CompanyID: &companyID}, &a)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should force the scope's company onto an asset without one", func(t *testing.T) {
		s := NewAssetStore(dryRunDB(t))
		a := models.Asset{Name: "laptop", Serial: "sn-1"}
		err := s.Create(ctx, Scope{Role: models.RoleManager, CompanyID: &companyID}, &a)
		require.NoError(t, err)
		require.NotNil(t, a.CompanyID)
		assert.Equal(t, companyID, *a.CompanyID)
	})

	t.Run("Should accept a body company matching the scope", func(t *testing.T) {
		s := NewAssetStore(dryRunDB(t))
		own := companyID
		a := models.Asset{Name: "laptop", Serial: "sn-1", CompanyID: &own}
		err := s.Create(ctx, Scope{Role: models.RoleTech, CompanyID: &companyID}, &a)
		require.NoError(t, err)
		assert.Equal(t, companyID, *a.CompanyID)
	})

	t.Run("Should let admins create under any company", func(t *testing.T) {
		s := NewAssetStore(dryRunDB(t))
		a := models.Asset{Name: "laptop", Serial: "sn-1", CompanyID: &otherID}
		err := s.Create(ctx, Scope{Role: models.RoleAdmin}, &a)
		require.NoError(t, err)
		require.NotNil(t, a.CompanyID)
		assert.Equal(t, otherID, *a.CompanyID)
	})
}
