package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"assettrack/internal/models"
)

type AssetStore struct{ db *gorm.DB }

func NewAssetStore(db *gorm.DB) *AssetStore { return &AssetStore{db: db} }

// Create inserts an asset. Non-admin callers can only create assets
// under their own company; the company id is forced from the scope so a
// forged request body cannot plant records elsewhere.
func (s *AssetStore) Create(ctx context.Context, scope Scope, a *models.Asset) error {
	if !scope.Admin() {
		if scope.CompanyID == nil {
			return ErrNotFound
		}
		if a.CompanyID != nil && *a.CompanyID != *scope.CompanyID {
			return ErrNotFound
		}
		a.CompanyID = scope.CompanyID
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (s *AssetStore) Get(ctx context.Context, scope Scope, id string) (*models.Asset, error) {
	var a models.Asset
	q := scope.companyScoped(s.db.WithContext(ctx), "company_id")
	err := q.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

// List returns assets visible to the scope, optionally filtered to one
// company.
func (s *AssetStore) List(ctx context.Context, scope Scope, companyID string) ([]models.Asset, error) {
	var as []models.Asset
	q := scope.companyScoped(s.db.WithContext(ctx), "company_id")
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	if err := q.Order("created_at desc").Find(&as).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return as, nil
}

type AssetPatch struct {
	Name    *string    `json:"name"`
	Serial  *string    `json:"serial"`
	Cost    *float64   `json:"cost"`
	AddedOn *time.Time `json:"added_on"`
	Status  *string    `json:"status"`
	Notes   *string    `json:"notes"`
}

func (s *AssetStore) Update(ctx context.Context, scope Scope, id string, patch AssetPatch) (*models.Asset, error) {
	a, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Serial != nil {
		a.Serial = *patch.Serial
	}
	if patch.Cost != nil {
		a.Cost = patch.Cost
	}
	if patch.AddedOn != nil {
		a.AddedOn = patch.AddedOn
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	a.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return a, nil
}

func (s *AssetStore) Delete(ctx context.Context, scope Scope, id string) error {
	q := scope.companyScoped(s.db.WithContext(ctx), "company_id")
	res := q.Delete(&models.Asset{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete asset: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
