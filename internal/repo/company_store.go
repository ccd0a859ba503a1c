package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"assettrack/internal/models"
)

type CompanyStore struct{ db *gorm.DB }

func NewCompanyStore(db *gorm.DB) *CompanyStore { return &CompanyStore{db: db} }

func (s *CompanyStore) Create(ctx context.Context, c *models.Company) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (s *CompanyStore) Get(ctx context.Context, scope Scope, id string) (*models.Company, error) {
	var c models.Company
	q := scope.companyScoped(s.db.WithContext(ctx), "id")
	err := q.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List returns every company for admins, and the caller's own company
// (or nothing) for everyone else.
func (s *CompanyStore) List(ctx context.Context, scope Scope) ([]models.Company, error) {
	var cs []models.Company
	q := scope.companyScoped(s.db.WithContext(ctx), "id").Order("name")
	if err := q.Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return cs, nil
}

// CompanyPatch carries the updatable fields. Nil means "leave as is".
type CompanyPatch struct {
	Name             *string  `json:"name"`
	DepreciationRate *float64 `json:"depreciation_rate"`
	Street           *string  `json:"street"`
	City             *string  `json:"city"`
	State            *string  `json:"state"`
	Zip              *string  `json:"zip"`
	Phone            *string  `json:"phone"`
	Email            *string  `json:"email"`
	Note             *string  `json:"note"`
}

func (s *CompanyStore) Update(ctx context.Context, scope Scope, id string, patch CompanyPatch) (*models.Company, error) {
	c, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.DepreciationRate != nil {
		c.DepreciationRate = patch.DepreciationRate
	}
	if patch.Street != nil {
		c.Street = *patch.Street
	}
	if patch.City != nil {
		c.City = *patch.City
	}
	if patch.State != nil {
		c.State = *patch.State
	}
	if patch.Zip != nil {
		c.Zip = *patch.Zip
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Note != nil {
		c.Note = *patch.Note
	}
	c.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}
