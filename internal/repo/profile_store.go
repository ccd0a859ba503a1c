package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assettrack/internal/models"
)

type ProfileStore struct{ db *gorm.DB }

func NewProfileStore(db *gorm.DB) *ProfileStore { return &ProfileStore{db: db} }

func (s *ProfileStore) Get(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !p.Role.Valid() {
		return nil, ErrBadRecord
	}
	return &p, nil
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, "LOWER(email) = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	if !p.Role.Valid() {
		return nil, ErrBadRecord
	}
	return &p, nil
}

// UpsertPending creates or resets a profile to the pre-approval state
// with a fresh token. Writing the token here supersedes any previous
// outstanding one, so at most one token is live per profile.
func (s *ProfileStore) UpsertPending(ctx context.Context, id, email, token string) error {
	p := models.Profile{
		ID:            id,
		Email:         strings.ToLower(email),
		Role:          models.RolePending,
		Approved:      false,
		ApprovalToken: &token,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email":          p.Email,
			"role":           models.RolePending,
			"approved":       false,
			"approval_token": token,
			"updated_at":     time.Now(),
		}),
	}).Create(&p).Error
	if err != nil {
		// the email column is unique; a different profile id reusing an
		// address surfaces as a duplicated key
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("upsert pending profile: %w", err)
	}
	return nil
}

// ApproveByToken consumes an approval token. The match and the state
// change are one conditional UPDATE, so two concurrent calls with the
// same token cannot both succeed: the first clears the token, the
// second matches zero rows.
func (s *ProfileStore) ApproveByToken(ctx context.Context, token string) (*models.Profile, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	var p models.Profile
	res := s.db.WithContext(ctx).
		Model(&p).
		Clauses(clause.Returning{}).
		Where("approval_token = ?", token).
		Updates(map[string]any{
			"approved":       true,
			"role":           models.RoleManager,
			"approval_token": nil,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("approve by token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	return &p, nil
}

// ApproveByID is the administrative override: approves a profile
// directly and clears any outstanding token.
func (s *ProfileStore) ApproveByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	res := s.db.WithContext(ctx).
		Model(&p).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"approved":       true,
			"role":           models.RoleManager,
			"approval_token": nil,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("approve by id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	return &p, nil
}

// UpsertApprovedAdmin is the bootstrap path: the profile comes out
// approved with the admin role and no outstanding token.
func (s *ProfileStore) UpsertApprovedAdmin(ctx context.Context, id, email string) error {
	p := models.Profile{
		ID:       id,
		Email:    strings.ToLower(email),
		Role:     models.RoleAdmin,
		Approved: true,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email":          p.Email,
			"role":           models.RoleAdmin,
			"approved":       true,
			"approval_token": nil,
			"updated_at":     time.Now(),
		}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("upsert admin profile: %w", err)
	}
	return nil
}

// AssignCompany binds a profile to a company. Only the single row
// named by id is touched.
func (s *ProfileStore) AssignCompany(ctx context.Context, id, companyID string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{"company_id": companyID, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("assign company: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes a profile's role. Unknown roles are rejected here,
// not persisted.
func (s *ProfileStore) SetRole(ctx context.Context, id string, role models.Role) error {
	if !role.Valid() {
		return ErrBadRecord
	}
	res := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("set role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	var ps []models.Profile
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return ps, nil
}
