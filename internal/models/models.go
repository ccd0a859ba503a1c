package models

import "time"

// Role is the access level carried by a Profile. Stored as text.
type Role string

const (
	RolePending Role = "pending"
	RoleViewer  Role = "viewer"
	RoleTech    Role = "tech"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles. Rows with an
// unknown role are rejected at the store boundary instead of being
// silently treated as pending.
func (r Role) Valid() bool {
	switch r {
	case RolePending, RoleViewer, RoleTech, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Profile is the application-level user record layered over an auth
// identity. Its id equals the identity's id. ApprovalToken is non-nil
// only while an approval request is outstanding; it is single-use.
type Profile struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Role          Role      `gorm:"type:text;not null;default:pending" json:"role"`
	Approved      bool      `gorm:"not null;default:false" json:"approved"`
	ApprovalToken *string   `gorm:"uniqueIndex" json:"-"`
	CompanyID     *string   `gorm:"type:uuid;index" json:"company_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Credential is the local stand-in for the external auth identity.
type Credential struct {
	ProfileID    string    `gorm:"type:uuid;primaryKey" json:"profile_id"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Company struct {
	ID               string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	DepreciationRate *float64  `json:"depreciation_rate,omitempty"` // percent per year
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zip              string    `json:"zip,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Asset struct {
	ID        string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Serial    string     `gorm:"not null" json:"serial"`
	Cost      *float64   `json:"cost,omitempty"`
	AddedOn   *time.Time `json:"added_on,omitempty"`
	Status    string     `gorm:"not null;default:Active" json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CompanyID *string    `gorm:"type:uuid;index" json:"company_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	ProfileID string     `gorm:"type:uuid;index;not null" json:"profile_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID *string   `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
