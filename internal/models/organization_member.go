package models

import "time"

// OrganizationRole is stored verbatim; the service layer does not restrict it
// to the constants below.
type OrganizationRole string

const (
	RoleAdmin OrganizationRole = "admin"
	RoleStaff OrganizationRole = "staff"
)

type OrganizationMember struct {
	OrgID     string           `gorm:"primaryKey;type:varchar(36)" json:"org_id"`
	UserID    string           `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	Role      OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	InvitedBy string           `gorm:"type:varchar(255);not null" json:"invited_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// IsAdmin reports whether the membership grants admin access.
func (m OrganizationMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}
