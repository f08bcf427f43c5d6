package models

import "time"

type Organization struct {
	OrgID     string    `gorm:"primaryKey;type:varchar(36)" json:"org_id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex:idx_organizations_name;not null" json:"name"`
	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Members []OrganizationMember `gorm:"foreignKey:OrgID;references:OrgID;constraint:OnDelete:CASCADE" json:"-"`
}
