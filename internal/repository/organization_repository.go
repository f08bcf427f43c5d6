package repository

import (
	"context"

	"github.com/yukikurage/organization-directory-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Transaction runs fn inside a database transaction
func (r *GormOrganizationRepository) Transaction(ctx context.Context, fn func(repo OrganizationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormOrganizationRepository{db: tx})
	})
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Omit("Members").Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("org_id = ?", orgID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByName finds an organization by name
func (r *GormOrganizationRepository) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByIDs returns every organization whose ID is in orgIDs
func (r *GormOrganizationRepository) FindByIDs(ctx context.Context, orgIDs []string) ([]models.Organization, error) {
	var orgs []models.Organization
	if len(orgIDs) == 0 {
		return orgs, nil
	}
	if err := r.db.WithContext(ctx).Where("org_id IN ?", orgIDs).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Delete deletes an organization and all of its memberships. Memberships are
// removed explicitly so the cascade holds even where foreign keys are not
// enforced.
func (r *GormOrganizationRepository) Delete(ctx context.Context, orgID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("org_id = ?", orgID).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("org_id = ?", orgID).Delete(&models.Organization{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// AddMember inserts a membership row. A second row for the same
// (org_id, user_id) fails with gorm.ErrDuplicatedKey.
func (r *GormOrganizationRepository) AddMember(ctx context.Context, member *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// UpdateMemberRole updates the role of a membership
func (r *GormOrganizationRepository) UpdateMemberRole(ctx context.Context, member *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Model(&models.OrganizationMember{}).
		Where("org_id = ? AND user_id = ?", member.OrgID, member.UserID).
		Update("role", member.Role).Error
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	return r.db.WithContext(ctx).Where("org_id = ? AND user_id = ?", orgID, userID).
		Delete(&models.OrganizationMember{}).Error
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(ctx context.Context, orgID, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.WithContext(ctx).Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all memberships of a user
func (r *GormOrganizationRepository) ListMembersByUserID(ctx context.Context, userID string) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, org_id").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(ctx context.Context, orgID string) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at, user_id").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
