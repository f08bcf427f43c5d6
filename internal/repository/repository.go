package repository

import (
	"context"

	"github.com/yukikurage/organization-directory-api/internal/models"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Transaction runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(repo OrganizationRepository) error) error

	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, orgID string) (*models.Organization, error)

	// FindByName finds an organization by its exact name
	FindByName(ctx context.Context, name string) (*models.Organization, error)

	// FindByIDs returns the organizations among orgIDs that exist
	FindByIDs(ctx context.Context, orgIDs []string) ([]models.Organization, error)

	// Delete deletes an organization and its memberships
	Delete(ctx context.Context, orgID string) error

	// AddMember adds a member to an organization
	AddMember(ctx context.Context, member *models.OrganizationMember) error

	// UpdateMemberRole writes only the role column of an existing membership
	UpdateMemberRole(ctx context.Context, member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(ctx context.Context, orgID, userID string) error

	// FindMember finds a specific organization member
	FindMember(ctx context.Context, orgID, userID string) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all memberships held by a user
	ListMembersByUserID(ctx context.Context, userID string) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(ctx context.Context, orgID string) ([]models.OrganizationMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
