package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/organization-directory-api/internal/models"
	"github.com/yukikurage/organization-directory-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrOrganizationNameTaken      = errors.New("organization name already used")
	ErrNotOrganizationMember      = errors.New("not a member of this organization")
	ErrAdminRequired              = errors.New("admin access required")
	ErrAlreadyOrganizationMember  = errors.New("user already in organization")
	ErrOrganizationMemberNotFound = errors.New("member not found")
)

// Operation names reported to the OperationRecorder.
const (
	OpCreateOrganization = "create_organization"
	OpListOrganizations  = "list_organizations"
	OpGetOrganization    = "get_organization"
	OpAddMember          = "add_member"
	OpUpdateMember       = "update_member"
	OpRemoveMember       = "remove_member"
	OpDeleteOrganization = "delete_organization"
)

// OperationRecorder receives the outcome of every service operation.
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string) {}

// OrganizationWithMembers is an organization together with its full member list.
type OrganizationWithMembers struct {
	Organization models.Organization
	Members      []models.OrganizationMember
}

// OrganizationWithRole is an organization annotated with one user's role in it.
type OrganizationWithRole struct {
	Organization models.Organization
	Role         models.OrganizationRole
}

// OrganizationService provides business logic for organization operations.
// Every method runs in exactly one store transaction.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	recorder OperationRecorder
	newID    func() string
}

// NewOrganizationService creates a new OrganizationService. recorder may be nil.
func NewOrganizationService(orgRepo repository.OrganizationRepository, recorder OperationRecorder) *OrganizationService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &OrganizationService{
		orgRepo:  orgRepo,
		recorder: recorder,
		newID:    func() string { return uuid.NewString() },
	}
}

// CreateOrganization creates a new organization with the creator as its
// founding admin.
func (s *OrganizationService) CreateOrganization(ctx context.Context, name, creatorID string) (result *OrganizationWithMembers, err error) {
	defer s.observe(OpCreateOrganization, &err)

	org := &models.Organization{
		OrgID:     s.newID(),
		Name:      name,
		CreatedBy: creatorID,
	}
	founder := &models.OrganizationMember{
		OrgID:     org.OrgID,
		UserID:    creatorID,
		Role:      models.RoleAdmin,
		InvitedBy: creatorID,
	}

	err = s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if _, err := repo.FindByName(ctx, name); err == nil {
			return ErrOrganizationNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check organization name: %w", err)
		}

		if err := repo.Create(ctx, org); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrOrganizationNameTaken
			}
			return fmt.Errorf("failed to create organization: %w", err)
		}

		if err := repo.AddMember(ctx, founder); err != nil {
			return fmt.Errorf("failed to add founding admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &OrganizationWithMembers{
		Organization: *org,
		Members:      []models.OrganizationMember{*founder},
	}, nil
}

// ListOrganizations returns the organizations userID belongs to, each with
// the user's role.
func (s *OrganizationService) ListOrganizations(ctx context.Context, userID string) (result []OrganizationWithRole, err error) {
	defer s.observe(OpListOrganizations, &err)

	result = []OrganizationWithRole{}
	err = s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		memberships, err := repo.ListMembersByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list memberships: %w", err)
		}
		if len(memberships) == 0 {
			return nil
		}

		orgIDs := make([]string, len(memberships))
		for i, m := range memberships {
			orgIDs[i] = m.OrgID
		}

		orgs, err := repo.FindByIDs(ctx, orgIDs)
		if err != nil {
			return fmt.Errorf("failed to list organizations: %w", err)
		}
		orgMap := make(map[string]models.Organization, len(orgs))
		for _, org := range orgs {
			orgMap[org.OrgID] = org
		}

		for _, m := range memberships {
			org, ok := orgMap[m.OrgID]
			if !ok {
				continue
			}
			result = append(result, OrganizationWithRole{Organization: org, Role: m.Role})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrganization returns an organization and all of its members. Membership
// is checked before existence, so non-members never learn whether orgID
// exists.
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID, userID string) (result *OrganizationWithMembers, err error) {
	defer s.observe(OpGetOrganization, &err)

	err = s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if _, err := findMembership(ctx, repo, orgID, userID); err != nil {
			if errors.Is(err, ErrOrganizationMemberNotFound) {
				return ErrNotOrganizationMember
			}
			return err
		}

		org, err := repo.FindByID(ctx, orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return fmt.Errorf("failed to find organization: %w", err)
		}

		members, err := repo.ListMembers(ctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to list organization members: %w", err)
		}

		result = &OrganizationWithMembers{Organization: *org, Members: members}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddMember adds targetID to the organization with the given role. The role
// is stored as supplied.
func (s *OrganizationService) AddMember(ctx context.Context, orgID, targetID string, role models.OrganizationRole, actorID string) (result *models.OrganizationMember, err error) {
	defer s.observe(OpAddMember, &err)

	err = s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if err := requireAdmin(ctx, repo, orgID, actorID); err != nil {
			return err
		}

		if _, err := findMembership(ctx, repo, orgID, targetID); err == nil {
			return ErrAlreadyOrganizationMember
		} else if !errors.Is(err, ErrOrganizationMemberNotFound) {
			return err
		}

		member := &models.OrganizationMember{
			OrgID:     orgID,
			UserID:    targetID,
			Role:      role,
			InvitedBy: actorID,
		}
		// The composite key is the real guard: a concurrent insert that slipped
		// past the check above is rejected here.
		if err := repo.AddMember(ctx, member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOrganizationMember
			}
			return fmt.Errorf("failed to add member: %w", err)
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateMember changes the role of an existing member. Nothing prevents an
// admin from demoting the last admin, including themselves.
func (s *OrganizationService) UpdateMember(ctx context.Context, orgID, targetID string, role models.OrganizationRole, actorID string) (result *models.OrganizationMember, err error) {
	defer s.observe(OpUpdateMember, &err)

	err = s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if err := requireAdmin(ctx, repo, orgID, actorID); err != nil {
			return err
		}

		member, err := findMembership(ctx, repo, orgID, targetID)
		if err != nil {
			return err
		}

		member.Role = role
		if err := repo.UpdateMemberRole(ctx, member); err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveMember deletes a membership.
func (s *OrganizationService) RemoveMember(ctx context.Context, orgID, targetID, actorID string) (err error) {
	defer s.observe(OpRemoveMember, &err)

	return s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if err := requireAdmin(ctx, repo, orgID, actorID); err != nil {
			return err
		}

		if _, err := findMembership(ctx, repo, orgID, targetID); err != nil {
			return err
		}

		if err := repo.RemoveMember(ctx, orgID, targetID); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
}

// DeleteOrganization removes an organization and all of its memberships.
// Unlike GetOrganization, existence is checked before authorization.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, orgID, actorID string) (err error) {
	defer s.observe(OpDeleteOrganization, &err)

	return s.orgRepo.Transaction(ctx, func(repo repository.OrganizationRepository) error {
		if _, err := repo.FindByID(ctx, orgID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return fmt.Errorf("failed to find organization: %w", err)
		}

		if err := requireAdmin(ctx, repo, orgID, actorID); err != nil {
			return err
		}

		if err := repo.Delete(ctx, orgID); err != nil {
			return fmt.Errorf("failed to delete organization: %w", err)
		}
		return nil
	})
}

func findMembership(ctx context.Context, repo repository.OrganizationRepository, orgID, userID string) (*models.OrganizationMember, error) {
	member, err := repo.FindMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationMemberNotFound
		}
		return nil, fmt.Errorf("failed to find organization member: %w", err)
	}
	return member, nil
}

func requireAdmin(ctx context.Context, repo repository.OrganizationRepository, orgID, userID string) error {
	member, err := findMembership(ctx, repo, orgID, userID)
	if err != nil {
		if errors.Is(err, ErrOrganizationMemberNotFound) {
			return ErrAdminRequired
		}
		return err
	}
	if !member.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func (s *OrganizationService) observe(operation string, errp *error) {
	s.recorder.RecordOperation(operation, Outcome(*errp))
}

// Outcome classifies an operation error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotOrganizationMember), errors.Is(err, ErrAdminRequired):
		return "forbidden"
	case errors.Is(err, ErrOrganizationNotFound), errors.Is(err, ErrOrganizationMemberNotFound):
		return "not_found"
	case errors.Is(err, ErrOrganizationNameTaken), errors.Is(err, ErrAlreadyOrganizationMember):
		return "conflict"
	default:
		return "error"
	}
}
