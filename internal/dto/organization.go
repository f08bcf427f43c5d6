package dto

import (
	"time"

	"github.com/yukikurage/organization-directory-api/internal/models"
	"github.com/yukikurage/organization-directory-api/internal/services"
)

// OrganizationCreate is the request body for creating an organization
type OrganizationCreate struct {
	Name string `json:"name" binding:"required"`
}

// MembershipCreate is the request body for adding a member
type MembershipCreate struct {
	UserID string                  `json:"user_id" binding:"required"`
	Role   models.OrganizationRole `json:"role" binding:"required,oneof=admin staff"`
}

// MembershipUpdate is the request body for changing a member's role
type MembershipUpdate struct {
	Role models.OrganizationRole `json:"role" binding:"required,oneof=admin staff"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationViewDTO represents an organization with the caller's role
type OrganizationViewDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// OrganizationMemberDTO represents a membership in API responses
type OrganizationMemberDTO struct {
	OrgID     string                  `json:"org_id"`
	UserID    string                  `json:"user_id"`
	Role      models.OrganizationRole `json:"role"`
	InvitedBy string                  `json:"invited_by"`
	CreatedAt time.Time               `json:"created_at"`
}

// OrganizationWithMembersDTO represents an organization with its member list
type OrganizationWithMembersDTO struct {
	OrganizationDTO
	Members []OrganizationMemberDTO `json:"members"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		OrgID:     org.OrgID,
		Name:      org.Name,
		CreatedBy: org.CreatedBy,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		OrgID:     member.OrgID,
		UserID:    member.UserID,
		Role:      member.Role,
		InvitedBy: member.InvitedBy,
		CreatedAt: member.CreatedAt,
	}
}

// ToOrganizationMemberDTOs converts a member list, never returning nil
func ToOrganizationMemberDTOs(members []models.OrganizationMember) []OrganizationMemberDTO {
	memberDTOs := make([]OrganizationMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToOrganizationMemberDTO(member)
	}
	return memberDTOs
}

// ToOrganizationWithMembersDTO converts an organization with members to DTO
func ToOrganizationWithMembersDTO(org services.OrganizationWithMembers) OrganizationWithMembersDTO {
	return OrganizationWithMembersDTO{
		OrganizationDTO: ToOrganizationDTO(org.Organization),
		Members:         ToOrganizationMemberDTOs(org.Members),
	}
}

// ToOrganizationViewDTOs converts the caller's organizations with roles
func ToOrganizationViewDTOs(orgs []services.OrganizationWithRole) []OrganizationViewDTO {
	views := make([]OrganizationViewDTO, len(orgs))
	for i, o := range orgs {
		views[i] = OrganizationViewDTO{
			OrganizationDTO: ToOrganizationDTO(o.Organization),
			Role:            o.Role,
		}
	}
	return views
}
