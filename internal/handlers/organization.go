package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/organization-directory-api/internal/dto"
	apierrors "github.com/yukikurage/organization-directory-api/internal/errors"
	"github.com/yukikurage/organization-directory-api/internal/middleware"
	"github.com/yukikurage/organization-directory-api/internal/services"
)

// OrganizationHandler serves the organization and membership endpoints.
type OrganizationHandler struct {
	orgService *services.OrganizationService
	log        logrus.FieldLogger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, log logrus.FieldLogger) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		log:        log,
	}
}

// CreateOrganization creates a new organization with the caller as admin
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.OrganizationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req.Name, userID)
	if err != nil {
		h.respondError(c, err, services.OpCreateOrganization)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationWithMembersDTO(*org))
}

// ListOrganizations returns all organizations the user is a member of
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	orgs, err := h.orgService.ListOrganizations(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, services.OpListOrganizations)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationViewDTOs(orgs))
}

// GetOrganization returns organization details with all members
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := h.loadOrganization(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationWithMembersDTO(*org))
}

// ListMembers returns the member list of an organization
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	org, ok := h.loadOrganization(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationMemberDTOs(org.Members))
}

// AddMember adds a user to the organization (admin only)
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.MembershipCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.AddMember(c.Request.Context(), c.Param("id"), req.UserID, req.Role, userID)
	if err != nil {
		h.respondError(c, err, services.OpAddMember)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationMemberDTO(*member))
}

// UpdateMember changes a member's role (admin only)
func (h *OrganizationHandler) UpdateMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.MembershipUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.UpdateMember(c.Request.Context(), c.Param("id"), c.Param("user_id"), req.Role, userID)
	if err != nil {
		h.respondError(c, err, services.OpUpdateMember)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationMemberDTO(*member))
}

// RemoveMember removes a member from the organization (admin only)
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("user_id"), userID); err != nil {
		h.respondError(c, err, services.OpRemoveMember)
		return
	}

	noContent(c)
}

// DeleteOrganization deletes an organization and its memberships (admin only)
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.orgService.DeleteOrganization(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondError(c, err, services.OpDeleteOrganization)
		return
	}

	noContent(c)
}

func (h *OrganizationHandler) loadOrganization(c *gin.Context) (*services.OrganizationWithMembers, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err, services.OpGetOrganization)
		return nil, false
	}
	return org, true
}

func (h *OrganizationHandler) respondError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrNotOrganizationMember),
		errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrOrganizationMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNameTaken),
		errors.Is(err, services.ErrAlreadyOrganizationMember):
		apierrors.Conflict(c, err.Error())
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"operation": operation,
			"org_id":    c.Param("id"),
		}).Error("organization operation failed")
		apierrors.InternalError(c, "Internal server error")
	}
}

// noContent writes a 204 immediately; gin otherwise defers the header until
// the end of the handler chain.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}
