package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	organizationdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/organization/domain"
)

type CreateOrganizationRequest struct {
	Name                      string  `json:"name" binding:"required"`
	Domain                    *string `json:"domain"`
	ShouldAttachUsersByDomain bool    `json:"should_attach_users_by_domain"`
}

type TransferOrganizationRequest struct {
	TransferToUserID string `json:"transfer_to_user_id" binding:"required"`
}

type organizationListItem struct {
	ID        snowflake.ID            `json:"id"`
	Name      string                  `json:"name"`
	Slug      string                  `json:"slug"`
	AvatarURL *string                 `json:"avatar_url"`
	OwnerID   snowflake.ID            `json:"owner_id"`
	Role      organizationdomain.Role `json:"role"`
}

type membershipResponse struct {
	ID             snowflake.ID            `json:"id"`
	Role           organizationdomain.Role `json:"role"`
	UserID         snowflake.ID            `json:"user_id"`
	OrganizationID snowflake.ID            `json:"organization_id"`
	OwnerID        snowflake.ID            `json:"owner_id"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), userID, organizationdomain.CreateOrganizationRequest{
		Name:                      req.Name,
		Domain:                    req.Domain,
		ShouldAttachUsersByDomain: req.ShouldAttachUsersByDomain,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org})
}

func (s *Server) ListOrganizations(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.organizationSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]organizationListItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, organizationListItem{
			ID:        item.ID,
			Name:      item.Name,
			Slug:      item.Slug,
			AvatarURL: item.AvatarURL,
			OwnerID:   item.OwnerID,
			Role:      item.Role,
		})
	}

	c.JSON(http.StatusOK, gin.H{"organizations": resp})
}

func (s *Server) GetMembership(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	membership, err := s.organizationSvc.GetMembership(c.Request.Context(), userID, strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"membership": membershipResponse{
		ID:             membership.Member.ID,
		Role:           membership.Member.Role,
		UserID:         membership.Member.UserID,
		OrganizationID: membership.Organization.ID,
		OwnerID:        membership.Organization.OwnerID,
	}})
}

func (s *Server) TransferOrganization(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req TransferOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}
	targetID, ok := parseID(req.TransferToUserID)
	if !ok {
		AbortWithError(c, newValidationError("transfer_to_user_id", "invalid_id", "transfer_to_user_id must be a user id"))
		return
	}

	if err := s.organizationSvc.Transfer(c.Request.Context(), strings.TrimSpace(c.Param("slug")), userID, targetID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
