package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invitedomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/invite/domain"
)

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

func (s *Server) CreateInvite(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	invite, err := s.inviteSvc.Create(c.Request.Context(), userID, strings.TrimSpace(c.Param("slug")), invitedomain.CreateInviteRequest{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invite_id": invite.ID})
}

func (s *Server) ListOrganizationInvites(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invites, err := s.inviteSvc.ListByOrganization(c.Request.Context(), strings.TrimSpace(c.Param("slug")), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": nonNil(invites)})
}

func (s *Server) RevokeInvite(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	inviteID, ok := parseID(c.Param("inviteId"))
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	if err := s.inviteSvc.Revoke(c.Request.Context(), inviteID, strings.TrimSpace(c.Param("slug")), userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetInvite(c *gin.Context) {
	inviteID, ok := parseID(c.Param("inviteId"))
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	invite, err := s.inviteSvc.Get(c.Request.Context(), inviteID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

func (s *Server) ListPendingInvites(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invites, err := s.inviteSvc.ListPending(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": nonNil(invites)})
}

func (s *Server) AcceptInvite(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	inviteID, ok := parseID(c.Param("inviteId"))
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	if err := s.inviteSvc.Accept(c.Request.Context(), userID, inviteID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) RejectInvite(c *gin.Context) {
	userID, ok := s.userIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	inviteID, ok := parseID(c.Param("inviteId"))
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	invite, err := s.inviteSvc.Reject(c.Request.Context(), inviteID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite": invite})
}

func nonNil(items []invitedomain.InviteDetail) []invitedomain.InviteDetail {
	if items == nil {
		return []invitedomain.InviteDetail{}
	}
	return items
}
