package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userdomain "github.com/rafaelbertelli/next-saas-rbac-sub000/internal/user/domain"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	user, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	raw, err := s.tokens.Issue(user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenResponse{Token: raw})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	ctx := c.Request.Context()
	user, err := s.userSvc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// A failed auto-attach must not block the sign in.
	if _, err := s.organizationSvc.AttachByDomain(ctx, user.ID, user.Email); err != nil {
		s.log.Warn("attach user by domain failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	raw, err := s.tokens.Issue(user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: raw})
}
