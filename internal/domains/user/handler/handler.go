package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/domains/user/model"
	"book-catalog-api/internal/domains/user/service"
	"book-catalog-api/internal/shared/middleware"
	"book-catalog-api/internal/shared/response"
	"book-catalog-api/internal/shared/validation"
)

// ========================================
// ACCOUNT HANDLER
// ========================================

type UserHandler struct {
	userService service.ServiceInterface
}

func NewUserHandler(userService service.ServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func failure(err error) response.Result {
	status := model.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Account request failed")
		return response.InternalError(err)
	}
	return response.Error(status, validation.Messages(err)...)
}

// Register creates an account and returns a token
// POST /api/accounts/register
func (h *UserHandler) Register(c *gin.Context) response.Result {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	auth, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		return failure(err)
	}
	return response.OK(auth)
}

// Login exchanges credentials for a token
// POST /api/accounts/login
func (h *UserHandler) Login(c *gin.Context) response.Result {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	auth, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		return failure(err)
	}
	return response.OK(auth)
}

// RenewToken re-issues the caller's token
// GET /api/accounts/RenewToken
func (h *UserHandler) RenewToken(c *gin.Context) response.Result {
	userID, ok := middleware.UserID(c)
	if !ok {
		return failure(model.ErrUnauthorized)
	}

	auth, err := h.userService.RenewToken(c.Request.Context(), userID)
	if err != nil {
		return failure(err)
	}
	return response.OK(auth)
}

// MakeAdmin grants the admin flag
// POST /api/accounts/MakeAdmin
func (h *UserHandler) MakeAdmin(c *gin.Context) response.Result {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	if err := h.userService.MakeAdmin(c.Request.Context(), req); err != nil {
		return failure(err)
	}
	return response.NoContent()
}

// DeleteAdmin clears the admin flag
// POST /api/accounts/DeleteAdmin
func (h *UserHandler) DeleteAdmin(c *gin.Context) response.Result {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}

	if err := h.userService.RemoveAdmin(c.Request.Context(), req); err != nil {
		return failure(err)
	}
	return response.NoContent()
}
