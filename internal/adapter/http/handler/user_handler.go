package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	. "usersphere/internal/adapter/http/helper"
	. "usersphere/internal/adapter/http/validation"
	"usersphere/internal/core/domain"
	"usersphere/internal/core/model/request"
	"usersphere/internal/core/model/response"
	"usersphere/internal/core/port"
	"usersphere/internal/core/util"
	"usersphere/internal/shared"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc     port.UserService
	metrics *shared.AppMetrics
}

func NewUserHandler(svc port.UserService, metrics *shared.AppMetrics) *UserHandler {
	return &UserHandler{
		svc:     svc,
		metrics: metrics,
	}
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.svc.GetAllUsers(ctx)

	if err != nil {
		slog.Error("Error listing users", "error", err)
		SendInternalError(c, "Could not list users")
		return
	}

	h.recordOperation(c, "list")

	SendSuccess(c, http.StatusOK, response.NewUserListResponse(users))
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()

	term := strings.TrimSpace(c.Query("q"))

	if term == "" {
		SendBadRequestError(c, "q", "Search term is required")
		return
	}

	users, err := h.svc.SearchUsers(ctx, term)

	if err != nil {
		slog.Error("Error searching users", "error", err, "term", term)
		SendInternalError(c, "Could not search users")
		return
	}

	h.recordOperation(c, "search")

	SendSuccess(c, http.StatusOK, response.NewUserListResponse(users))
}

func (h *UserHandler) GetByUUID(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.svc.GetUserByUUID(ctx, c.Param("uuid"))

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, "User not found")
			return
		}

		slog.Error("Error getting user", "error", err)
		SendInternalError(c, "Could not get user")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.UserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	encrypted, err := util.GenerateEncrypt(params.Password)

	if err != nil {
		slog.Error("Error encrypting password", "error", err)
		SendInternalError(c, "Could not create user")
		return
	}

	user := domain.User{
		Name:              params.Name,
		Email:             params.Email,
		EncryptedPassword: encrypted,
		Age:               params.Age,
	}

	savedUser, err := h.svc.Create(ctx, user)

	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			SendConflictError(c, "email", "Email is already registered")
			return
		}

		slog.Error("Error creating user", "error", err)
		SendInternalError(c, "Could not create user")
		return
	}

	h.recordOperation(c, "create")

	SendSuccess(c, http.StatusCreated, response.NewUserResponse(savedUser))
}

func (h *UserHandler) UpdateByUUID(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.UpdateUserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	changes := domain.UserUpdate{
		Name:  params.Name,
		Email: params.Email,
		Age:   params.Age,
	}

	if params.Password != nil {
		encrypted, err := util.GenerateEncrypt(*params.Password)

		if err != nil {
			slog.Error("Error encrypting password", "error", err)
			SendInternalError(c, "Could not update user")
			return
		}

		changes.EncryptedPassword = &encrypted
	}

	updated, err := h.svc.UpdateByUUID(ctx, c.Param("uuid"), changes)

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			SendNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrEmailTaken):
			SendConflictError(c, "email", "Email is already registered")
		default:
			slog.Error("Error updating user", "error", err)
			SendInternalError(c, "Could not update user")
		}
		return
	}

	h.recordOperation(c, "update")

	SendSuccess(c, http.StatusOK, response.NewUserResponse(updated), "User updated successfully")
}

func (h *UserHandler) DeleteByUUID(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.svc.DeleteByUUID(ctx, c.Param("uuid"))

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, "User not found")
			return
		}

		slog.Error("Error deleting user", "error", err)
		SendInternalError(c, "Could not delete user")
		return
	}

	h.recordOperation(c, "delete")

	SendSuccess(c, http.StatusOK, nil, "User deleted successfully")
}

func (h *UserHandler) RestoreByUUID(c *gin.Context) {
	ctx := c.Request.Context()

	restored, err := h.svc.RestoreByUUID(ctx, c.Param("uuid"))

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			SendNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrUserNotDeleted):
			SendConflictError(c, "uuid", "User is not deleted")
		case errors.Is(err, domain.ErrEmailTaken):
			SendConflictError(c, "email", "Email is already registered")
		default:
			slog.Error("Error restoring user", "error", err)
			SendInternalError(c, "Could not restore user")
		}
		return
	}

	h.recordOperation(c, "restore")

	SendSuccess(c, http.StatusOK, response.NewUserResponse(restored), "User restored successfully")
}

func (h *UserHandler) recordOperation(c *gin.Context, operation string) {
	if h.metrics != nil {
		h.metrics.RecordUserOperation(c.Request.Context(), operation)
	}
}
