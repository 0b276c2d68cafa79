package handler

import (
	"errors"
	"log/slog"
	"net/http"

	. "usersphere/internal/adapter/http/helper"
	. "usersphere/internal/adapter/http/validation"
	"usersphere/internal/core/domain"
	"usersphere/internal/core/model/request"
	"usersphere/internal/core/model/response"
	"usersphere/internal/core/port"
	"usersphere/internal/core/util"
	"usersphere/internal/shared"
	"usersphere/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc     port.AuthService
	jwt     *auth.JWT
	metrics *shared.AppMetrics
}

func NewAuthHandler(svc port.AuthService, jwtSvc *auth.JWT, metrics *shared.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		jwt:     jwtSvc,
		metrics: metrics,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.RegisterRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.recordAuth(c, "register", "conflict")
			SendConflictError(c, "email", "Email is already registered")
			return
		}

		slog.Error("Error registering user", "error", err)
		a.recordAuth(c, "register", "error")
		SendInternalError(c, "Could not register user")
		return
	}

	a.recordAuth(c, "register", "success")

	SendSuccess(c, http.StatusCreated, response.NewUserResponse(*user))
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, &params)

	if err != nil {
		slog.Error("AuthByEmailAndPassword", "after_authenticate", err)
		a.recordAuth(c, "login", "failure")
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	token, err := a.jwt.CreateToken(user.ID, user.UUID.String())

	if err != nil {
		a.recordAuth(c, "login", "error")
		SendInternalError(c, "Failed to generate access token")
		return
	}

	a.recordAuth(c, "login", "success")

	c.JSON(http.StatusOK, response.TokenResponse{Token: token})
}

func (a *AuthHandler) recordAuth(c *gin.Context, operation, outcome string) {
	if a.metrics != nil {
		a.metrics.RecordAuthOperation(c.Request.Context(), operation, outcome)
	}
}
