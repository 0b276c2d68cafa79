package handler

import (
	"context"
	"net/http"

	"usersphere/internal/core/model/response"
	"usersphere/internal/core/port"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

type HomeHandler struct {
	svc  port.UserService
	ping func(ctx context.Context) error
}

func NewHomeHandler(svc port.UserService, ping func(ctx context.Context) error) *HomeHandler {
	return &HomeHandler{
		svc:  svc,
		ping: ping,
	}
}

func (h *HomeHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, response.InfoResponse{
		Message: "UserSphere API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"health":   "GET /api/health",
			"register": "POST /api/register",
			"login":    "POST /api/login",
			"users":    "GET /api/users",
			"search":   "GET /api/users/search?q=",
		},
	})
}

func (h *HomeHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.HealthResponse{
				Status:   "unhealthy",
				Database: "unreachable",
			})
			return
		}
	}

	count, err := h.svc.CountActiveUsers(ctx)

	if err != nil {
		c.JSON(http.StatusServiceUnavailable, response.HealthResponse{
			Status:   "unhealthy",
			Database: "error",
		})
		return
	}

	c.JSON(http.StatusOK, response.HealthResponse{
		Status:   "ok",
		Database: "connected",
		Users:    count,
	})
}
