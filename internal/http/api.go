package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realm-presence/internal/auth"
	"realm-presence/internal/domain"
	"realm-presence/internal/lifecycle"
	"realm-presence/internal/repository"
	"realm-presence/internal/service"
)

// Handler wires HTTP routes to the presence tracker and lifecycle dispatcher.
type Handler struct {
	tracker    service.PresenceTracker
	dispatcher lifecycle.Dispatcher
	verifier   *auth.Verifier
	logger     *logrus.Logger
}

func NewHandler(tracker service.PresenceTracker, dispatcher lifecycle.Dispatcher, verifier *auth.Verifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		tracker:    tracker,
		dispatcher: dispatcher,
		verifier:   verifier,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		signals := api.Group("/presence", h.session(false))
		signals.POST("/visibility", h.visibility)
		signals.POST("/unload", h.unload)

		guarded := api.Group("", h.session(true))
		guarded.PUT("/presence", h.setPresence)
		guarded.GET("/players", h.listPlayers)
		guarded.GET("/players/:userId", h.getPlayer)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type visibilityRequest struct {
	State string `json:"state" binding:"required"`
}

type setPresenceRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// visibility handles document visibilitychange. The update runs in the
// background; the response only says whether it was queued.
func (h *Handler) visibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted := h.dispatcher.Visibility(sessionUsername(c), req.State)
	h.acknowledge(c, accepted)
}

// unload handles pagehide/beforeunload beacons; the body is ignored.
func (h *Handler) unload(c *gin.Context) {
	accepted := h.dispatcher.Unload(sessionUsername(c))
	h.acknowledge(c, accepted)
}

func (h *Handler) acknowledge(c *gin.Context, accepted bool) {
	if !accepted {
		c.JSON(http.StatusServiceUnavailable, gin.H{"accepted": false})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

func (h *Handler) setPresence(c *gin.Context) {
	var req setPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.tracker.SetActiveFlag(c.Request.Context(), sessionUsername(c), *req.IsActive)
	switch out.Kind {
	case service.OutcomeUpdated:
		c.JSON(http.StatusOK, presenceToResponse(*out.Presence))
	case service.OutcomeMissingSession:
		c.JSON(http.StatusUnauthorized, outcomeBody(out))
	case service.OutcomeNotFound:
		c.JSON(http.StatusNotFound, outcomeBody(out))
	default:
		c.JSON(http.StatusBadGateway, outcomeBody(out))
	}
}

func (h *Handler) listPlayers(c *gin.Context) {
	list, err := h.tracker.ListPresence(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]PresenceResponse, len(list))
	for i := range list {
		resp[i] = presenceToResponse(list[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPlayer(c *gin.Context) {
	p, err := h.tracker.GetPresence(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "presence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, presenceToResponse(*p))
}

type PresenceResponse struct {
	UserID     string `json:"userId"`
	IsActive   bool   `json:"isActive"`
	LastActive string `json:"lastActive"`
	UpdatedAt  string `json:"updatedAt"`
}

func presenceToResponse(p domain.Presence) PresenceResponse {
	return PresenceResponse{
		UserID:     p.UserID,
		IsActive:   p.IsActive,
		LastActive: p.LastActive,
		UpdatedAt:  p.UpdatedAt,
	}
}

func outcomeBody(out service.Outcome) gin.H {
	body := gin.H{"outcome": out.Kind.String()}
	if out.Err != nil {
		body["error"] = out.Err.Error()
	}
	return body
}
