package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"weddingverse/internal/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	mongoDB *database.MongoDB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mongoDB *database.MongoDB) *HealthHandler {
	return &HealthHandler{mongoDB: mongoDB}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := "healthy"
	if err := h.mongoDB.Ping(c.Context()); err != nil {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
