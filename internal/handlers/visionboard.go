package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"weddingverse/internal/models"
	"weddingverse/internal/services"
)

// VisionBoardHandler handles vision board HTTP requests
type VisionBoardHandler struct {
	boardService *services.VisionBoardService
}

// NewVisionBoardHandler creates a new VisionBoardHandler
func NewVisionBoardHandler(boardService *services.VisionBoardService) *VisionBoardHandler {
	return &VisionBoardHandler{boardService: boardService}
}

// Create composes a vision board from the submitted preference set
// POST /api/v1/vision-board
func (h *VisionBoardHandler) Create(c *fiber.Ctx) error {
	var req models.VisionBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	board, err := h.boardService.Compose(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(board)
}

// GetByReference returns the stored board(s) for a reference id
// GET /api/v1/vision-board/:reference_id
func (h *VisionBoardHandler) GetByReference(c *fiber.Ctx) error {
	referenceID := c.Params("reference_id")

	boards, err := h.boardService.GetByReference(c.Context(), referenceID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(boards)
}

// respondError maps service error kinds onto HTTP statuses. Internal detail
// is logged server-side only; the client gets a generic message for 5xx.
func respondError(c *fiber.Ctx, err error) error {
	switch services.KindOf(err) {
	case services.ErrorKindClientInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case services.ErrorKindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case services.ErrorKindUpstream:
		slog.Error("generative service failure", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to generate vision board narrative",
		})
	default:
		slog.Error("internal error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error generating vision board",
		})
	}
}
