package spellcount

import (
	"errors"
	"net/url"

	"spellbook/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for roles and their spell counters.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AssociationRequest is the body of POST /associations.
type AssociationRequest struct {
	Role  string `json:"role"`
	Spell string `json:"spell"`
}

// AssociationResponse is returned after a successful insert.
type AssociationResponse struct {
	ID        int64 `json:"id"`
	RoleID    int64 `json:"role_id"`
	SpellID   int64 `json:"spell_id"`
	NumSpells int64 `json:"num_spells"`
}

// RecomputeResponse is returned by the single-role recompute.
type RecomputeResponse struct {
	Role      string `json:"role"`
	NumSpells int64  `json:"num_spells"`
}

// RegisterRoutes registers the spellcount routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	roles := app.Group("/roles")
	roles.Post("/recompute", h.HandleRecomputeAll)
	roles.Get("/:name", h.HandleGetRole)
	roles.Post("/:name/recompute", h.HandleRecomputeRole)

	app.Post("/associations", h.HandleAddAssociation)
}

// HandleGetRole returns a role and its stored spell counter.
// @Summary Get Role
// @Description Get a role by name, including its cached num_spells.
// @Tags roles
// @Produce json
// @Param name path string true "Role name (e.g. 'Draco Malfoy')"
// @Success 200 {object} models.Role "Role"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /roles/{name} [get]
func (h *Handler) HandleGetRole(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role, err := h.service.GetRole(c.Context(), name)
	if err != nil {
		return h.fail(c, "Role lookup failed", err)
	}
	return c.JSON(role)
}

// HandleRecomputeRole recomputes num_spells for one role.
// @Summary Recompute Role
// @Description Overwrite num_spells of a role with its current association count.
// @Tags roles
// @Produce json
// @Param name path string true "Role name"
// @Success 200 {object} RecomputeResponse "New count"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /roles/{name}/recompute [post]
func (h *Handler) HandleRecomputeRole(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	n, err := h.service.RecomputeRole(c.Context(), name)
	if err != nil {
		return h.fail(c, "Recompute failed", err)
	}
	return c.JSON(RecomputeResponse{Role: name, NumSpells: n})
}

// HandleRecomputeAll recomputes num_spells for every role.
// @Summary Recompute All Roles
// @Description Sweep every role and overwrite num_spells with its association count.
// @Tags roles
// @Produce json
// @Success 200 {object} BulkResult "Sweep result"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /roles/recompute [post]
func (h *Handler) HandleRecomputeAll(c *fiber.Ctx) error {
	result, err := h.service.RecomputeAll(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Bulk recompute failed",
			zap.Int("processed", result.Processed), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     err.Error(),
			"processed": result.Processed,
		})
	}
	return c.JSON(result)
}

// HandleAddAssociation links a role to a spell.
// @Summary Add Association
// @Description Insert a role_spells row; num_spells of the role is maintained in the same transaction.
// @Tags associations
// @Accept json
// @Produce json
// @Param body body AssociationRequest true "Role and spell names"
// @Success 201 {object} AssociationResponse "Inserted association"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Constraint Violation"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /associations [post]
func (h *Handler) HandleAddAssociation(c *fiber.Ctx) error {
	var req AssociationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rs, n, err := h.service.AddAssociation(c.Context(), req.Role, req.Spell)
	if err != nil {
		return h.fail(c, "Association insert failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(AssociationResponse{
		ID:        rs.ID,
		RoleID:    rs.RoleID,
		SpellID:   rs.SpellID,
		NumSpells: n,
	})
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConstraintViolation):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
