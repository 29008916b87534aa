package integrity

import (
	"errors"

	"spellbook/core/logger"
	"spellbook/core/reconcile"
	"spellbook/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CounterResponse wraps a counter report with the key of its exported copy.
type CounterResponse struct {
	*checks.CounterReport
	ExportKey string `json:"export_key,omitempty"`
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/counters", h.HandleCounterCheck)
	group.Get("/reports", h.HandleListReports)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Checks that roles, spells and role_spells match the expected models (columns, types).
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleCounterCheck checks num_spells against live association counts.
// @Summary Check Spell Counters
// @Description Compares roles.num_spells with COUNT(*) of role_spells. Optionally repairs drifted roles and exports the report.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Repair drifted roles"
// @Param export query boolean false "Upload the report to object storage"
// @Success 200 {object} CounterResponse "Counter Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/counters [get]
func (h *Handler) HandleCounterCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	export := c.Query("export") == "true"

	opts := reconcile.ReconcileOptions{DoRepair: fix, Confirmed: fix}
	report, err := h.service.CheckCounters(c.Context(), opts)
	if err != nil {
		l.Error("Counter check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if report.Summary.Drifted > 0 {
		l.Warn("Spell counter drift detected", zap.Int("drifted", report.Summary.Drifted))
	}

	resp := CounterResponse{CounterReport: report}
	if export {
		key, err := h.service.ExportReport(c.Context(), report)
		if err != nil {
			l.Error("Report export failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to export report",
				"details": err.Error(),
			})
		}
		resp.ExportKey = key
	}

	return c.JSON(resp)
}

// HandleListReports lists exported counter reports.
// @Summary List Reports
// @Description Lists the counter reports exported to object storage, newest first.
// @Tags integrity
// @Produce json
// @Success 200 {array} ReportObject "Reports"
// @Failure 503 {object} map[string]string "Storage Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.Context())
	if errors.Is(err, ErrStorageDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing reports failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reports)
}
