package stats

import (
	"errors"
	"strconv"

	"event-sync/core/events"
	"event-sync/core/logger"
	"event-sync/core/observer"
	"event-sync/core/propagation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for stats.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = observer.Report{}
	return &Handler{service: service}
}

// RegisterRoutes registers the stats routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/stats", h.HandleReport)
	app.Get("/stats/:name", h.HandleResult)
	app.Post("/events/:name", h.HandleEmit)
	app.Get("/sync/:name", h.HandleState)
	app.Post("/sync/:name/redrive", h.HandleRedrive)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownName):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidCount):
		return fiber.StatusBadRequest
	case errors.Is(err, propagation.ErrClosed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleReport returns the counts of every name.
// @Summary Get Counts
// @Description Returns emitted, local and remote counts of every event name.
// @Tags stats
// @Produce json
// @Success 200 {object} observer.Report "Counts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stats [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	report, err := h.service.Report(c.Context())
	if err != nil {
		return h.fail(c, "Failed to collect counts", err)
	}
	return c.JSON(report)
}

// HandleResult returns the counts of one name.
// @Summary Get Counts Of One Name
// @Description Returns emitted, local and remote counts of one event name.
// @Tags stats
// @Produce json
// @Param name path string true "Event name"
// @Success 200 {object} observer.Result "Counts"
// @Failure 404 {object} map[string]string "Unknown name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stats/{name} [get]
func (h *Handler) HandleResult(c *fiber.Ctx) error {
	res, err := h.service.Result(c.Context(), events.Name(c.Params("name")))
	if err != nil {
		return h.fail(c, "Failed to collect counts", err)
	}
	return c.JSON(res)
}

// HandleEmit emits occurrences of a name.
// @Summary Emit Occurrences
// @Description Emits occurrences of an event name through the bus. The local count updates immediately; the remote count follows.
// @Tags events
// @Produce json
// @Param name path string true "Event name"
// @Param count query int false "Number of occurrences (default 1)"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Failure 400 {object} map[string]string "Invalid count"
// @Failure 404 {object} map[string]string "Unknown name"
// @Failure 503 {object} map[string]string "Synchronizer stopped"
// @Router /events/{name} [post]
func (h *Handler) HandleEmit(c *fiber.Ctx) error {
	name := events.Name(c.Params("name"))

	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "count must be an integer"})
		}
		count = n
	}

	local, err := h.service.Emit(name, count)
	if err != nil {
		if errors.Is(err, propagation.ErrClosed) {
			logger.WithRayID(h.service.logger, c).Warn("Occurrences refused", zap.String("event", string(name)), zap.Error(err))
		}
		return h.fail(c, "Failed to emit", err)
	}

	logger.WithRayID(h.service.logger, c).Debug("Occurrences emitted",
		zap.String("event", string(name)),
		zap.Int("count", count),
		zap.Int64("local", local))

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"name":    name,
		"emitted": count,
		"local":   local,
	})
}

// HandleState returns the propagation state of a name.
// @Summary Get Propagation State
// @Description Returns backlog, in-flight and parked deltas of one event name.
// @Tags sync
// @Produce json
// @Param name path string true "Event name"
// @Success 200 {object} propagation.State "State"
// @Failure 404 {object} map[string]string "Unknown name"
// @Router /sync/{name} [get]
func (h *Handler) HandleState(c *fiber.Ctx) error {
	state, err := h.service.State(events.Name(c.Params("name")))
	if err != nil {
		return h.fail(c, "Failed to read state", err)
	}
	return c.JSON(state)
}

// HandleRedrive requeues parked deltas of a name.
// @Summary Redrive Parked Deltas
// @Description Moves deltas parked after exhausting their retries back to the front of the backlog.
// @Tags sync
// @Produce json
// @Param name path string true "Event name"
// @Success 200 {object} map[string]interface{} "Redriven delta"
// @Failure 404 {object} map[string]string "Unknown name"
// @Router /sync/{name}/redrive [post]
func (h *Handler) HandleRedrive(c *fiber.Ctx) error {
	name := events.Name(c.Params("name"))
	delta, err := h.service.Redrive(name)
	if err != nil {
		return h.fail(c, "Failed to redrive", err)
	}

	if delta > 0 {
		logger.WithRayID(h.service.logger, c).Info("Parked deltas redriven",
			zap.String("event", string(name)),
			zap.Int64("delta", delta))
	}

	return c.JSON(fiber.Map{
		"name":     name,
		"redriven": delta,
	})
}
