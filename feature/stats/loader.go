package stats

import (
	"event-sync/core/events"
	"event-sync/core/observer"
	"event-sync/core/propagation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new stats feature.
func NewFeature(bus *events.Bus, sync *propagation.Synchronizer, obs *observer.Observer, logger *zap.Logger) *Feature {
	svc := NewService(bus, sync, obs, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "stats"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
