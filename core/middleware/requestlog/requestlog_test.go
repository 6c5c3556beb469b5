package requestlog

import (
	"net/http/httptest"
	"testing"

	"event-sync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	app := fiber.New()
	app.Use(rayid.New())
	app.Use(New(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(rayid.Header, "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "Request completed", entries[0].Message)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["ray_id"])
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])

	assert.Equal(t, "Request error", entries[1].Message)
	assert.Equal(t, "/fail", entries[1].ContextMap()["path"])
}
