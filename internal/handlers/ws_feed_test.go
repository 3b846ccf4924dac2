package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taplive-app/taplive_be/internal/handlers"
	"github.com/taplive-app/taplive_be/internal/middleware"
	"github.com/taplive-app/taplive_be/internal/realtime"
	"github.com/taplive-app/taplive_be/internal/utils"
)

const feedSecret = "feed-test-secret"

func newFeedApp() *fiber.App {
	app := fiber.New()
	feedH := handlers.NewOrderFeedHandler(realtime.NewHub())
	app.Get("/ws/orders",
		middleware.JWTFromCookie(feedSecret),
		middleware.AttachJWTLocals(),
		websocket.New(feedH.WebSocketHandler),
	)
	return app
}

func TestOrderFeed_RejectsAnonymous(t *testing.T) {
	app := newFeedApp()

	req := httptest.NewRequest(http.MethodGet, "/ws/orders", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrderFeed_SessionReachesUpgrade(t *testing.T) {
	app := newFeedApp()

	token, err := utils.SignSession(feedSecret, uuid.New().String(), "customer", 60)
	require.NoError(t, err)

	// a plain GET with a valid session passes auth and stops at the
	// websocket upgrade check
	req := httptest.NewRequest(http.MethodGet, "/ws/orders", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
