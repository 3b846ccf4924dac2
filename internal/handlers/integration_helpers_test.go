package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taplive-app/taplive_be/internal/handlers"
	"github.com/taplive-app/taplive_be/internal/models"
	"github.com/taplive-app/taplive_be/internal/realtime"
)

const testJWTSecret = "integration-secret"

// startPostgres spins up a disposable Postgres and returns a migrated GORM handle.
func startPostgres(t require.TestingT) (*postgres.PostgresContainer, *gorm.DB) {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("taplive_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ProviderProfile{},
		&models.Order{},
	))

	return container, db
}

// newAPITestApp wires the real handlers behind a header-based test auth so
// each request can impersonate a different user.
func newAPITestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	testAuth := func(c *fiber.Ctx) error {
		uid := c.Get("X-Test-User")
		if uid == "" {
			return fiber.ErrUnauthorized
		}
		role := c.Get("X-Test-Role")
		if role == "" {
			role = "customer"
		}
		c.Locals("userId", uid)
		c.Locals("role", role)
		return c.Next()
	}

	hub := realtime.NewHub()
	go hub.Run()
	// events published to an absent Redis are logged and dropped; the HTTP
	// contract under test does not depend on them
	rdb := realtime.NewRedis("127.0.0.1:6379", "")

	orderH := handlers.NewOrderHandler(db, hub, rdb)
	onboardH := handlers.NewProviderOnboardingHandler(db, testJWTSecret, 60)
	dashH := handlers.NewDashboardHandler(db)

	api := app.Group("/api", testAuth)

	api.Post("/orders", orderH.Create)
	api.Get("/orders/mine", orderH.ListMine)
	api.Get("/orders/open", orderH.ListOpen)
	api.Get("/orders/:id", orderH.GetOne)
	api.Post("/orders/:id/accept", orderH.Accept)

	onb := api.Group("/provider/onboarding")
	onb.Get("/", onboardH.Get)
	onb.Patch("/basic", onboardH.SaveBasic)
	onb.Patch("/languages", onboardH.SaveLanguages)
	onb.Patch("/skills", onboardH.SaveSkills)
	onb.Patch("/equipment", onboardH.SaveEquipment)
	onb.Patch("/pricing", onboardH.SavePricing)
	onb.Post("/activate", onboardH.Activate)

	api.Get("/customer/stats", dashH.CustomerStats)
	api.Get("/provider/stats", dashH.ProviderStats)
	api.Get("/provider/assignments", dashH.ProviderAssignments)

	return app
}

func createUser(t require.TestingT, db *gorm.DB, name string) uuid.UUID {
	u := models.User{
		Name:     name,
		Email:    name + "-" + uuid.New().String()[:8] + "@example.com",
		Password: "x",
		Role:     models.RoleCustomer,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

// doAs performs a JSON request on behalf of userID and decodes the envelope.
func doAs(t *testing.T, app *fiber.App, method, path string, userID uuid.UUID, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID.String())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
