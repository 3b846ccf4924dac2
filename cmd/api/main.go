package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/taplive-app/taplive_be/internal/config"
	"github.com/taplive-app/taplive_be/internal/db"
	"github.com/taplive-app/taplive_be/internal/handlers"
	"github.com/taplive-app/taplive_be/internal/middleware"
	"github.com/taplive-app/taplive_be/internal/models"
	"github.com/taplive-app/taplive_be/internal/realtime"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()
	go realtime.SubscribeOrderEvents(context.Background(), rdb, hub)

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.ProviderProfile{},
		&models.Order{},
	); err != nil {
		log.Fatal(err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}

	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}

	orderH := handlers.NewOrderHandler(gdb, hub, rdb)
	onboardH := handlers.NewProviderOnboardingHandler(gdb, cfg.JWTSecret, cfg.JWTExpiresMin)
	dashH := handlers.NewDashboardHandler(gdb)
	feedH := handlers.NewOrderFeedHandler(hub)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)

	// orders
	protected.Post("/orders", orderH.Create)
	protected.Get("/orders/mine", orderH.ListMine)
	protected.Get("/orders/open", orderH.ListOpen)
	protected.Get("/orders/:id", orderH.GetOne)
	protected.Post("/orders/:id/accept", orderH.Accept)

	// provider onboarding wizard
	onb := protected.Group("/provider/onboarding")
	onb.Get("/", onboardH.Get)
	onb.Patch("/basic", onboardH.SaveBasic)
	onb.Patch("/languages", onboardH.SaveLanguages)
	onb.Patch("/skills", onboardH.SaveSkills)
	onb.Patch("/equipment", onboardH.SaveEquipment)
	onb.Patch("/pricing", onboardH.SavePricing)
	onb.Post("/activate", onboardH.Activate)

	// dashboards
	protected.Get("/customer/stats", dashH.CustomerStats)
	protected.Get("/provider/stats",
		middleware.RequireRoles(models.RoleProvider),
		dashH.ProviderStats,
	)
	protected.Get("/provider/assignments",
		middleware.RequireRoles(models.RoleProvider),
		dashH.ProviderAssignments,
	)

	// WebSocket order feed; the session cookie identifies the client
	app.Get("/ws/orders",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
		websocket.New(feedH.WebSocketHandler),
	)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
