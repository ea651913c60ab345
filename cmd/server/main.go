// Entry point for the tournament API server. Wires configuration, database,
// the ranking engines, the websocket hub and the HTTP routes together, then
// listens.
package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/fergarri/golf-tournament-app/internal/config"
	"github.com/fergarri/golf-tournament-app/internal/database"
	"github.com/fergarri/golf-tournament-app/internal/handicap"
	"github.com/fergarri/golf-tournament-app/internal/handlers"
	"github.com/fergarri/golf-tournament-app/internal/logging"
	"github.com/fergarri/golf-tournament-app/internal/middleware"
	"github.com/fergarri/golf-tournament-app/internal/scorecards"
	"github.com/fergarri/golf-tournament-app/internal/scoring"
	"github.com/fergarri/golf-tournament-app/internal/stages"
	"github.com/fergarri/golf-tournament-app/internal/storage"
	"github.com/fergarri/golf-tournament-app/internal/websocket"
)

func main() {
	cfg := config.Load()
	logging.Bootstrap(cfg.Env)
	log := logging.Log

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	hub := websocket.NewHub()
	go hub.Run()

	// The engines compose bottom-up: the stage engine recomputes each member
	// tournament through the Frutales engine, and the playoff engine
	// recomputes each stage through the stage engine.
	store := storage.New(db)
	leaderboard := scoring.NewLeaderboardEngine(store, log)
	frutales := scoring.NewFrutalesEngine(store, log)
	stageEngine := scoring.NewStageEngine(store, log, frutales, leaderboard)
	playoff := scoring.NewPlayoffEngine(store, log, stageEngine)

	handicapSvc := handicap.NewService(db)
	scorecardSvc := scorecards.NewService(db, log, handicapSvc)
	stageSvc := stages.NewService(db, log)

	app := fiber.New(fiber.Config{
		AppName: "Golf Tournament API",
	})
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", handlers.HealthCheck)

	ws := app.Group("/ws", handlers.WebsocketUpgrade())
	ws.Get("/tournaments/:id", handlers.TournamentSocket(hub))

	api := app.Group("/api/v1", middleware.Auth(cfg, db))
	admin := middleware.RequireRole("admin")

	// Tournament scoring
	api.Get("/tournaments/:id/leaderboard", handlers.GetLeaderboard(leaderboard))
	api.Put("/tournaments/:id/payments", admin, handlers.UpdatePayments(leaderboard, hub))
	api.Get("/tournaments/:id/frutales", handlers.GetFrutales(frutales))
	api.Post("/tournaments/:id/frutales/calculate", admin, handlers.CalculateFrutales(frutales, hub))
	api.Post("/tournaments/:id/finalize", admin, handlers.FinalizeTournament(scorecardSvc, hub))

	// Scorecards
	api.Get("/tournaments/:tid/players/:pid/scorecard", handlers.GetOrCreateScorecard(scorecardSvc))
	api.Put("/scorecards/:id/scores", handlers.UpdateScore(scorecardSvc, hub))
	api.Put("/scorecards/:id", handlers.UpdateScores(scorecardSvc, hub))
	api.Post("/scorecards/:id/marker", handlers.AssignMarker(scorecardSvc))
	api.Post("/scorecards/:id/deliver", handlers.DeliverScorecard(scorecardSvc, hub))
	api.Post("/scorecards/:id/cancel", admin, handlers.CancelScorecard(scorecardSvc, hub))
	api.Post("/scorecards/:id/disqualify", admin, handlers.DisqualifyScorecard(scorecardSvc, hub))
	api.Post("/scorecards/:id/reinstate", admin, handlers.ReinstateScorecard(scorecardSvc, hub))

	// Season stages and playoff
	api.Get("/seasons/:id/stages", handlers.ListStages(stageSvc))
	api.Post("/seasons/:id/stages", admin, handlers.CreateStage(stageSvc))
	api.Put("/seasons/:id/stages/:stageId", admin, handlers.UpdateStage(stageSvc))
	api.Get("/seasons/:id/stages/:stageId/board", handlers.GetStageBoard(stageEngine))
	api.Post("/seasons/:id/stages/:stageId/calculate", admin, handlers.CalculateStage(stageEngine))
	api.Get("/seasons/:id/playoff", handlers.GetPlayoff(playoff))
	api.Post("/seasons/:id/playoff/calculate", admin, handlers.CalculatePlayoff(playoff))

	log.WithField("port", cfg.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
