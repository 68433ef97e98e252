// Package main is the entry point for the packaging advice service.
//
// @title           Packaging Advice API
// @version         1.0.0
// @description     API for recommending the cheapest set of shipping boxes for a warehouse order.
//
//	Order lines are classified into shipping units, matched against container compartment
//	rules and ranked by published box and transport costs.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/pack-advice
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 HS256 token signed by the cost table publisher, sent as "Bearer <token>".
//
// @tag.name        Advice
// @tag.description Packaging advice calculation, tags and feedback
//
// @tag.name        Costs
// @tag.description Published box cost table
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/guttosm/pack-advice/docs" // swagger docs

	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	a, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	server := app.NewServer(a.Router, cfg.Server.Port, cfg.Server.RequestTimeout)
	runErr := server.Run(ctx)
	stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := a.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
	}
	cancel()

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
