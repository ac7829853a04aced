package main

import (
	"go.uber.org/zap"

	"github.com/lifeinnovator/InsightFlow/internal/config"
	"github.com/lifeinnovator/InsightFlow/internal/database"
	logger "github.com/lifeinnovator/InsightFlow/internal/logging"
	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/router"
)

func main() {
	projectRoot := "."

	// Initialize Logger
	log, err := logger.Init(projectRoot)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(projectRoot, log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the question template library at startup
	templates, err := models.LoadTemplates("config/templates.yaml")
	if err != nil {
		log.Fatal("Failed to load question templates", zap.Error(err))
	}

	// Setup router, passing the logger to it
	r := router.Setup(log, templates)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
