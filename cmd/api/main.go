package main

import (
	"os"

	"github.com/denizt/traincenter/internal/pkg/logger"
	"github.com/denizt/traincenter/internal/server"
)

// @title TrainCenter API
// @version 1.0
// @description Management backend for a training institution: accounts, students, teachers, courses and training records

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
