package main

import (
	"Lote-Tracker/cmd/config"
	migration "Lote-Tracker/cmd/database/migrate"
	"Lote-Tracker/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	log.Infof("server listening on 0.0.0.0:%s", port)
	if err := app.Listen("0.0.0.0:" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
