package main

import (
	"context"
	"log"

	"github.com/ponderrr/smartadvisor/internal/bootstrap"
	"github.com/ponderrr/smartadvisor/internal/config"
	"github.com/ponderrr/smartadvisor/internal/server"
	"github.com/ponderrr/smartadvisor/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting History Consumer...")
		if err := container.HistoryConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
