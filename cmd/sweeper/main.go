// One-shot expiry sweep for overdue bookings. Meant to be run from cron
// or a Kubernetes CronJob as a backstop for the in-process sweep.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tripvia/internal/auth"
	"tripvia/internal/bookings"
	"tripvia/internal/catalog"
	"tripvia/internal/notifications"
	"tripvia/internal/shared/config"
	"tripvia/internal/shared/database"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	pg := db.GetPostgreSQL()

	var producer notifications.Producer = notifications.NopProducer{}
	if cfg.Kafka.Enabled {
		if p, err := notifications.NewKafkaProducer(cfg.Kafka); err == nil {
			producer = p
			defer p.Close()
		} else {
			log.Printf("Kafka unavailable, expiry notifications will not send emails: %v", err)
		}
	}

	authRepo := auth.NewRepository(pg)
	notificationService := notifications.NewService(notifications.NewRepository(pg), producer, authRepo)
	catalogService := catalog.NewService(catalog.NewRepository(pg), cfg.Booking)
	bookingService := bookings.NewService(bookings.NewRepository(pg), catalogService, notificationService, cfg.Booking)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	expired, err := bookingService.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Printf("Sweep failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Sweep completed: %d bookings expired\n", expired)
}
