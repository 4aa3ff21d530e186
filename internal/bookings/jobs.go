package bookings

import (
	"context"
	"log"
	"time"

	"tripvia/internal/shared/config"
)

// SweepProcessor runs the periodic expiry sweep for overdue bookings
type SweepProcessor struct {
	service Service
	cfg     config.BookingConfig
	done    chan struct{}
}

// NewSweepProcessor creates a new sweep processor
func NewSweepProcessor(service Service, cfg config.BookingConfig) *SweepProcessor {
	return &SweepProcessor{
		service: service,
		cfg:     cfg,
		done:    make(chan struct{}),
	}
}

// Start starts the background sweep loop
func (sp *SweepProcessor) Start(ctx context.Context) {
	log.Println("Starting booking expiry sweep...")
	go sp.run(ctx)
}

// Stop stops the background sweep loop
func (sp *SweepProcessor) Stop() {
	log.Println("Stopping booking expiry sweep...")
	close(sp.done)
}

func (sp *SweepProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(sp.cfg.SweepInterval)
	defer ticker.Stop()

	log.Printf("Started booking expiry sweep with %v interval", sp.cfg.SweepInterval)

	// Run once on startup to catch bookings that went overdue while down
	sp.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			sp.sweep(ctx)
		case <-sp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sp *SweepProcessor) sweep(ctx context.Context) {
	expired, err := sp.service.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Printf("Error sweeping expired bookings: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("Expired %d overdue bookings", expired)
	}
}

// GetJobStatus returns the status of the sweep job
func (sp *SweepProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"sweep_interval": sp.cfg.SweepInterval.String(),
		"expiry_window":  sp.cfg.ExpiryWindow.String(),
		"status":         "running",
	}
}
