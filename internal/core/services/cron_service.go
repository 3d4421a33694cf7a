package services

import (
	"context"
	"log"
	"os"
	"strconv"

	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs the daily reminder sweep: applications sitting in a
// blocked status longer than STALE_REMINDER_DAYS get a stalled
// notification so reviewers chase the outstanding items.
type CronService struct {
	cron          *cron.Cron
	appRepo       *repositories.ApplicationRepository
	notifyService *NotificationService
	staleDays     int
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB, notifyService *NotificationService) *CronService {
	staleDays := 3
	if v := os.Getenv("STALE_REMINDER_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			staleDays = n
		}
	}

	return &CronService{
		cron:          cron.New(),
		appRepo:       repositories.NewApplicationRepository(db),
		notifyService: notifyService,
		staleDays:     staleDays,
	}
}

// Start schedules the daily sweep (08:30)
func (s *CronService) Start() {
	s.cron.AddFunc("30 8 * * *", s.sweepStalled)
	s.cron.Start()
	log.Printf("✅ Cron service started (stale reminder after %d days)", s.staleDays)
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) sweepStalled() {
	ctx := context.Background()

	for _, status := range []domain.Status{domain.StatusDocsPending, domain.StatusCorrectionsPending} {
		apps, err := s.appRepo.ListStale(ctx, status, s.staleDays)
		if err != nil {
			log.Printf("❌ Stale sweep query error: %v", err)
			continue
		}
		for _, app := range apps {
			s.notifyService.NotifyStalled(app, s.staleDays)
		}
	}
}
