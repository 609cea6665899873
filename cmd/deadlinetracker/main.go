package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deadline-tracker/internal/bot"
	"deadline-tracker/internal/config"
	"deadline-tracker/internal/pkg/logger"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

const digestJobTimeout = 2 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("open database", "error", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	deadlineRepo := repository.NewDeadlineRepository(db)
	workloadRepo := repository.NewWorkloadRepository(db)

	now := service.SystemClock(cfg.Location)
	syncSvc := service.NewSyncService(deadlineRepo, courseRepo, workloadRepo, cfg.Policy, now, cfg.SyncTimeout, log)
	deadlineSvc := service.NewDeadlineService(deadlineRepo, syncSvc, now, log)
	courseSvc := service.NewCourseService(courseRepo, syncSvc, log)
	insightSvc := service.NewInsightService(workloadRepo, deadlineRepo, courseRepo, syncSvc, cfg.Policy, now, log)
	digestSvc := service.NewDigestService(insightSvc, cfg.HorizonWeeks)

	telegramBot, err := bot.New(cfg.TelegramToken, bot.Services{
		Users:     userRepo,
		Deadlines: deadlineSvc,
		Courses:   courseSvc,
		Insights:  insightSvc,
		Digest:    digestSvc,
	}, &cfg, now, log)
	if err != nil {
		log.Fatal("create bot", "error", err)
	}

	scheduler := service.NewSchedulerService(cfg.Location, digestJobTimeout, log)
	if cfg.DigestTime != "" {
		_, err = scheduler.ScheduleDaily("alert-digest", cfg.DigestTime, telegramBot.SendAlertDigests)
	} else {
		_, err = scheduler.ScheduleInterval("alert-digest", cfg.DigestInterval, telegramBot.SendAlertDigests)
	}
	if err != nil {
		log.Fatal("schedule alert digest", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("deadline tracker bot started", "timezone", cfg.Location.String(), "database", dsnKind(cfg.DatabaseURL))
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped with error", "error", err)
	}
	log.Info("shutdown complete")
}

func dsnKind(dsn string) string {
	if repository.IsPostgresDSN(dsn) {
		return "postgres"
	}
	return "sqlite"
}
