package main

import (
	"context"
	"flag"
	"time"

	"app/internal/config"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 通知スイープの常駐プロセス。APIサーバーとは別に動かす。
// -once を付けるとcronを張らず1回だけ実行して終わる
// （外部スケジューラから叩く用）。
func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	notifRepo := infraRepo.NewNotificationGormRepository(gormDB)
	chemicalRepo := infraRepo.NewChemicalGormRepository(gormDB)
	equipmentRepo := infraRepo.NewEquipmentGormRepository(gormDB)

	uc := usecase.NewNotificationUsecase(notifRepo, chemicalRepo, equipmentRepo, &realClock{})

	if *once {
		uc.RunSweep(context.Background())
		return
	}

	// 前回のスイープが終わっていなければ今回はスキップする
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(cfg.SweepSchedule, func() {
		uc.RunSweep(context.Background())
	}); err != nil {
		log.Fatalf("cron schedule %q: %v", cfg.SweepSchedule, err)
	}

	log.Infof("sweeper started (schedule %q)", cfg.SweepSchedule)
	c.Run()
}
