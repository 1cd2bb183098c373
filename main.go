package main

import (
	"context"
	"time"

	"github.com/inkpress/newswire/analytics"
	"github.com/inkpress/newswire/config"
	"github.com/inkpress/newswire/models"
	"github.com/inkpress/newswire/routes"
	"github.com/inkpress/newswire/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db, err := config.OpenDatabase(cfg, &models.User{}, &models.Article{}, &models.ReadEvent{}, &models.DailyAnalytics{})
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rdb := config.NewRedisClient(cfg)

	gate := analytics.NewDedupGate(rdb, time.Duration(cfg.ReadWindowSeconds)*time.Second, utils.Logger)
	store := analytics.NewEventStore(db)
	aggregator := analytics.NewAggregator(db, utils.Logger)

	dispatcher, err := analytics.NewDispatcher(analytics.DispatcherOptions{
		MaxRetries:     cfg.QueueMaxRetries,
		InitialBackoff: time.Duration(cfg.QueueBackoffSeconds) * time.Second,
	}, aggregator, utils.Logger)
	if err != nil {
		utils.Sugar.Fatalf("queue init failed: %v", err)
	}

	recorder := analytics.NewRecorder(gate, store, dispatcher, utils.Logger)
	dashboard := analytics.NewDashboard(db)

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Run(ctx)
	analytics.NewScheduler(dispatcher, utils.Logger).Start(ctx)

	r := routes.SetupRouter(db, recorder, dashboard)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	err = utils.GraceServer(":"+cfg.AppPort, r, func() {
		cancel()
		dispatcher.Close()
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		_ = rdb.Close()
	})
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
