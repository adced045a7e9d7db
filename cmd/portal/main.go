package main

import (
	"log"

	"go.uber.org/zap"

	"tenderportal/db"
	"tenderportal/internal/config"
	"tenderportal/internal/logger"
	"tenderportal/internal/seed"
	"tenderportal/internal/session"
	"tenderportal/internal/store"
	"tenderportal/internal/tui"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}
	defer zlog.Sync()

	storage, err := db.Open(cfg.DBPath)
	if err != nil {
		zlog.Fatal("cannot open session storage", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer storage.Close()

	sess := session.New(storage, seed.Users(), cfg.AuthLatency, cfg.AuthSecret, zlog)
	// Восстановление сессии с прошлого запуска, битая запись молча отбрасывается
	sess.Restore()

	st := store.New(cfg.AuthLatency, zlog)
	if cfg.Seed {
		st.SetTenders(seed.Tenders())
		st.SetBids(seed.Bids())
	}
	total := sess.DirectorySize()
	st.RecomputeStats(total, total)

	zlog.Info("starting portal",
		zap.String("env", cfg.Env),
		zap.Duration("auth_latency", cfg.AuthLatency),
	)

	if err := tui.Run(sess, st); err != nil {
		zlog.Fatal("ui failed", zap.Error(err))
	}
}
