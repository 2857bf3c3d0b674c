package cloudmetrics

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/storefront/internal/config"
)

const pushInterval = 30 * time.Minute

var Module = fx.Module("cloud.metrics",
	fx.Provide(NewCollector),
	fx.Provide(NewPusher),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, cfg config.Config, collector *Collector, pusher Pusher, db *gorm.DB, log *zap.Logger) {
	if collector == nil || pusher == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting cloud metrics background worker")
			go func() {
				ticker := time.NewTicker(pushInterval)
				defer ticker.Stop()

				snapshotAndPush(ctx, collector, pusher, db, log)

				for {
					select {
					case <-ticker.C:
						snapshotAndPush(ctx, collector, pusher, db, log)
					case <-ctx.Done():
						log.Info("stopping cloud metrics background worker")
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func snapshotAndPush(ctx context.Context, collector *Collector, pusher Pusher, db *gorm.DB, log *zap.Logger) {
	collector.Snapshot(ctx, db)
	if err := pusher.Push(ctx, collector.Registry()); err != nil {
		log.Error("cloud metrics push failed", zap.Error(err))
	}
}
