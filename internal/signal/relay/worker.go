package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agrihub/fieldbill/internal/config"
	"github.com/agrihub/fieldbill/internal/mqtt"
	"github.com/agrihub/fieldbill/internal/observability/metrics"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      signaldomain.Repository
	Publisher mqtt.Publisher
	Holder    *config.RelayConfigHolder
	AppConfig config.Config
	Metrics   *metrics.RelayMetrics `optional:"true"`
}

// Worker drains pending signal intents from the outbox and publishes
// them to the hardware broker.
type Worker struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      signaldomain.Repository
	publisher mqtt.Publisher
	holder    *config.RelayConfigHolder
	topic     string
	metrics   *metrics.RelayMetrics
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:        p.DB,
		log:       p.Log.Named("signal.relay"),
		repo:      p.Repo,
		publisher: p.Publisher,
		holder:    p.Holder,
		topic:     p.AppConfig.MQTT.SignalTopic,
		metrics:   p.Metrics,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	for {
		cfg := w.holder.Get()

		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("relay drain failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.PollInterval):
		}
	}
}

// RunOnce drains a single batch and reports how many intents it sent.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	cfg := w.holder.Get()

	intents, err := w.repo.FindPending(ctx, w.db, cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range intents {
		if err := w.relay(ctx, &intents[i], cfg); err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			continue
		}
		sent++
	}
	return sent, nil
}

func (w *Worker) relay(ctx context.Context, intent *signaldomain.Intent, cfg config.RelayConfig) error {
	payload, err := json.Marshal(map[string]string{
		"billId": intent.BillID.String(),
		"action": intent.Action,
	})
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, cfg.PublishWait)
	err = w.publisher.Publish(pubCtx, w.topic, byte(cfg.QoS), payload)
	cancel()

	if err != nil {
		w.log.Warn("publish failed",
			zap.Error(err),
			zap.String("bill_id", intent.BillID.String()),
			zap.String("action", intent.Action),
			zap.Int("attempts", intent.Attempts+1),
		)
		if intent.Attempts+1 >= cfg.MaxAttempts {
			w.metrics.Failed()
			if markErr := w.repo.MarkFailed(ctx, w.db, intent.ID, err.Error()); markErr != nil {
				return markErr
			}
			return err
		}
		w.metrics.Retried()
		if markErr := w.repo.MarkRetry(ctx, w.db, intent.ID, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	w.metrics.Published()
	return w.repo.MarkSent(ctx, w.db, intent.ID, time.Now().UTC())
}
