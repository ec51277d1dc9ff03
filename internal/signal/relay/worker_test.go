package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/agrihub/fieldbill/internal/config"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	signalrepository "github.com/agrihub/fieldbill/internal/signal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type publisherStub struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	failures int // fail this many publishes before succeeding
}

func (p *publisherStub) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unreachable")
	}
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, payload)
	return nil
}

func (p *publisherStub) Messages() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.messages...)
}

func setupWorker(t *testing.T, pub *publisherStub, cfg config.RelayConfig) (*Worker, *gorm.DB, signaldomain.Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&signaldomain.Intent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := signalrepository.Provide()
	worker := NewWorker(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Repo:      repo,
		Publisher: pub,
		Holder:    config.NewStaticRelayHolder(cfg),
		AppConfig: config.Config{MQTT: config.MQTTConfig{SignalTopic: "iot/signal"}},
	})
	return worker, db, repo
}

func seedIntent(t *testing.T, db *gorm.DB, repo signaldomain.Repository, action string) snowflake.ID {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	intent := &signaldomain.Intent{
		ID:        node.Generate(),
		BillID:    node.Generate(),
		Action:    action,
		Status:    signaldomain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Insert(context.Background(), db, intent); err != nil {
		t.Fatalf("seed intent: %v", err)
	}
	return intent.ID
}

func intentByID(t *testing.T, db *gorm.DB, id snowflake.ID) *signaldomain.Intent {
	t.Helper()

	var intent signaldomain.Intent
	if err := db.Raw(`SELECT * FROM signal_intents WHERE id = ?`, id).Scan(&intent).Error; err != nil {
		t.Fatalf("find intent: %v", err)
	}
	return &intent
}

func relayTestConfig() config.RelayConfig {
	cfg := config.DefaultRelayConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.PublishWait = time.Second
	cfg.MaxAttempts = 3
	return cfg
}

func TestRunOncePublishesAndMarksSent(t *testing.T) {
	pub := &publisherStub{}
	worker, db, repo := setupWorker(t, pub, relayTestConfig())
	id := seedIntent(t, db, repo, signaldomain.ActionStart)

	sent, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 sent, got %d", sent)
	}

	intent := intentByID(t, db, id)
	if intent.Status != signaldomain.StatusSent {
		t.Fatalf("expected sent, got %s", intent.Status)
	}
	if intent.SentAt == nil {
		t.Fatal("expected sent_at to be set")
	}

	msgs := pub.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var payload map[string]string
	if err := json.Unmarshal(msgs[0], &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["action"] != signaldomain.ActionStart || payload["billId"] == "" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestRunOnceRetriesOnPublishError(t *testing.T) {
	pub := &publisherStub{failures: 1}
	worker, db, repo := setupWorker(t, pub, relayTestConfig())
	id := seedIntent(t, db, repo, signaldomain.ActionStop)

	sent, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected 0 sent, got %d", sent)
	}

	intent := intentByID(t, db, id)
	if intent.Status != signaldomain.StatusPending {
		t.Fatalf("expected still pending, got %s", intent.Status)
	}
	if intent.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", intent.Attempts)
	}
	if intent.LastError == "" {
		t.Fatal("expected last_error to be recorded")
	}

	// Next drain succeeds.
	sent, err = worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 sent, got %d", sent)
	}
	if got := intentByID(t, db, id); got.Status != signaldomain.StatusSent {
		t.Fatalf("expected sent, got %s", got.Status)
	}
}

func TestRunOnceGivesUpAfterMaxAttempts(t *testing.T) {
	pub := &publisherStub{failures: 100}
	cfg := relayTestConfig()
	worker, db, repo := setupWorker(t, pub, cfg)
	id := seedIntent(t, db, repo, signaldomain.ActionStart)

	for i := 0; i < cfg.MaxAttempts; i++ {
		if _, err := worker.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	intent := intentByID(t, db, id)
	if intent.Status != signaldomain.StatusFailed {
		t.Fatalf("expected failed, got %s", intent.Status)
	}
	if intent.Attempts != cfg.MaxAttempts {
		t.Fatalf("expected %d attempts, got %d", cfg.MaxAttempts, intent.Attempts)
	}

	// Failed intents leave the drain queue.
	sent, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("final run: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected empty queue, got %d sent", sent)
	}
}

func TestRunOnceDrainsOldestFirst(t *testing.T) {
	pub := &publisherStub{}
	cfg := relayTestConfig()
	cfg.BatchSize = 1
	worker, db, repo := setupWorker(t, pub, cfg)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	base := time.Now().UTC().Add(-time.Minute)
	for i, action := range []string{signaldomain.ActionStart, signaldomain.ActionStop} {
		intent := &signaldomain.Intent{
			ID:        node.Generate(),
			BillID:    node.Generate(),
			Action:    action,
			Status:    signaldomain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Insert(context.Background(), db, intent); err != nil {
			t.Fatalf("seed intent: %v", err)
		}
	}

	if _, err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	msgs := pub.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected batch of 1, got %d", len(msgs))
	}
	var payload map[string]string
	if err := json.Unmarshal(msgs[0], &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["action"] != signaldomain.ActionStart {
		t.Fatalf("expected oldest intent first, got %v", payload)
	}
}
