package mqtt

import (
	"context"
	"time"

	"github.com/agrihub/fieldbill/internal/config"
	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Publisher is the broker surface the signal relay depends on.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, payload []byte) error
}

// Client wraps a paho MQTT connection whose lifetime is bound to the
// fx application instead of package init.
type Client struct {
	conn paho.Client
	log  *zap.Logger
}

var Module = fx.Module("mqtt",
	fx.Provide(New),
	fx.Provide(func(c *Client) Publisher { return c }),
)

func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *Client {
	log = log.Named("mqtt")

	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTT.BrokerURL).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Info("connected to broker", zap.String("broker", cfg.MQTT.BrokerURL))
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn("broker connection lost", zap.Error(err))
	}

	client := &Client{
		conn: paho.NewClient(opts),
		log:  log,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			token := client.conn.Connect()
			if err := waitToken(ctx, token); err != nil {
				return err
			}
			return client.subscribeCounts(cfg.MQTT.CountTopic)
		},
		OnStop: func(ctx context.Context) error {
			_ = ctx
			client.conn.Disconnect(250)
			return nil
		},
	})

	return client
}

func (c *Client) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	return waitToken(ctx, c.conn.Publish(topic, qos, false, payload))
}

// subscribeCounts sinks count-increment notifications from field
// hardware. They are logged only for now; wiring them into bill counts
// is the designated extension point.
func (c *Client) subscribeCounts(topic string) error {
	token := c.conn.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		c.log.Info("count increment received",
			zap.String("topic", msg.Topic()),
			zap.ByteString("payload", msg.Payload()),
		)
	})
	token.Wait()
	return token.Error()
}

func waitToken(ctx context.Context, token paho.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
