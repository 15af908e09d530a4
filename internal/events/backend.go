package events

import (
	"context"
	"fmt"

	"github.com/wargaid/apiserver/config"
	"github.com/wargaid/apiserver/internal/mq"
)

// NewBackend constructs the broker backend selected by config. It returns
// (nil, nil) when no backend is configured.
func NewBackend(ctx context.Context, cfg config.Config) (mq.Backend, error) {
	switch cfg.MQBackend {
	case "":
		return nil, nil
	case "rabbitmq":
		return mq.NewRabbitMQClient(cfg.RabbitMQ)
	case "pubsub":
		return mq.NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
}
