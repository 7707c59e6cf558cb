package app

import (
	"fmt"
	"log/slog"

	"github.com/ydaci/lillehelperplatform/internal/config"
	"github.com/ydaci/lillehelperplatform/internal/kafka"
	"github.com/ydaci/lillehelperplatform/internal/messaging"
	"github.com/ydaci/lillehelperplatform/internal/notification"
)

// newProducer returns nil, nil when notifications are turned off.
func newProducer(cfg config.MessagingConfig, logger *slog.Logger) (notification.Producer, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "nats":
		p, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "kafka":
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported messaging driver %q", cfg.Driver)
	}
}
