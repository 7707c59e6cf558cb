package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ydaci/lillehelperplatform/internal/notification"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsKeyedJSON", func(t *testing.T) {
		mock := mocks.NewSyncProducer(t, NewConfig())
		mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var env notification.Envelope
			if err := json.Unmarshal(val, &env); err != nil {
				return err
			}
			if env.Kind != notification.KindEventCreated {
				return errors.New("unexpected kind " + env.Kind)
			}
			return nil
		})

		p := NewProducerFrom(mock, "community-events", slog.Default())
		err := p.Publish(ctx, "event-5", notification.Envelope{
			Kind: notification.KindEventCreated,
			Data: notification.EventCreated{ID: 5, Title: "Tandem"},
		})
		require.NoError(t, err)
		require.NoError(t, p.Close())
	})

	t.Run("PropagatesBrokerError", func(t *testing.T) {
		mock := mocks.NewSyncProducer(t, NewConfig())
		mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := NewProducerFrom(mock, "community-events", slog.Default())
		err := p.Publish(ctx, "event-6", map[string]string{"a": "b"})
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, p.Close())
	})
}
