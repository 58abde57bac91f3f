package kafka

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/config"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// OrderEventHandler nhận event đã decode từ topic orders.placed.
type OrderEventHandler interface {
	HandleOrderPlaced(ctx context.Context, event avro.OrderPlacedEvent) error
}

type OrderEventConsumer struct {
	reader  *kafkago.Reader
	codec   *avro.Codec
	handler OrderEventHandler
	logger  logger.Logger
}

func NewOrderEventConsumer(cfg config.KafkaConfig, handler OrderEventHandler, log logger.Logger) (*OrderEventConsumer, error) {
	codec, err := avro.NewCodec(avro.OrderPlacedSchema)
	if err != nil {
		return nil, err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.OrderTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &OrderEventConsumer{
		reader:  reader,
		codec:   codec,
		handler: handler,
		logger:  log,
	}, nil
}

func (c *OrderEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		record, err := c.codec.Decode(msg.Value)
		if err != nil {
			// Message hỏng thì bỏ qua, không chặn cả consumer group
			c.logger.Warn("skip undecodable order event", logger.Error(err))
			continue
		}

		event, err := avro.EventFromNative(record)
		if err != nil {
			c.logger.Warn("skip malformed order event", logger.Error(err))
			continue
		}

		if err := c.handler.HandleOrderPlaced(ctx, event); err != nil {
			return fmt.Errorf("handle order event: %w", err)
		}
	}
}

func (c *OrderEventConsumer) Close() {
	_ = c.reader.Close()
}
