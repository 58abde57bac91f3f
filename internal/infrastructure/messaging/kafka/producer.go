package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/config"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// OrderEventProducer publish event orders.placed sau khi checkout commit.
// Key là transaction_ref để các sub-order cùng checkout đi vào cùng
// partition, giữ thứ tự tương đối giữa chúng.
type OrderEventProducer struct {
	client *kgo.Client
	topic  string
	logger logger.Logger
}

func NewOrderEventProducer(cfg config.KafkaConfig, log logger.Logger) (*OrderEventProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.OrderTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.OrderTopic),
	)

	return &OrderEventProducer{
		client: client,
		topic:  cfg.OrderTopic,
		logger: log,
	}, nil
}

func (p *OrderEventProducer) PublishOrderPlaced(ctx context.Context, key string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(key),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	// ProduceSync trả về slice lỗi, chỉ dùng 1 record nên lấy phần tử đầu
	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		p.logger.Error("publish order event failed",
			logger.String("topic", p.topic),
			logger.Error(err),
		)
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *OrderEventProducer) Close(ctx context.Context) error {
	p.logger.Info("Closing Kafka producer", logger.String("topic", p.topic))
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
