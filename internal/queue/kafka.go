package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const (
	DefaultKafkaTopic = "pagepurge.tasks"
	DefaultKafkaGroup = "pagepurge-worker"

	kafkaPollTimeout = 200 * time.Millisecond
)

var _ TaskQueue = (*KafkaQueue)(nil)

type KafkaOptions struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	Group   string `mapstructure:"group"`
}

// KafkaQueue publishes tasks to a topic and polls them with a consumer group.
// The producer and the consumer are created on first use.
type KafkaQueue struct {
	opts     KafkaOptions
	producer *kafka.Producer
	consumer *kafka.Consumer
}

func NewKafkaQueue(opts KafkaOptions) *KafkaQueue {
	if opts.Topic == "" {
		opts.Topic = DefaultKafkaTopic
	}
	if opts.Group == "" {
		opts.Group = DefaultKafkaGroup
	}

	return &KafkaQueue{opts: opts}
}

func (k *KafkaQueue) Publish(ctx context.Context, payload []byte) error {
	if k.producer == nil {
		producer, err := kafka.NewProducer(&kafka.ConfigMap{
			"bootstrap.servers": k.opts.Brokers,
		})
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		k.producer = producer
	}

	delivery := make(chan kafka.Event, 1)
	err := k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.opts.Topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, delivery)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return m.TopicPartition.Error
		}
		return nil
	}
}

func (k *KafkaQueue) Poll(ctx context.Context, max int) ([][]byte, error) {
	if k.consumer == nil {
		consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
			"bootstrap.servers": k.opts.Brokers,
			"group.id":          k.opts.Group,
			"auto.offset.reset": "earliest",
		})
		if err != nil {
			return nil, fmt.Errorf("create kafka consumer: %w", err)
		}
		if err := consumer.SubscribeTopics([]string{k.opts.Topic}, nil); err != nil {
			return nil, err
		}
		k.consumer = consumer
	}

	var out [][]byte
	for len(out) < max {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		msg, err := k.consumer.ReadMessage(kafkaPollTimeout)
		if err != nil {
			if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
				break
			}
			return out, err
		}
		out = append(out, msg.Value)
	}

	return out, nil
}

func (k *KafkaQueue) Close() error {
	if k.producer != nil {
		if pending := k.producer.Flush(5000); pending > 0 {
			logrus.Warnf("%d kafka messages were not delivered", pending)
		}
		k.producer.Close()
	}
	if k.consumer != nil {
		return k.consumer.Close()
	}

	return nil
}
