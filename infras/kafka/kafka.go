package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"tasktrack/config"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 10 * time.Second

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Client publishes JSON messages to the configured topic.
type Client interface {
	SendMessages(ctx context.Context, messages ...Message) (err error)
	// Publish sends in the background. Close waits for every accepted Publish to finish.
	Publish(ctx context.Context, messages ...Message)
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type kafkaClientImpl struct {
	topic    string
	writer   messageWriter
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New returns a writer-backed client when Kafka is enabled and a client that drops every message otherwise.
func New(config *config.Config) (Client, func()) {
	var client Client

	if !config.Kafka.Enable || len(config.Kafka.Brokers) == 0 {
		log.Warn().Msg("Kafka disabled, lifecycle events will not be published")

		client = noopClient{}
	} else {
		transport := &kafkaGo.Transport{}
		if config.Kafka.SASL.Username != "" {
			transport.SASL = plain.Mechanism{
				Username: config.Kafka.SASL.Username,
				Password: config.Kafka.SASL.Password,
			}
		}

		writer := &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
			Topic:                  config.Kafka.Topic,
			Balancer:               &kafkaGo.Hash{},
			Transport:              transport,
			AllowAutoTopicCreation: true,
			WriteTimeout:           writeTimeout,
		}

		log.Info().Strs("brokers", config.Kafka.Brokers).Str("topic", config.Kafka.Topic).Msg("Kafka client initialized")

		client = NewWithWriter(config.Kafka.Topic, writer)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka writer")
		}
	}

	return client, cleanup
}

// NewWithWriter builds a client around an existing writer.
func NewWithWriter(topic string, writer messageWriter) Client {
	return &kafkaClientImpl{
		topic:  topic,
		writer: writer,
	}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, messages ...Message) (err error) {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", k.topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", k.topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Publish(ctx context.Context, messages ...Message) {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		log.Warn().Str("topic", k.topic).Int("count", len(messages)).Msg("Kafka client closed, dropping messages.")

		return
	}

	k.inflight.Add(1)
	k.mu.Unlock()

	go func() {
		defer k.inflight.Done()

		c := context.WithoutCancel(ctx)

		if err := k.SendMessages(c, messages...); err != nil {
			log.Warn().Err(err).Str("topic", k.topic).Msg("Failed to publish messages.")
		}
	}()
}

func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	k.closed = true
	k.mu.Unlock()

	k.inflight.Wait()

	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}

type noopClient struct{}

func (noopClient) SendMessages(_ context.Context, _ ...Message) error { return nil }

func (noopClient) Publish(_ context.Context, _ ...Message) {}

func (noopClient) Close() error { return nil }
