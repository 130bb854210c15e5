package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/streadway/amqp"

	"productsvc/internal/logger"
	"productsvc/internal/models"
	"productsvc/pkg/rabbitmq"
)

func runEvents(c context.Context) error {
	cfg, l, err := setup("events")
	if err != nil {
		return err
	}
	l = l.With().Str(logger.KeyTag, "cmd runEvents").Logger()

	if !cfg.RabbitMQ.Enabled() {
		return errors.New("RABBITMQ_URL is not set")
	}

	mq, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:      cfg.RabbitMQ.URL,
		Exchange: cfg.RabbitMQ.Exchange,
		Queue:    cfg.RabbitMQ.Queue,
	}, l)
	if err != nil {
		return err
	}
	defer mq.Close()

	done, err := mq.ConsumeEvents(func(msg amqp.Delivery) error {
		var event models.ProductEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			// malformed bodies are acked, never requeued
			l.Error().Err(err).Bytes("body", msg.Body).Msg("dropping malformed product event")
			return nil
		}
		l.Info().
			Str("routingKey", msg.RoutingKey).
			Str("event", event.Type).
			Uint(logger.KeyProductID, event.ProductID).
			Str("name", event.Name).
			Int("stock", event.Stock).
			Time("occurredAt", event.OccurredAt).
			Msg("product event")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed consuming product events: %w", err)
	}

	select {
	case <-c.Done():
		l.Info().Msg("stopped tailing product events")
		return nil
	case <-done:
		return errors.New("RabbitMQ delivery channel closed")
	}
}
