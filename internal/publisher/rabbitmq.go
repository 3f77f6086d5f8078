package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"video_feed/internal/domain"
)

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

const ActionFeedUpdated = "feed.updated"

// FeedMessage tells consumers that the feed file for a channel changed.
type FeedMessage struct {
	Action     string           `json:"action"`
	ChannelID  domain.ChannelID `json:"channel_id"`
	Path       string           `json:"path"`
	FeaturedID domain.VideoID   `json:"featured_id,omitempty"`
	HistoryIDs []domain.VideoID `json:"history_ids"`
	Updated    time.Time        `json:"updated"`
	Timestamp  time.Time        `json:"timestamp"`
}

func NewFeedMessage(channelID domain.ChannelID, path string, feed *domain.Feed) FeedMessage {
	msg := FeedMessage{
		Action:     ActionFeedUpdated,
		ChannelID:  channelID,
		Path:       path,
		HistoryIDs: make([]domain.VideoID, 0, len(feed.History)),
		Updated:    feed.Updated,
		Timestamp:  time.Now().UTC(),
	}
	if feed.Featured != nil {
		msg.FeaturedID = feed.Featured.ID
	}
	for _, v := range feed.History {
		msg.HistoryIDs = append(msg.HistoryIDs, v.ID)
	}
	return msg
}

func (r *RabbitMQ) Publish(ctx context.Context, channelID domain.ChannelID, path string, feed *domain.Feed) error {
	msg := NewFeedMessage(channelID, path, feed)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         ActionFeedUpdated,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published feed update",
		"channel_id", channelID,
		"featured_id", msg.FeaturedID,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
