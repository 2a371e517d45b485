package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Publisher forwards record events to a Cloud Pub/Sub topic.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    *zap.Logger
}

// NewPublisher connects to projectID and binds topicName. Full resource names
// ("projects/p/topics/t") are reduced to their short name.
func NewPublisher(ctx context.Context, projectID, topicName, credentialsFile string, log *zap.Logger) (*Publisher, error) {
	if parts := strings.Split(topicName, "/"); len(parts) > 1 {
		topicName = parts[len(parts)-1]
	}
	if topicName == "" {
		return nil, fmt.Errorf("pubsub topic is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		client.Close()
		return nil, fmt.Errorf("pubsub topic %s does not exist", topicName)
	}

	return &Publisher{client: client, topic: topic, log: log.Named("pubsub")}, nil
}

// SendToUser publishes payload as JSON. Delivery is confirmed asynchronously
// and failures are logged only.
func (p *Publisher) SendToUser(userID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	result := p.topic.Publish(context.Background(), &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event":   event,
			"user_id": userID,
		},
	})

	go func() {
		id, err := result.Get(context.Background())
		if err != nil {
			p.log.Warn("publish failed", zap.String("event", event), zap.Error(err))
			return
		}
		p.log.Debug("published", zap.String("event", event), zap.String("message_id", id))
	}()
}

// Close flushes pending messages and releases the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
