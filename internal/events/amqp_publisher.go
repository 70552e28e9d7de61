// internal/events/amqp_publisher.go
package events

import (
	"encoding/json"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

const queueName = "campaign_events"

// AMQPPublisher pushes campaign events onto a durable RabbitMQ queue as JSON.
// One connection for the process lifetime; publishes are serialized because
// amqp channels are not safe for concurrent use.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the campaign_events queue.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

type eventEnvelope struct {
	Type       string          `json:"type"`
	CampaignID string          `json:"campaign_id"`
	Status     string          `json:"status,omitempty"`
	LogEntry   *model.LogEntry `json:"log_entry,omitempty"`
}

func (p *AMQPPublisher) publish(env eventEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(
		"",        // default exchange
		queueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) LogEntryCreated(entry model.LogEntry) error {
	return p.publish(eventEnvelope{
		Type:       "log_entry",
		CampaignID: entry.CampaignID,
		LogEntry:   &entry,
	})
}

func (p *AMQPPublisher) StatusChanged(campaignID, status string) error {
	return p.publish(eventEnvelope{
		Type:       "status",
		CampaignID: campaignID,
		Status:     status,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
