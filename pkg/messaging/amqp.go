package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"meetinsight-server/pkg/metrics"
)

// AMQPMessage is the envelope for one published intelligence record.
type AMQPMessage struct {
	JobID     string      `json:"job_id"`
	Timestamp time.Time   `json:"timestamp"`
	Record    interface{} `json:"record"`
}

// AMQPConfig holds AMQP publisher configuration
type AMQPConfig struct {
	URL        string
	QueueName  string
	RoutingKey string
	Durable    bool
	AutoDelete bool
}

// AMQPPublisher publishes intelligence records to an AMQP queue.
type AMQPPublisher struct {
	logger    *logrus.Logger
	config    AMQPConfig
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
	connMutex sync.RWMutex
}

// NewAMQPPublisher creates a new AMQP publisher
func NewAMQPPublisher(logger *logrus.Logger, config AMQPConfig) *AMQPPublisher {
	if config.RoutingKey == "" {
		config.RoutingKey = config.QueueName
	}
	config.Durable = true
	config.AutoDelete = false

	return &AMQPPublisher{
		logger: logger,
		config: config,
	}
}

// Connect establishes a connection to the AMQP server and declares the queue
func (p *AMQPPublisher) Connect() error {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.connected {
		return nil
	}

	if p.config.URL == "" || p.config.QueueName == "" {
		p.logger.Warn("AMQP_URL or AMQP_QUEUE_NAME not set, publishing will be disabled")
		return fmt.Errorf("AMQP URL or queue name not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connChan := make(chan struct {
		conn *amqp.Connection
		err  error
	}, 1)

	go func() {
		conn, err := amqp.Dial(p.config.URL)
		select {
		case <-ctx.Done():
			if conn != nil {
				conn.Close()
			}
		case connChan <- struct {
			conn *amqp.Connection
			err  error
		}{conn, err}:
		}
	}()

	var conn *amqp.Connection
	var err error
	select {
	case result := <-connChan:
		conn = result.conn
		err = result.err
	case <-ctx.Done():
		return fmt.Errorf("connection to AMQP server timed out after 5 seconds")
	}
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		p.config.QueueName,
		p.config.Durable,
		p.config.AutoDelete,
		false, // Exclusive
		false, // No-wait
		nil,   // Arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare AMQP queue %s: %w", p.config.QueueName, err)
	}

	p.conn = conn
	p.channel = channel
	p.connected = true

	p.logger.WithFields(logrus.Fields{
		"queue":     queue.Name,
		"messages":  queue.Messages,
		"consumers": queue.Consumers,
	}).Info("Connected to AMQP server and declared queue")

	return nil
}

// Disconnect closes the channel and connection
func (p *AMQPPublisher) Disconnect() {
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.connected = false

	p.logger.Info("Disconnected from AMQP server")
}

// IsConnected reports whether the publisher holds an open connection
func (p *AMQPPublisher) IsConnected() bool {
	p.connMutex.RLock()
	defer p.connMutex.RUnlock()
	return p.connected
}

// PublishRecord publishes one intelligence record keyed by job ID
func (p *AMQPPublisher) PublishRecord(jobID string, record interface{}) error {
	p.connMutex.RLock()
	defer p.connMutex.RUnlock()

	if !p.connected || p.channel == nil {
		metrics.RecordPublish(p.config.QueueName, "error")
		return fmt.Errorf("not connected to AMQP server")
	}

	body, err := json.Marshal(AMQPMessage{
		JobID:     jobID,
		Timestamp: time.Now().UTC(),
		Record:    record,
	})
	if err != nil {
		metrics.RecordPublish(p.config.QueueName, "error")
		return fmt.Errorf("failed to marshal intelligence record: %w", err)
	}

	err = p.channel.Publish(
		"",                  // Exchange
		p.config.RoutingKey, // Routing key (queue name)
		false,               // Mandatory
		false,               // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		metrics.RecordPublish(p.config.QueueName, "error")
		return fmt.Errorf("failed to publish intelligence record: %w", err)
	}

	metrics.RecordPublish(p.config.QueueName, "success")
	p.logger.WithField("job_id", jobID).Info("Published intelligence record")

	return nil
}
