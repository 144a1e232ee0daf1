package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"classifieds/pkg/config"
	"classifieds/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	WatermarkQueueName   = "watermark_jobs"
	WatermarkConsumerTag = "watermark-worker"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger

	// amqp channels are not safe for concurrent publishing.
	publishMu sync.Mutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		WatermarkQueueName, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One unacked job per worker at a time; ffmpeg runs are long.
	if err := channel.Qos(cfg.WatermarkWorkers, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends a persistent job message to the watermark queue.
func (c *Client) Publish(ctx context.Context, job WatermarkJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	err = c.channel.PublishWithContext(ctx,
		"",                 // default exchange
		WatermarkQueueName, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish watermark job asset=%s: %v", job.AssetID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published watermark job asset=%s kind=%s", job.AssetID, job.Kind)
	return nil
}

// Consume delivers jobs to handler with manual acks. Jobs are never
// requeued: the overlay is not idempotent.
func (c *Client) Consume(handler Handler) error {
	msgs, err := c.channel.Consume(
		WatermarkQueueName,   // queue
		WatermarkConsumerTag, // consumer
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", WatermarkQueueName)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()

	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler Handler) {
	c.process(msg.Body, &msg, handler)
}

func (c *Client) process(body []byte, ack acknowledger, handler Handler) {
	job, err := decodeJob(body)
	if err != nil {
		c.logger.Error("[RABBITMQ] Dropping malformed watermark job: %v, body=%s", err, string(body))
		_ = ack.Nack(false, false)
		return
	}

	if err := runIsolated(c.ctx, handler, job); err != nil {
		c.logger.Error("[RABBITMQ] Watermark job asset=%s failed: %v", job.AssetID, err)
		_ = ack.Nack(false, false)
		return
	}

	_ = ack.Ack(false)
}

func decodeJob(body []byte) (WatermarkJob, error) {
	var job WatermarkJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, err
	}
	if job.AssetID == "" || job.Path == "" {
		return job, fmt.Errorf("missing asset_id or path")
	}
	return job, nil
}

// runIsolated turns a handler panic into an error for that job only.
func runIsolated(ctx context.Context, handler Handler, job WatermarkJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return handler(ctx, job)
}

// Shutdown cancels the consumer, waits for the in-flight job and closes the
// connection.
func (c *Client) Shutdown(ctx context.Context) error {
	_ = c.channel.Cancel(WatermarkConsumerTag, false)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		c.cancel()
		err = ctx.Err()
	}
	c.cancel()
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

// GetQueueLength returns the number of messages in the queue
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(WatermarkQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}
	return queue.Messages, nil
}
