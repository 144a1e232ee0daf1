package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"

	"github.com/redis/go-redis/v9"
)

// MessageNotifier delivers new messages to the recipient's live connections.
type MessageNotifier interface {
	Publish(ctx context.Context, message *entity.Message) error
	// Subscribe streams messages addressed to userID until ctx is done.
	Subscribe(ctx context.Context, userID string) (<-chan *entity.Message, error)
}

func messageChannel(userID string) string {
	return "messages:" + userID
}

type redisNotifier struct {
	client *redis.Client
	logger *logger.Logger
}

// NewMessageNotifier fans out over Redis pub/sub so every replica sees every
// message. Without Redis delivery stays inside this process.
func NewMessageNotifier(client *redis.Client, logger *logger.Logger) MessageNotifier {
	if client == nil {
		return NewLocalNotifier()
	}
	return &redisNotifier{client: client, logger: logger}
}

func (n *redisNotifier) Publish(ctx context.Context, message *entity.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, messageChannel(message.ToUserID), payload).Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context, userID string) (<-chan *entity.Message, error) {
	pubsub := n.client.Subscribe(ctx, messageChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan *entity.Message, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var m entity.Message
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					n.logger.Warn("[REDIS] Dropping malformed message on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- &m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// LocalNotifier is the in-process fan-out used without Redis.
type LocalNotifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan *entity.Message]struct{}
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{subs: make(map[string]map[chan *entity.Message]struct{})}
}

// Publish drops the message for subscribers whose buffer is full.
func (n *LocalNotifier) Publish(_ context.Context, message *entity.Message) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs[message.ToUserID] {
		select {
		case ch <- message:
		default:
		}
	}
	return nil
}

func (n *LocalNotifier) Subscribe(ctx context.Context, userID string) (<-chan *entity.Message, error) {
	ch := make(chan *entity.Message, 16)

	n.mu.Lock()
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[chan *entity.Message]struct{})
	}
	n.subs[userID][ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs[userID], ch)
		if len(n.subs[userID]) == 0 {
			delete(n.subs, userID)
		}
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}
