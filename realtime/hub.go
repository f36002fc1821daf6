package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one row-level change on a group's messages. Delivery order is
// publish order; subscribers are never reordered or deduplicated.
type Event struct {
	Type    EventType           `json:"type"`
	GroupID uuid.UUID           `json:"group_id"`
	Message models.GroupMessage `json:"message"`
}

// Hub fans group change events out to local subscribers. With a redis
// client attached, events travel through redis pub/sub so every instance
// sees writes made on any other instance.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Event]struct{}
	rdb  *redis.Client
}

// NewHub accepts a nil redis client; the hub then stays process-local.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
		rdb:  rdb,
	}
}

func channelName(groupID uuid.UUID) string {
	return "group:" + groupID.String()
}

// Subscribe registers for a group's change feed. The returned cancel func
// must be called to release the subscription; the event channel is closed
// by cancel, never by the hub mid-stream.
func (h *Hub) Subscribe(groupID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[groupID] == nil {
		h.subs[groupID] = make(map[chan Event]struct{})
	}
	h.subs[groupID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[groupID], ch)
			if len(h.subs[groupID]) == 0 {
				delete(h.subs, groupID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish hands an event to every subscriber of its group. Best effort:
// redis publish failures are logged and the event is still delivered
// locally so the writing instance's own clients never miss it.
func (h *Hub) Publish(ctx context.Context, ev Event) {
	if h.rdb != nil {
		payload, err := json.Marshal(ev)
		if err == nil {
			if err := h.rdb.Publish(ctx, channelName(ev.GroupID), payload).Err(); err == nil {
				return // delivery happens via the Run loop
			} else {
				logging.ErrorLogger.Error("redis publish failed", zap.Error(err))
			}
		}
	}
	h.deliver(ev)
}

func (h *Hub) deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.GroupID] {
		select {
		case ch <- ev:
		default:
			// slow consumer: drop rather than block the feed
		}
	}
}

// Run consumes the redis change feed and forwards events to local
// subscribers. It resubscribes after transient failures and returns when
// ctx is done. No-op without redis.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	for {
		pubsub := h.rdb.PSubscribe(ctx, "group:*")
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					pubsub.Close()
					goto resubscribe
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logging.ErrorLogger.Error("bad realtime payload", zap.Error(err))
					continue
				}
				h.deliver(ev)
			}
		}
	resubscribe:
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}
