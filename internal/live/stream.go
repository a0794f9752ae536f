package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is the wire form of a "comment inserted in this thread" push.
// Delivery is at-least-once; the feed's id dedup is the backstop.
type Event struct {
	ThreadID   uint      `json:"thread_id"`
	CommentID  uint      `json:"comment_id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment converts the event into a feed entry.
func (ev Event) Comment() Comment {
	return Comment{
		ID:         ServerID(ev.CommentID),
		ThreadID:   ev.ThreadID,
		AuthorID:   ev.AuthorID,
		AuthorName: ev.AuthorName,
		Content:    ev.Content,
		CreatedAt:  ev.CreatedAt,
	}
}

// Stream carries comment-insert events between server instances and open
// thread views over Redis pub/sub, one channel per thread.
type Stream struct {
	rdb *redis.Client
}

func NewStream(rdb *redis.Client) *Stream {
	return &Stream{rdb: rdb}
}

// NewStreamFromEnv connects using REDIS_URL, defaulting to a local instance.
func NewStreamFromEnv() (*Stream, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return NewStream(redis.NewClient(opts)), nil
}

func channelFor(threadID uint) string {
	return fmt.Sprintf("thread:%d:comments", threadID)
}

// PublishComment announces a freshly inserted comment. Publishing is
// best-effort relative to the insert itself; callers log and move on.
func (s *Stream) PublishComment(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, channelFor(ev.ThreadID), payload).Err()
}

// SubscribeComments delivers events for one thread to fn until ctx is
// cancelled, then unsubscribes. Malformed payloads are dropped.
func (s *Stream) SubscribeComments(ctx context.Context, threadID uint, fn func(Event)) error {
	sub := s.rdb.Subscribe(ctx, channelFor(threadID))
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[live] dropping malformed event on %s: %v", msg.Channel, err)
				continue
			}
			fn(ev)
		}
	}
}

// Close releases the underlying connection.
func (s *Stream) Close() error {
	return s.rdb.Close()
}
