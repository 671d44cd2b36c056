package persistence

import (
	"context"
	"strconv"
	"time"

	"intelfeed/internal/reports/domain/model"
	"intelfeed/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const progressStreamPrefix = "intelfeed:report:progress:"

// RedisProgressEventStore persists report progress events in a Redis
// Stream per report. The stream message ID doubles as the resume token,
// so reconnecting WebSocket clients can replay what they missed.
type RedisProgressEventStore struct {
	client    *redis.Client
	maxLength int64
	log       logger.Logger
}

// NewRedisProgressEventStore creates a new Redis-backed progress store.
func NewRedisProgressEventStore(client *redis.Client, maxLength int64, log logger.Logger) *RedisProgressEventStore {
	return &RedisProgressEventStore{
		client:    client,
		maxLength: maxLength,
		log:       log.WithComponent("progress_event_store"),
	}
}

func streamName(reportID string) string {
	return progressStreamPrefix + reportID
}

// Append writes a progress event onto the report's stream.
func (s *RedisProgressEventStore) Append(ctx context.Context, event model.ProgressEvent) error {
	_, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName(event.ReportID),
		MaxLen: s.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"reportId":  event.ReportID,
			"status":    string(event.Status),
			"pct":       event.CompletionPercentage,
			"stage":     event.Stage,
			"timestamp": event.Timestamp.UnixNano(),
		},
	}).Result()
	if err != nil {
		s.log.WithFields(map[string]interface{}{"report_id": event.ReportID}).
			WithError(err).Error("failed to append progress event")
		return err
	}
	return nil
}

// EventsSince reads progress events after the given resume token. An
// empty token replays the stream from the start.
func (s *RedisProgressEventStore) EventsSince(ctx context.Context, reportID, resumeToken string) ([]model.ProgressEvent, error) {
	stream := streamName(reportID)

	exists, err := s.client.Exists(ctx, stream).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return []model.ProgressEvent{}, nil
	}

	lastID := "0"
	if resumeToken != "" {
		lastID = resumeToken
	}

	readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.client.XRead(readCtx, &redis.XReadArgs{
		Streams: []string{stream, lastID},
		Count:   1000,
		Block:   0,
	}).Result()
	if err != nil {
		if err == redis.Nil || err == context.DeadlineExceeded {
			return []model.ProgressEvent{}, nil
		}
		return nil, err
	}

	var events []model.ProgressEvent
	for _, streamRes := range res {
		for _, msg := range streamRes.Messages {
			event := s.parseMessage(msg)
			event.ResumeToken = msg.ID
			events = append(events, event)
		}
	}
	return events, nil
}

// Trim caps the report's stream at the configured maximum length.
func (s *RedisProgressEventStore) Trim(ctx context.Context, reportID string) error {
	_, err := s.client.XTrimMaxLen(ctx, streamName(reportID), s.maxLength).Result()
	return err
}

func (s *RedisProgressEventStore) parseMessage(msg redis.XMessage) model.ProgressEvent {
	event := model.ProgressEvent{}

	if v, ok := msg.Values["reportId"].(string); ok {
		event.ReportID = v
	}
	if v, ok := msg.Values["status"].(string); ok {
		event.Status = model.ReportStatus(v)
	}
	if v, ok := msg.Values["stage"].(string); ok {
		event.Stage = v
	}
	if v, ok := msg.Values["pct"].(string); ok {
		if pct, err := strconv.Atoi(v); err == nil {
			event.CompletionPercentage = pct
		}
	}
	if v, ok := msg.Values["timestamp"].(string); ok {
		if ns, err := strconv.ParseInt(v, 10, 64); err == nil {
			event.Timestamp = time.Unix(0, ns)
		}
	}
	return event
}
