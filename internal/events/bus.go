// Package events re-emits relay happenings on an in-process pub/sub bus so
// side channels (chat mirrors, automation) can listen without touching the
// engine. Delivery is best-effort: a publish failure is logged, never fatal.
package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
)

// Topics carried on the bus.
const (
	TopicScoreReceived      = "relay.score.received"
	TopicSongFinished       = "relay.song.finished"
	TopicMatchCreated       = "relay.match.created"
	TopicAllPlayersFinished = "relay.song.all_finished"
)

// Bus wraps a watermill gochannel pub/sub.
type Bus struct {
	pubSub *gochannel.GoChannel
	log    logger.Logger
}

// NewBus creates the bus with a buffered output channel per subscriber.
func NewBus(log logger.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermillAdapter{log: log.Named("watermill")},
		),
		log: log,
	}
}

// Subscribe returns a channel of messages for a topic. Payloads are the
// JSON-encoded domain objects published by the engine.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

// Close shuts down the pub/sub and closes subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// ScoreReceived re-emits a live score payload.
func (b *Bus) ScoreReceived(score model.RealtimeScore) {
	b.publish(TopicScoreReceived, score)
}

// SongFinished re-emits a finish payload.
func (b *Bus) SongFinished(finished model.SongFinished) {
	b.publish(TopicSongFinished, finished)
}

// MatchCreated re-emits a newly watched match.
func (b *Bus) MatchCreated(match model.Match) {
	b.publish(TopicMatchCreated, match)
}

// AllPlayersFinished signals that every player on the watched match has a
// recorded score for the level. No payload.
func (b *Bus) AllPlayersFinished() {
	b.publish(TopicAllPlayersFinished, struct{}{})
}

func (b *Bus) publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error(context.Background(), "marshal event payload",
			logger.String("topic", topic), logger.Error(err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		b.log.Error(context.Background(), "publish event",
			logger.String("topic", topic), logger.Error(err))
	}
}

// watermillAdapter bridges watermill's logger to pkg/logger.
type watermillAdapter struct {
	log    logger.Logger
	fields watermill.LogFields
}

func (a watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(context.Background(), msg, append(a.convert(fields), logger.Error(err))...)
}

func (a watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(context.Background(), msg, a.convert(fields)...)
}

func (a watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(context.Background(), msg, a.convert(fields)...)
}

func (a watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(context.Background(), msg, a.convert(fields)...)
}

func (a watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillAdapter{log: a.log, fields: a.fields.Add(fields)}
}

func (a watermillAdapter) convert(fields watermill.LogFields) []logger.Field {
	merged := a.fields.Add(fields)
	out := make([]logger.Field, 0, len(merged))
	for k, v := range merged {
		out = append(out, logger.Any(k, v))
	}
	return out
}
