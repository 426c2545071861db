package common

import (
	"context"
	"encoding/json"

	"github.com/pulselab/backend/internal/domain/notification/event"
	"github.com/pulselab/backend/pkg/pubsub"
	"github.com/pulselab/backend/pkg/xcontext"
)

// PublishSocialEvent sends a social event to the notification topic. It is
// best effort: dependent writes are already committed, so a broker outage
// only costs a notification, never consistency.
func PublishSocialEvent(ctx context.Context, publisher pubsub.Publisher, ev event.Event, key string) {
	if publisher == nil {
		return
	}

	b, err := json.Marshal(event.New(ev))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", ev.Op(), err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.SocialTopic
	if err := publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %s: %v", ev.Op(), err)
	}
}
