package event

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type Event interface {
	Op() string
}

type EventRequest struct {
	Op   string `json:"o"`
	Data any    `json:"d"`
}

func New(ev Event) *EventRequest {
	return &EventRequest{
		Op:   ev.Op(),
		Data: ev,
	}
}

// Parse rebuilds the typed event from a decoded EventRequest, e.g. after the
// request travelled through kafka as JSON.
func Parse(req *EventRequest) (Event, error) {
	var ev Event
	switch req.Op {
	case FollowUserEvent{}.Op():
		ev = &FollowUserEvent{}
	case UnfollowUserEvent{}.Op():
		ev = &UnfollowUserEvent{}
	case LikePostEvent{}.Op():
		ev = &LikePostEvent{}
	case CommentPostEvent{}.Op():
		ev = &CommentPostEvent{}
	case RepostEvent{}.Op():
		ev = &RepostEvent{}
	default:
		return nil, fmt.Errorf("not support event op %s", req.Op)
	}

	if err := mapstructure.Decode(req.Data, ev); err != nil {
		return nil, err
	}

	return ev, nil
}
