package service

import (
	"sync/atomic"

	"github.com/mirchandani-mohnish/ytanalytics/internal/model"
)

var subscriberSeq atomic.Uint64

// Subscriber is one consumer of a query's aggregate results. Delivery is
// at-most-once per refresh cycle: a subscriber whose buffer is full simply
// misses that cycle, so one slow consumer can never block the coordinator or
// the other subscribers.
type Subscriber struct {
	id uint64
	ch chan *model.AggregateResult
}

// NewSubscriber creates a subscriber with the given delivery buffer size.
func NewSubscriber(buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}
	return &Subscriber{
		id: subscriberSeq.Add(1),
		ch: make(chan *model.AggregateResult, buffer),
	}
}

// Updates returns the result stream. It is closed when the subscriber is
// unregistered or its coordinator shuts down.
func (s *Subscriber) Updates() <-chan *model.AggregateResult {
	return s.ch
}

// deliver pushes a result without blocking. Reports whether it was accepted.
func (s *Subscriber) deliver(res *model.AggregateResult) bool {
	select {
	case s.ch <- res:
		return true
	default:
		return false
	}
}
