package viewmodel

import "sync/atomic"

// Observer receives the three presentation notifications. Calls always
// arrive on the view model's Dispatcher.
type Observer interface {
	OnUpdated()
	OnLoadingFinished()
	OnError(message string)
}

// ObserverFuncs adapts optional callbacks to Observer.
type ObserverFuncs struct {
	Updated         func()
	LoadingFinished func()
	Error           func(message string)
}

func (o ObserverFuncs) OnUpdated() {
	if o.Updated != nil {
		o.Updated()
	}
}

func (o ObserverFuncs) OnLoadingFinished() {
	if o.LoadingFinished != nil {
		o.LoadingFinished()
	}
}

func (o ObserverFuncs) OnError(message string) {
	if o.Error != nil {
		o.Error(message)
	}
}

type EventKind int

const (
	EventUpdated EventKind = iota + 1
	EventLoadingFinished
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventUpdated:
		return "updated"
	case EventLoadingFinished:
		return "loading_finished"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind    EventKind
	Message string // set for EventError only
}

// ChannelObserver turns notifications into an ordered event stream.
// A full buffer drops the event rather than stalling the dispatcher.
type ChannelObserver struct {
	events  chan Event
	dropped atomic.Int64
}

func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{
		events: make(chan Event, buffer),
	}
}

func (c *ChannelObserver) Events() <-chan Event {
	return c.events
}

// Dropped reports how many events were lost to a full buffer.
func (c *ChannelObserver) Dropped() int64 {
	return c.dropped.Load()
}

func (c *ChannelObserver) OnUpdated() {
	c.send(Event{Kind: EventUpdated})
}

func (c *ChannelObserver) OnLoadingFinished() {
	c.send(Event{Kind: EventLoadingFinished})
}

func (c *ChannelObserver) OnError(message string) {
	c.send(Event{Kind: EventError, Message: message})
}

func (c *ChannelObserver) send(e Event) {
	select {
	case c.events <- e:
	default:
		c.dropped.Add(1)
	}
}
