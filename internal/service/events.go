package service

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Club events
	EventMemberJoined EventType = "club.member_joined"
	EventMemberLeft   EventType = "club.member_left"
	EventClubMerged   EventType = "club.merged"

	// Meeting events
	EventMeetingCreated EventType = "meeting.created"
	EventMeetingUpdated EventType = "meeting.updated"
	EventMeetingDeleted EventType = "meeting.deleted"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// Event represents a server-sent event
type Event struct {
	Type   EventType   `json:"type"`
	Data   interface{} `json:"data"`
	ClubID string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID     string
	ClubID string
	Events chan *Event
	Done   chan struct{}
}

// EventHub manages SSE subscriptions and event broadcasting
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // clubID -> subscriberID -> subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	hub := &EventHub{
		subscribers: make(map[string]map[string]*Subscriber),
		done:        make(chan struct{}),
	}
	// Start heartbeat
	hub.heartbeat = time.NewTicker(30 * time.Second)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a club
func (h *EventHub) Subscribe(clubID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		ClubID: clubID,
		Events: make(chan *Event, 100), // Buffer to prevent blocking
		Done:   make(chan struct{}),
	}

	if h.subscribers[clubID] == nil {
		h.subscribers[clubID] = make(map[string]*Subscriber)
	}
	h.subscribers[clubID][subscriberID] = sub

	return sub
}

// Unsubscribe removes a subscriber
func (h *EventHub) Unsubscribe(clubID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clubSubs, ok := h.subscribers[clubID]; ok {
		if sub, ok := clubSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(clubSubs, subscriberID)
		}
		if len(clubSubs) == 0 {
			delete(h.subscribers, clubID)
		}
	}
}

// Publish sends an event to all subscribers of a club
func (h *EventHub) Publish(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clubSubs, ok := h.subscribers[event.ClubID]
	if !ok {
		return
	}

	for _, sub := range clubSubs {
		select {
		case sub.Events <- event:
			// Event sent successfully
		default:
			// Buffer full, skip this subscriber
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *EventHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			event := &Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			}
			for clubID, clubSubs := range h.subscribers {
				event.ClubID = clubID
				for _, sub := range clubSubs {
					select {
					case sub.Events <- event:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the event hub
func (h *EventHub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for clubID, clubSubs := range h.subscribers {
		for _, sub := range clubSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.subscribers, clubID)
	}
}

// SubscriberCount returns the number of subscribers for a club
func (h *EventHub) SubscriberCount(clubID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clubSubs, ok := h.subscribers[clubID]; ok {
		return len(clubSubs)
	}
	return 0
}
