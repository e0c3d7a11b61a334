// Package broadcast fans out domain-change events to the pub/sub relay.
//
// Trigger only enqueues; a background worker posts each event to the
// relay's events endpoint. Delivery is best effort: transport failures
// are logged and never retried, and nothing about a failed broadcast
// reaches the request that caused it.
package broadcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Channel every event is broadcast on.
const eventsChannel = "api_events"

const queueSize = 64

type event struct {
	Name string
	Data any
}

// relayPayload is the body POSTed to <relayURL>/events. Data is a JSON
// string, not a nested object; that is what the relay expects.
type relayPayload struct {
	Name     string   `json:"name"`
	Data     string   `json:"data"`
	Channels []string `json:"channels"`
}

// Broadcaster is the fire-and-forget event fan-out worker.
type Broadcaster struct {
	relayURL string
	client   *http.Client
	log      *zap.Logger

	queue  chan event
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Broadcaster posting to relayURL, which includes the app
// path (e.g. https://relay.example.com/apps/1234).
func New(relayURL string, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		relayURL: relayURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      logger,
		queue:    make(chan event, queueSize),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (b *Broadcaster) Start() {
	b.wg.Add(1)
	go b.run()
	b.log.Info("event broadcaster started", zap.String("relay_url", b.relayURL))
}

// Stop signals the worker and waits for it. Events already queued get
// their delivery attempt before the worker exits; only delivery itself
// stays best effort.
func (b *Broadcaster) Stop() {
	close(b.stopCh)
	b.wg.Wait()
	b.log.Info("event broadcaster stopped")
}

// Trigger enqueues one event. It never blocks the caller: when the queue
// is full the event is dropped and logged. Callers make one call per
// changed item; the relay never receives batches.
func (b *Broadcaster) Trigger(name string, data any) {
	select {
	case b.queue <- event{Name: name, Data: data}:
	default:
		b.log.Warn("event queue full, dropping event", zap.String("event", name))
	}
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stopCh:
			// Flush what is already queued, then exit.
			for {
				select {
				case ev := <-b.queue:
					b.send(ev)
				default:
					return
				}
			}
		case ev := <-b.queue:
			b.send(ev)
		}
	}
}

func (b *Broadcaster) send(ev event) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		b.log.Error("event payload marshal failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}

	body, err := json.Marshal(relayPayload{
		Name:     ev.Name,
		Data:     string(data),
		Channels: []string{eventsChannel},
	})
	if err != nil {
		b.log.Error("event body marshal failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}

	resp, err := b.client.Post(fmt.Sprintf("%s/events", b.relayURL), "application/json", bytes.NewReader(body))
	if err != nil {
		b.log.Error("event broadcast failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.log.Error("event broadcast rejected",
			zap.String("event", ev.Name),
			zap.Int("status", resp.StatusCode))
		return
	}

	b.log.Info("event broadcast", zap.String("event", ev.Name))
}
