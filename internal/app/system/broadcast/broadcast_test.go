package broadcast_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hack24/api/internal/app/system/broadcast"
	"go.uber.org/zap"
)

type recordedPost struct {
	path string
	body []byte
}

type relayServer struct {
	mu    sync.Mutex
	posts []recordedPost
	srv   *httptest.Server
}

func newRelayServer(t *testing.T, status int) *relayServer {
	t.Helper()
	relay := &relayServer{}
	relay.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		relay.mu.Lock()
		relay.posts = append(relay.posts, recordedPost{path: r.URL.Path, body: body})
		relay.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(relay.srv.Close)
	return relay
}

func (r *relayServer) waitForPosts(t *testing.T, n int) []recordedPost {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		if len(r.posts) >= n {
			posts := append([]recordedPost(nil), r.posts...)
			r.mu.Unlock()
			return posts
		}
		r.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d posts", n)
	return nil
}

func TestTrigger_PostsToRelay(t *testing.T) {
	relay := newRelayServer(t, http.StatusOK)

	b := broadcast.New(relay.srv.URL+"/apps/1234", zap.NewNop())
	b.Start()
	defer b.Stop()

	b.Trigger("users_add", map[string]string{"userid": "joe", "name": "Joe Bloggs"})

	posts := relay.waitForPosts(t, 1)
	if posts[0].path != "/apps/1234/events" {
		t.Errorf("path: got %q, want %q", posts[0].path, "/apps/1234/events")
	}

	var payload struct {
		Name     string   `json:"name"`
		Data     string   `json:"data"`
		Channels []string `json:"channels"`
	}
	if err := json.Unmarshal(posts[0].body, &payload); err != nil {
		t.Fatalf("failed to parse relay payload: %v", err)
	}
	if payload.Name != "users_add" {
		t.Errorf("name: got %q", payload.Name)
	}
	if len(payload.Channels) != 1 || payload.Channels[0] != "api_events" {
		t.Errorf("channels: got %v", payload.Channels)
	}

	// Data must arrive as a JSON string, not a nested object.
	var data map[string]string
	if err := json.Unmarshal([]byte(payload.Data), &data); err != nil {
		t.Fatalf("data is not an embedded JSON string: %v", err)
	}
	if data["userid"] != "joe" || data["name"] != "Joe Bloggs" {
		t.Errorf("data: got %v", data)
	}
}

func TestTrigger_DeliversEachEvent(t *testing.T) {
	relay := newRelayServer(t, http.StatusOK)

	b := broadcast.New(relay.srv.URL+"/apps/1234", zap.NewNop())
	b.Start()
	defer b.Stop()

	b.Trigger("teams_update_members_add", map[string]string{"member": "a"})
	b.Trigger("teams_update_members_add", map[string]string{"member": "b"})
	b.Trigger("teams_update_members_add", map[string]string{"member": "c"})

	posts := relay.waitForPosts(t, 3)
	if len(posts) != 3 {
		t.Errorf("posts: got %d, want 3", len(posts))
	}
}

func TestStop_DeliversQueuedEvents(t *testing.T) {
	relay := newRelayServer(t, http.StatusOK)

	b := broadcast.New(relay.srv.URL+"/apps/1234", zap.NewNop())

	// Queue before the worker runs so everything is still buffered when
	// the stop signal lands.
	b.Trigger("users_add", map[string]string{"userid": "a"})
	b.Trigger("users_add", map[string]string{"userid": "b"})
	b.Trigger("users_add", map[string]string{"userid": "c"})

	b.Start()
	b.Stop()

	relay.mu.Lock()
	defer relay.mu.Unlock()
	if len(relay.posts) != 3 {
		t.Errorf("posts after Stop: got %d, want 3", len(relay.posts))
	}
}

func TestTrigger_RelayFailureIsSwallowed(t *testing.T) {
	relay := newRelayServer(t, http.StatusBadGateway)

	b := broadcast.New(relay.srv.URL+"/apps/1234", zap.NewNop())
	b.Start()

	b.Trigger("hacks_add", map[string]string{"hackid": "best-hack"})
	relay.waitForPosts(t, 1)

	// A failed delivery must not break the worker or the caller.
	b.Trigger("hacks_add", map[string]string{"hackid": "second-hack"})
	relay.waitForPosts(t, 2)

	b.Stop()
}
