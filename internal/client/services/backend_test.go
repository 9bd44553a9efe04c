package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/logging"
)

// ---- in-memory token store ----

type memTokens struct {
	mu     sync.Mutex
	token  string
	setErr error
}

func (m *memTokens) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memTokens) current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ---- fake REST backend ----

type fakeBackend struct {
	mu sync.Mutex

	validToken string
	user       models.User
	sermons    []models.BackendSermon
	nextID     int64
	perPage    int
	packages   []models.CreditPackage
	sessions   int64

	requests    int
	authHeaders []string
	paths       []string

	logoutStatus int
	forceStatus  map[string]int
	lastBody     map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		validToken: "tok-abc",
		user:       models.User{ID: 7, Name: "Ruth", Email: "ruth@example.com", Role: "user", Credits: 2},
		nextID:     100,
		perPage:    2,
		packages: []models.CreditPackage{
			{ID: 1, Name: "Starter", SessionsCount: 5, PriceUSD: 999, IsActive: true},
			{ID: 2, Name: "Plus", SessionsCount: 12, PriceUSD: 1999, IsActive: true},
		},
		forceStatus: map[string]int{},
	}
}

func (f *fakeBackend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+f.validToken
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			f.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": f.user, "token": f.validToken})
	})

	mux.HandleFunc("POST /api/v1/register", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != req["password_confirmation"] {
			f.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "The password field confirmation does not match."})
			return
		}
		u := f.user
		u.Name, u.Email = req["name"], req["email"]
		f.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": u, "token": f.validToken})
	})

	mux.HandleFunc("POST /api/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if f.logoutStatus != 0 {
			w.WriteHeader(f.logoutStatus)
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("GET /api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			f.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": f.user})
	})

	mux.HandleFunc("GET /api/v1/sermons", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			f.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		last := (len(f.sermons) + f.perPage - 1) / f.perPage
		if last == 0 {
			last = 1
		}
		start := (page - 1) * f.perPage
		end := start + f.perPage
		if start > len(f.sermons) {
			start = len(f.sermons)
		}
		if end > len(f.sermons) {
			end = len(f.sermons)
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "sermons": map[string]any{
			"data":         f.sermons[start:end],
			"current_page": page,
			"last_page":    last,
			"per_page":     f.perPage,
			"total":        len(f.sermons),
		}})
	})

	mux.HandleFunc("POST /api/v1/sermons", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			f.writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body

		var s models.BackendSermon
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &s)
		f.nextID++
		s.ID = f.nextID
		s.UserID = f.user.ID
		s.CreatedAt = "2024-03-05T10:30:00.000000Z"
		s.UpdatedAt = s.CreatedAt
		f.sermons = append(f.sermons, s)
		f.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "sermon": s})
	})

	mux.HandleFunc("PUT /api/v1/sermons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		for i := range f.sermons {
			if f.sermons[i].ID == id {
				raw, _ := json.Marshal(body)
				_ = json.Unmarshal(raw, &f.sermons[i])
				f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "sermon": f.sermons[i]})
				return
			}
		}
		f.writeJSON(w, http.StatusNotFound, map[string]any{"message": "Sermon not found"})
	})

	mux.HandleFunc("DELETE /api/v1/sermons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		for i := range f.sermons {
			if f.sermons[i].ID == id {
				f.sermons = append(f.sermons[:i], f.sermons[i+1:]...)
				f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
				return
			}
		}
		f.writeJSON(w, http.StatusNotFound, map[string]any{"message": "Sermon not found"})
	})

	mux.HandleFunc("GET /api/v1/credit-packages", func(w http.ResponseWriter, r *http.Request) {
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "packages": f.packages})
	})

	mux.HandleFunc("POST /api/v1/payments/initialize", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true, "authorization_url": "https://pay.example/abc", "reference": "ref_1"})
	})

	mux.HandleFunc("GET /api/v1/conversations", func(w http.ResponseWriter, r *http.Request) {
		f.writeJSON(w, http.StatusOK, models.Conversation{
			ID:         r.URL.Query().Get("conversationId"),
			Status:     "done",
			Transcript: []models.TranscriptLine{{Role: "agent", Message: "Peace be with you"}, {Role: "user", Message: "Thanks"}},
			Metadata:   models.ConversationMetadata{CallDurationSecs: 95},
			Analysis:   models.ConversationAnalysis{CallSummaryTitle: "Finding Peace", TranscriptSummary: "A calm talk"},
		})
	})

	mux.HandleFunc("POST /api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		f.sessions++
		f.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "session": map[string]any{"id": 40 + f.sessions}})
	})

	mux.HandleFunc("POST /api/v1/sessions/{id}/end", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody = body
		f.writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.paths = append(f.paths, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api/v1"))
		if status, ok := f.forceStatus[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api/v1")]; ok {
			f.writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeBackend) lastAuthHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.authHeaders) == 0 {
		return ""
	}
	return f.authHeaders[len(f.authHeaders)-1]
}

// ---- wiring ----

type harness struct {
	backend *fakeBackend
	tokens  *memTokens
	bus     *events.Bus
	client  *api.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fb := newFakeBackend()
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	tokens := &memTokens{}
	bus := events.NewBus()
	client := api.NewClient(srv.URL+"/api/v1", 5*time.Second, tokens, bus, logging.Nop())
	return &harness{backend: fb, tokens: tokens, bus: bus, client: client}
}
