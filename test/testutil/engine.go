package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// SubmittedJob is a create-job request received by the fake engine.
type SubmittedJob struct {
	ID    string
	Tag   string
	Tasks map[string]map[string]any
}

// Engine is an in-process stand-in for the remote jobs API. Every job it
// accepts reports "finished" on the first poll, unless FailWith is set.
type Engine struct {
	Server *httptest.Server

	mu       sync.Mutex
	jobs     []SubmittedJob
	FailWith string
}

func StartEngine() *Engine {
	e := &Engine{}
	e.Server = httptest.NewServer(http.HandlerFunc(e.serve))
	return e
}

func (e *Engine) Close() { e.Server.Close() }

func (e *Engine) Jobs() []SubmittedJob {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]SubmittedJob(nil), e.jobs...)
}

func (e *Engine) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/jobs":
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Tag   string                    `json:"tag"`
			Tasks map[string]map[string]any `json:"tasks"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid body","code":"INVALID_DATA"}`))
			return
		}
		e.mu.Lock()
		id := fmt.Sprintf("job-%d", len(e.jobs)+1)
		e.jobs = append(e.jobs, SubmittedJob{ID: id, Tag: body.Tag, Tasks: body.Tasks})
		e.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"data":{"id":%q,"tag":%q,"status":"waiting"}}`, id, body.Tag)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/jobs/"):
		id := strings.TrimPrefix(r.URL.Path, "/v2/jobs/")
		e.mu.Lock()
		failWith := e.FailWith
		e.mu.Unlock()
		if failWith != "" {
			_, _ = fmt.Fprintf(w, `{"data":{"id":%q,"status":"error","tasks":[{"name":"convert-image-100x100","status":"error","message":%q}]}}`, id, failWith)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"id":%q,"status":"finished"}}`, id)

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found","code":"NOT_FOUND"}`))
	}
}
