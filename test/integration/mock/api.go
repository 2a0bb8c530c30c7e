package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is one call received by ApiMock.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    map[string]any
}

// ApiMock is a stand-in for an external JSON API, such as the Resend email API.
// Responses default to 200 with an id, and can be overridden per method and path.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  []Request
	responses map[string]mockResponse
}

type mockResponse struct {
	status int
	body   map[string]any
}

// NewApiServer creates an unstarted ApiMock.
func NewApiServer() *ApiMock {
	return &ApiMock{responses: map[string]mockResponse{}}
}

// Start starts the mock HTTP server.
func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

// Close stops the mock HTTP server.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// GetUrl returns the base URL of the mock server.
func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	if body == nil {
		body = map[string]any{}
	}

	headers := map[string]string{}
	for key, value := range r.Header {
		headers[key] = value[0]
	}

	a.mu.Lock()
	a.requests = append(a.requests, Request{Method: r.Method, Path: r.URL.Path, Headers: headers, Body: body})
	index := len(a.requests)
	resp, ok := a.responses[r.Method+r.URL.Path]
	a.mu.Unlock()

	if !ok {
		resp = mockResponse{status: http.StatusOK, body: map[string]any{"id": fmt.Sprintf("mock-%d", index)}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse overrides the response for method and path.
func (a *ApiMock) SetResponse(method, path string, status int, body map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+path] = mockResponse{status: status, body: body}
}

// Requests returns the calls received for method and path.
func (a *ApiMock) Requests(method, path string) []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Request
	for _, req := range a.requests {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// Reset forgets received requests and response overrides.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = nil
	a.responses = map[string]mockResponse{}
}
