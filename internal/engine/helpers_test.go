package engine

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// fakeDoer routes requests to a handler and records every request it saw.
type fakeDoer struct {
	mu      sync.Mutex
	handler func(req *http.Request) *http.Response
	calls   []string // "METHOD path"
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, req.Method+" "+req.URL.Path)
	d.mu.Unlock()
	return d.handler(req), nil
}

func (d *fakeDoer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func jsonResponse(status int, payload any) *http.Response {
	body, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func listResponse(rows []api.Row, total int) *http.Response {
	return jsonResponse(200, map[string]any{
		"success": true,
		"data":    rows,
		"meta":    map[string]any{"page": 1, "pageSize": len(rows), "total": total},
	})
}

func failResponse(status int, msg string) *http.Response {
	return jsonResponse(status, map[string]any{"success": false, "message": msg})
}

func newTestClient(d api.Doer) *api.Client {
	return api.NewClient("http://backend/api", api.WithDoer(d))
}

func jobsDescriptor() *resource.Descriptor {
	return resource.Catalogue().Lookup("jobs")
}

func resourceCatalogueLookup(t *testing.T, key string) *resource.Descriptor {
	t.Helper()
	desc := resource.Catalogue().Lookup(key)
	if desc == nil {
		t.Fatalf("catalogue is missing %s", key)
	}
	return desc
}
