package stub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"admin-console/internal/api"
	"admin-console/internal/config"
	"admin-console/internal/engine"
	"admin-console/internal/resource"
	"admin-console/internal/stub"
)

func newTestBackend(t *testing.T) (*stub.Server, *api.Client) {
	t.Helper()
	cfg := config.StubConfig{
		Port:          0,
		JWTSecret:     "test-secret",
		DatabasePath:  ":memory:",
		UploadDir:     t.TempDir(),
		MaxFileSize:   1 << 20,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin",
		Seed:          true,
	}
	server, err := stub.New(context.Background(), cfg, resource.Catalogue())
	if err != nil {
		t.Fatalf("start stub: %v", err)
	}
	t.Cleanup(server.Close)

	token, err := stub.GenerateAccessToken("admin@example.com", cfg.JWTSecret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	client := api.NewClient("http://stub/api",
		api.WithDoer(stub.Transport{App: server.App()}),
		api.WithTokenSource(api.StaticToken(token)),
	)
	return server, client
}

func newTestSession(t *testing.T) *engine.Session {
	t.Helper()
	_, client := newTestBackend(t)
	return engine.NewSession(client, resource.Catalogue(), resource.Relations())
}

func TestLogin(t *testing.T) {
	server, _ := newTestBackend(t)
	transport := stub.Transport{App: server.App()}

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "admin"})
	req, _ := http.NewRequest(http.MethodPost, "http://stub/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := transport.Do(req)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data.AccessToken == "" {
		t.Fatalf("login failed: %+v", env)
	}

	// wrong password is rejected with the envelope convention
	body, _ = json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	req, _ = http.NewRequest(http.MethodPost, "http://stub/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = transport.Do(req)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	var fail struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fail.Success {
		t.Fatal("wrong password must fail")
	}
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	server, _ := newTestBackend(t)
	bare := api.NewClient("http://stub/api",
		api.WithDoer(stub.Transport{App: server.App()}))

	_, _, err := bare.List(context.Background(), "jobs", 1, 10)
	if err == nil {
		t.Fatal("expected 401 failure without a token")
	}
}

func TestListAndDetailRoundTrip(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	if err := session.SwitchResource("jobs"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	list := session.List()
	if err := list.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if list.Total() != 2 {
		t.Fatalf("seeded jobs total = %d, want 2", list.Total())
	}

	detail, err := session.Detail()
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	row, err := detail.Load(ctx, []string{"j-1"})
	if err != nil {
		t.Fatalf("load j-1: %v", err)
	}
	if row["title"] != "Backend Engineer" {
		t.Fatalf("title = %v", row["title"])
	}
	skills, ok := row["skills"].([]any)
	if !ok || len(skills) != 2 {
		t.Fatalf("included skills = %v", row["skills"])
	}
}

func TestEditFlowReconcilesJoinRows(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	if err := session.SwitchResource("jobs"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	detail, _ := session.Detail()
	row, err := detail.Load(ctx, []string{"j-1"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	editor, err := session.OpenEditor(ctx, engine.ModeEdit, row)
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	// companyId must render as a relation select backed by seeded companies
	if w := editor.Widget("companyId"); w != engine.WidgetRelationSelect {
		t.Fatalf("companyId widget = %v", w)
	}

	// seeded skills are {s-1, s-2}; deselect s-2, select s-3
	editor.Set("title", "Senior Backend Engineer")
	editor.ToggleJoin("skills", "s-2", false)
	editor.ToggleJoin("skills", "s-3", true)

	saved, reports, err := editor.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if saved["title"] != "Senior Backend Engineer" {
		t.Fatalf("saved title = %v", saved["title"])
	}
	for _, report := range reports {
		if report.Failed != 0 {
			t.Fatalf("join sync failed: %s", report)
		}
	}

	// verify convergence: exactly {s-1, s-3} remain for j-1
	fresh, err := detail.Load(ctx, []string{"j-1"})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	ids := map[string]bool{}
	for _, item := range fresh["skills"].([]any) {
		ids[item.(map[string]any)["id"].(string)] = true
	}
	if len(ids) != 2 || !ids["s-1"] || !ids["s-3"] {
		t.Fatalf("skills after sync = %v, want {s-1, s-3}", ids)
	}
}

func TestCreateFlowGeneratesIdentityAndJoins(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	if err := session.SwitchResource("jobs"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	editor, err := session.OpenEditor(ctx, engine.ModeCreate, nil)
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	editor.Set("title", "Platform Engineer")
	editor.Set("companyId", "c-1")
	editor.Set("type", "FULL_TIME")
	editor.Set("status", "DRAFT")
	editor.Set("salaryMin", "90000")
	editor.ToggleJoin("skills", "s-3", true)
	editor.ToggleJoin("skills", "s-4", true)

	saved, reports, err := editor.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	id, _ := saved["id"].(string)
	if id == "" {
		t.Fatal("backend must generate an id")
	}
	for _, report := range reports {
		if report.Failed != 0 {
			t.Fatalf("join sync failed: %s", report)
		}
	}

	detail, _ := session.Detail()
	fresh, err := detail.Load(ctx, []string{id})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(fresh["skills"].([]any)); got != 2 {
		t.Fatalf("created job has %d skills, want 2", got)
	}
	if fresh["createdAt"] == nil {
		t.Fatal("backend must stamp createdAt")
	}
}

func TestEnumValidationSurfacesServerMessage(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	if err := session.SwitchResource("jobs"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	detail, _ := session.Detail()
	row, err := detail.Load(ctx, []string{"j-1"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	editor, _ := session.OpenEditor(ctx, engine.ModeEdit, row)
	editor.Set("status", "BOGUS")
	_, _, err = editor.Submit(ctx)
	if err == nil {
		t.Fatal("expected enum validation failure")
	}
	if !strings.Contains(err.Error(), "Invalid value for status") {
		t.Fatalf("err = %v", err)
	}
	// draft survives for correction
	if editor.Get("status") != "BOGUS" {
		t.Fatal("draft must be preserved after rejection")
	}
}

func TestDeleteRoundTrip(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	if err := session.SwitchResource("applications"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	detail, _ := session.Detail()
	if err := detail.Delete(ctx, []string{"a-1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := detail.Load(ctx, []string{"a-1"})
	if !api.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestUploadRoundTrip(t *testing.T) {
	_, client := newTestBackend(t)

	url, err := client.Upload(context.Background(), "logo.png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, "_logo.png") {
		t.Fatalf("url = %q", url)
	}
}

func TestCompositeKeyResourceCRUD(t *testing.T) {
	_, client := newTestBackend(t)
	ctx := context.Background()

	// join rows are addressed by both key values in path order
	if _, err := client.Create(ctx, "job-skills", api.Row{"jobId": "j-2", "skillId": "s-1"}); err != nil {
		t.Fatalf("create join row: %v", err)
	}
	// duplicate identity is rejected
	if _, err := client.Create(ctx, "job-skills", api.Row{"jobId": "j-2", "skillId": "s-1"}); err == nil {
		t.Fatal("duplicate join row must fail")
	}
	if err := client.Delete(ctx, "job-skills", []string{"j-2", "s-1"}); err != nil {
		t.Fatalf("delete join row: %v", err)
	}
	if err := client.Delete(ctx, "job-skills", []string{"j-2", "s-1"}); err == nil {
		t.Fatal("second delete must report not found")
	}
}
