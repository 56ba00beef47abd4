package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/WTVConsoleGo/pkg/calendar"
	"github.com/PancyStudios/WTVConsoleGo/pkg/console"
	"github.com/PancyStudios/WTVConsoleGo/pkg/store/memory"
)

type testAPI struct {
	server *Server
	svc    *console.Service
	feed   *Feed
}

func newTestAPI(t *testing.T, opts memory.Options) *testAPI {
	t.Helper()
	opts.Seed = true
	opts.Clock = calendar.FixedAt(calendar.MustParse("2024-06-01"))

	mem, err := memory.New(opts)
	require.NoError(t, err)

	feed := NewFeed(nil)
	svc := console.New(mem.Repositories(), opts.Clock, console.WithPublisher(feed))
	feed.backlog = BacklogFrom(svc)

	s, err := NewServer("", "")
	require.NoError(t, err)
	SetupAPIRoutes(s, NewConsoleHandler(svc, nil), feed)

	return &testAPI{server: s, svc: svc, feed: feed}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.server.Engine().ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (a *testAPI) doList(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, []map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.server.Engine().ServeHTTP(w, req)

	var out []map[string]interface{}
	if w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func errorCode(body map[string]interface{}) string {
	detail, _ := body["error"].(map[string]interface{})
	code, _ := detail["code"].(string)
	return code
}

func errorMessage(body map[string]interface{}) string {
	detail, _ := body["error"].(map[string]interface{})
	msg, _ := detail["message"].(string)
	return msg
}

func TestHealthAndStatus(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, body := api.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	w, body = api.do(t, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-06-01", body["today"])
	store := body["store"].(map[string]interface{})
	assert.Equal(t, "memory", store["backend"])
	assert.Equal(t, true, store["isOnline"])
}

func TestDashboardEndpoint(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, body := api.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 5, stats["totalClients"])
	assert.EqualValues(t, 4, stats["activeClients"])
	assert.EqualValues(t, 1, stats["expiringSoon"])
	assert.EqualValues(t, 3, stats["totalPlans"])
	assert.Len(t, body["upcoming"], 1)
}

func TestClientEndpoints(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, list := api.doList(t, http.MethodGet, "/api/clients?q=silva", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "client1", list[0]["id"])
	assert.Equal(t, "Vencendo", list[0]["statusLabel"])

	w, list = api.doList(t, http.MethodGet, "/api/clients?sort=expirationDate&order=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client5", list[0]["id"])

	w, body := api.do(t, http.MethodGet, "/api/clients/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(body))

	w, body = api.do(t, http.MethodPost, "/api/clients", `{"fullName": "Sem Plano"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", errorCode(body))

	w, body = api.do(t, http.MethodPost, "/api/clients", `{"fullName": "Sem Plano", "serverId": "server1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_missing", errorCode(body))
	assert.Equal(t, "Por favor, selecione um plano e um servidor.", errorMessage(body))

	w, body = api.do(t, http.MethodPost, "/api/clients", `{
		"fullName": "Lucas Souza", "phone": "41999990000", "cityState": "Curitiba/PR",
		"iptvLogin": "lucas", "planId": "plan1", "serverId": "server1", "expirationDate": "2024-06-20"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2024-06-01", body["activationDate"])
	assert.Equal(t, "Plano Básico", body["planName"])
	id := body["id"].(string)

	w, _ = api.do(t, http.MethodDelete, "/api/clients/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRenewAndReminder(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, body := api.do(t, http.MethodPost, "/api/clients/client3/renew", "")
	require.Equal(t, http.StatusOK, w.Code)
	client := body["client"].(map[string]interface{})
	assert.Equal(t, "2024-07-01", client["expirationDate"])
	assert.Equal(t, false, client["hasReminder"])
	assert.Equal(t, "2024-05-22", body["previousExpiration"])

	w, body = api.do(t, http.MethodPut, "/api/clients/client2/reminder", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_missing", errorCode(body))

	w, body = api.do(t, http.MethodPut, "/api/clients/client2/reminder", `{"hasReminder": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["hasReminder"])
}

func TestCatalogEndpoints(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, body := api.do(t, http.MethodPost, "/api/plans", `{"name": "Plano Família", "monthlyValue": 70}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["id"].(string)
	assert.EqualValues(t, 70, body["monthlyValue"])

	w, body = api.do(t, http.MethodPost, "/api/plans", `{"name": "Negativo", "monthlyValue": -5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_missing", errorCode(body))

	w, _ = api.do(t, http.MethodPut, "/api/servers/ghost", `{"name": "x", "url": "y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, list := api.doList(t, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list, 3)

	w, _ = api.do(t, http.MethodDelete, "/api/plans/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = api.do(t, http.MethodGet, "/api/plans/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignEndpoints(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, list := api.doList(t, http.MethodGet, "/api/campaigns", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list, 3)

	w, body := api.do(t, http.MethodGet, "/api/campaigns/three-day", "")
	require.Equal(t, http.StatusOK, w.Code)
	targets := body["targets"].([]interface{})
	require.Len(t, targets, 1)
	target := targets[0].(map[string]interface{})
	assert.True(t, strings.HasPrefix(target["link"].(string), "https://api.whatsapp.com/send?phone=5511987654321"))

	w, _ = api.do(t, http.MethodGet, "/api/campaigns/weekly", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/campaigns/three-day/confirm", `{"clientIds": ["client2"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, logs := api.doList(t, http.MethodPost, "/api/campaigns/three-day/confirm", `{"clientIds": ["client1"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, logs, 1)
	assert.Equal(t, "client1", logs[0]["clientId"])

	w, history := api.doList(t, http.MethodGet, "/api/notifications?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, history, 2)
	assert.Equal(t, logs[0]["id"], history[0]["id"])
}

func TestRecordNotificationsEndpoint(t *testing.T) {
	api := newTestAPI(t, memory.Options{})

	w, logs := api.doList(t, http.MethodPost, "/api/notifications", `[
		{"clientId": "client2", "clientName": "Maria Oliveira", "message": "Olá"},
		{"clientId": "client4", "clientName": "Ana Costa", "message": "Olá"}
	]`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, logs, 2)
	assert.Equal(t, logs[0]["sentAt"], logs[1]["sentAt"])
	assert.NotEqual(t, logs[0]["id"], logs[1]["id"])

	w, _ = api.doList(t, http.MethodPost, "/api/notifications", `[]`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUnknownRouteAndHost(t *testing.T) {
	api := newTestAPI(t, memory.Options{})
	w, body := api.do(t, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route_not_found", errorCode(body))

	s, err := NewServer("", `^localhost(:\d+)?$`)
	require.NoError(t, err)
	s.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "localhost:3000"
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = NewServer("", "([")
	assert.Error(t, err)
}

func TestStorageFailureIs503(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wtv.json")
	api := newTestAPI(t, memory.Options{Path: path})

	require.NoError(t, os.Mkdir(path+".tmp", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path+".tmp", "x"), []byte("x"), 0o644))

	w, body := api.do(t, http.MethodPost, "/api/clients/client1/renew", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_unavailable", errorCode(body))

	w, _ = api.do(t, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNotificationFeed(t *testing.T) {
	api := newTestAPI(t, memory.Options{})
	ts := httptest.NewServer(api.server.Engine())
	defer ts.Close()
	defer api.feed.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var backlog struct {
		Type string                   `json:"type"`
		Data []map[string]interface{} `json:"data"`
	}
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(frame, &backlog))
	assert.Equal(t, EventBacklog, backlog.Type)
	assert.Len(t, backlog.Data, 2)
	assert.Equal(t, 1, api.feed.Subscribers())

	_, err = api.svc.ConfirmSends(context.Background(), "three-day", []string{"client1"})
	require.NoError(t, err)

	var event struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	_, frame, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, console.EventNotificationRecorded, event.Type)
	assert.Equal(t, "client1", event.Data["clientId"])
}
