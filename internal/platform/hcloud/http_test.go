package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hostparty/hostparty/internal/config"
	"github.com/hostparty/hostparty/internal/provider"
	"github.com/hostparty/hostparty/internal/util/labels"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{server: server, mux: mux}
}

// client returns a Client configured to use the test server.
func (ts *testServer) client(args Args) *Client {
	return NewClient(args,
		WithNamespace("party"),
		WithHCloudClient(hcloud.NewClient(
			hcloud.WithToken("test-token"),
			hcloud.WithEndpoint(ts.server.URL),
		)),
		WithTimeouts(&config.Timeouts{
			ServerCreate:      10 * time.Second,
			Delete:            10 * time.Second,
			RetryMaxAttempts:  2,
			RetryInitialDelay: 10 * time.Millisecond,
		}),
	)
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func notFound(w http.ResponseWriter) {
	jsonResponse(w, http.StatusNotFound, schema.ErrorResponse{
		Error: schema.Error{Code: string(hcloud.ErrorCodeNotFound), Message: "not found"},
	})
}

func runningServer(id int64, name, ip string) schema.Server {
	return schema.Server{
		ID:     id,
		Name:   name,
		Status: string(hcloud.ServerStatusRunning),
		PublicNet: schema.ServerPublicNet{
			IPv4: schema.ServerPublicNetIPv4{IP: ip},
		},
	}
}

func registerCreateDependencies(ts *testServer) {
	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{
			ServerTypes: []schema.ServerType{{ID: 1, Name: "cx22", Architecture: string(hcloud.ArchitectureX86)}},
		})
	})
	ts.handleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("architecture") != string(hcloud.ArchitectureX86) {
			jsonResponse(w, http.StatusOK, schema.ImageListResponse{Images: []schema.Image{}})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ImageListResponse{
			Images: []schema.Image{{ID: 2, Name: hcloud.Ptr("debian-12"), Architecture: string(hcloud.ArchitectureX86)}},
		})
	})
}

func TestClient_CreateInstance(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	registerCreateDependencies(ts)

	var body map[string]interface{}
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schema.Server{ID: 42, Name: "party-abcde", Status: string(hcloud.ServerStatusInitializing)},
			Action: schema.Action{ID: 7, Status: string(hcloud.ActionStatusRunning), Command: "create_server"},
		})
	})

	inst, err := ts.client(Args{}).CreateInstance(context.Background(), "party-abcde", "#!/bin/sh\necho hi\n")
	require.NoError(t, err)

	assert.Equal(t, "42", inst.ID)
	assert.Equal(t, "party-abcde", inst.Name)
	assert.Equal(t, provider.StatusBuilding, inst.Status)
	assert.Empty(t, inst.IPAddress)

	assert.Equal(t, "party-abcde", body["name"])
	assert.Equal(t, "#!/bin/sh\necho hi\n", body["user_data"])
	serverLabels, ok := body["labels"].(map[string]interface{})
	require.True(t, ok, "labels missing from request: %v", body)
	assert.Equal(t, "party", serverLabels[labels.KeyNamespace])
	assert.Equal(t, "abcde", serverLabels[labels.KeyLabel])
}

func TestClient_CreateInstance_InvalidInputIsNotRetried(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	registerCreateDependencies(ts)

	var calls atomic.Int32
	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		jsonResponse(w, http.StatusUnprocessableEntity, schema.ErrorResponse{
			Error: schema.Error{Code: string(hcloud.ErrorCodeInvalidInput), Message: "invalid name"},
		})
	})

	_, err := ts.client(Args{}).CreateInstance(context.Background(), "party-abcde", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create server")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CreateInstance_UnknownServerType(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{ServerTypes: []schema.ServerType{}})
	})

	_, err := ts.client(Args{ServerType: "cx999"}).CreateInstance(context.Background(), "party-abcde", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server type not found: cx999")
}

func TestClient_GetInstance(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: runningServer(42, "party-abcde", "203.0.113.42")})
	})
	ts.handleFunc("/servers/43", func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	})

	client := ts.client(Args{})

	inst, err := client.GetInstance(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, provider.StatusActive, inst.Status)
	assert.Equal(t, "203.0.113.42", inst.IPAddress)

	_, err = client.GetInstance(context.Background(), "43")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server not found")

	_, err = client.GetInstance(context.Background(), "not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server id")
}

func TestClient_GetInstance_FailedCreateAction(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	registerCreateDependencies(ts)
	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schema.Server{ID: 42, Name: "party-abcde", Status: string(hcloud.ServerStatusInitializing)},
			Action: schema.Action{ID: 7, Status: string(hcloud.ActionStatusRunning), Command: "create_server"},
		})
	})
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{
			Server: schema.Server{ID: 42, Name: "party-abcde", Status: string(hcloud.ServerStatusOff)},
		})
	})
	ts.handleFunc("/actions/7", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ActionGetResponse{
			Action: schema.Action{
				ID:      7,
				Status:  string(hcloud.ActionStatusError),
				Command: "create_server",
				Error:   &schema.ActionError{Code: "server_error", Message: "boot failed"},
			},
		})
	})

	client := ts.client(Args{})
	_, err := client.CreateInstance(context.Background(), "party-abcde", "")
	require.NoError(t, err)

	inst, err := client.GetInstance(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, provider.StatusError, inst.Status)
}

func TestClient_ListInstances(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{
				runningServer(1, "party-abcde", "203.0.113.1"),
				runningServer(2, "other-xyz", "203.0.113.2"),
				{ID: 3, Name: "party-fghij", Status: string(hcloud.ServerStatusStarting)},
			},
		})
	})

	instances, err := ts.client(Args{}).ListInstances(context.Background(), "party-")
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, provider.Instance{ID: "1", Name: "party-abcde", IPAddress: "203.0.113.1", Status: provider.StatusActive}, instances[0])
	assert.Equal(t, provider.StatusBuilding, instances[1].Status)
}

func TestClient_DeleteInstance(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var deleted atomic.Bool
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: runningServer(42, "party-abcde", "203.0.113.42")})
		case http.MethodDelete:
			deleted.Store(true)
			jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
				Action: schema.Action{ID: 9, Status: string(hcloud.ActionStatusRunning), Command: "delete_server"},
			})
		}
	})
	ts.handleFunc("/servers/43", func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	})

	client := ts.client(Args{})

	require.NoError(t, client.DeleteInstance(context.Background(), provider.Instance{ID: "42"}))
	assert.True(t, deleted.Load())

	// already gone
	require.NoError(t, client.DeleteInstance(context.Background(), provider.Instance{ID: "43"}))
}

func TestClient_DeleteInstance_LockedIsRetried(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var attempts atomic.Int32
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: runningServer(42, "party-abcde", "203.0.113.42")})
			return
		}
		if attempts.Add(1) == 1 {
			jsonResponse(w, http.StatusLocked, schema.ErrorResponse{
				Error: schema.Error{Code: string(hcloud.ErrorCodeLocked), Message: "locked"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
			Action: schema.Action{ID: 9, Status: string(hcloud.ActionStatusRunning), Command: "delete_server"},
		})
	})

	require.NoError(t, ts.client(Args{}).DeleteInstance(context.Background(), provider.Instance{ID: "42"}))
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}

func TestNewProvider_RequiresToken(t *testing.T) {
	t.Setenv("HCLOUD_TOKEN", "")
	_, err := NewProvider(nil, provider.Options{Namespace: "party"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hcloud token is required")

	t.Setenv("HCLOUD_TOKEN", "from-env")
	p, err := NewProvider(nil, provider.Options{Namespace: "party"})
	require.NoError(t, err)
	client, ok := p.(*Client)
	require.True(t, ok)
	assert.Equal(t, "from-env", client.args.Token)
	assert.Equal(t, defaultServerType, client.args.ServerType)
	assert.Equal(t, defaultImage, client.args.Image)
}
