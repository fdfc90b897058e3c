package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	return c
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func signupAndListBoards(t *testing.T, h http.Handler) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"pw"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/users/1", rec.Header().Get("Location"))

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsonDecode(rec, &body))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users/1/boards", nil)
		req.Header.Set("Authorization", "Bearer "+body.Token)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestNewApp_Memory(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	signupAndListBoards(t, app.Handler())
}

func TestNewApp_SQLiteWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c := testConfig()
	c.Driver = config.DriverSQLite
	c.DatabaseDSN = filepath.Join(t.TempDir(), "taskboard.db")
	c.RedisAddr = mr.Addr()

	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	signupAndListBoards(t, app.Handler())

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "taskboard:token:"))

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `go_sql_open_connections{db_name="sqlite"}`)
}

func TestNewApp_RejectsSharedCacheOverVolatileStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, tc := range []struct{ driver, dsn string }{
		{config.DriverMemory, ""},
		{config.DriverSQLite, ":memory:"},
	} {
		t.Run(tc.driver, func(t *testing.T) {
			c := testConfig()
			c.Driver, c.DatabaseDSN = tc.driver, tc.dsn
			c.RedisAddr = mr.Addr()

			_, err := newApp(context.Background(), c, logging.NopLogger{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "requires durable storage")
		})
	}
	assert.Empty(t, mr.Keys())
}

func TestNewApp_BadDSN(t *testing.T) {
	c := testConfig()
	c.Driver = config.DriverPostgres
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := newApp(context.Background(), c, logging.NopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_RunFailsOnBusyAddress(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()

	c := testConfig()
	c.HTTPAddr = strings.TrimPrefix(busy.URL, "http://")
	app, err := newApp(context.Background(), c, logging.NopLogger{})
	require.NoError(t, err)

	require.Error(t, app.Run(context.Background()))
}
