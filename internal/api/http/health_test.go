package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthOf(t *testing.T, h *HealthHandler) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth_Disabled(t *testing.T) {
	resp := healthOf(t, NewHealthHandler("noder", "test", nil, nil))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "disabled", resp.Redis)
}

func TestHealth_RedisUpDBDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	redisPing := PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	dbPing := PingFunc(func(context.Context) error { return errors.New("refused") })

	resp := healthOf(t, NewHealthHandler("noder", "test", dbPing, redisPing))
	assert.Equal(t, "up", resp.Redis)
	assert.Equal(t, "down", resp.DB)
}
