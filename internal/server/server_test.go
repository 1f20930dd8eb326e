package server

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moderation/internal/conf"
	"moderation/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConf() *conf.Server {
	return &conf.Server{
		HTTP: &conf.Server_HTTP{Addr: "127.0.0.1:0", Timeout: conf.Duration(time.Second)},
		GRPC: &conf.Server_GRPC{Addr: "127.0.0.1:0", Timeout: conf.Duration(time.Second)},
	}
}

func TestHTTPServer_Routes(t *testing.T) {
	svc := service.NewModerationService(nil, nil, nil, log.DefaultLogger)
	srv := NewHTTPServer(testConf(), svc, log.DefaultLogger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to ModeraAI")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/metrics", nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGRPCServer_New(t *testing.T) {
	srv := NewGRPCServer(testConf(), service.NewHealthService(nil), log.DefaultLogger)
	assert.NotNil(t, srv)
}
