package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenloop/internal/adapter/api/middleware"
	ws "greenloop/internal/infrastructure/websocket"
)

func TestHandleWebSocketWithoutTokenReturnsUnauthorized(t *testing.T) {
	h := NewWebSocketHandler(ws.NewManager(), middleware.NewAuthMiddleware(nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandleWebSocket(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}
