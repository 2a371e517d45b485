package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEvent(t *testing.T, r *bufio.Reader) (name, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimPrefix(line, "data:")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestManagerDeliversToUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(zap.NewNop())
	go m.Run()
	defer m.Stop()

	r := gin.New()
	r.GET("/events/:user", func(c *gin.Context) { m.ServeHTTP(c, c.Param("user")) })
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/u1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	name, _ := readEvent(t, body)
	require.Equal(t, "ready", name)
	require.Eventually(t, func() bool { return m.ClientCount("u1") == 1 }, time.Second, 10*time.Millisecond)

	m.SendToUser("u2", "summary_created", map[string]string{"id": "other"})
	m.SendToUser("u1", "summary_created", map[string]string{"id": "mine"})

	name, data := readEvent(t, body)
	assert.Equal(t, "summary_created", name)
	assert.Contains(t, data, `"id":"mine"`)

	cancel()
	assert.Eventually(t, func() bool { return m.ClientCount("u1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestSendToUserWithoutClients(t *testing.T) {
	m := NewManager(zap.NewNop())
	go m.Run()
	defer m.Stop()

	assert.NotPanics(t, func() {
		m.SendToUser("nobody", "session", map[string]string{"state": "signed_out"})
	})
	assert.Equal(t, 0, m.ClientCount("nobody"))
}
