package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type lokiServer struct {
	mu       sync.Mutex
	received []LokiLogEntry
}

func (s *lokiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var entry LokiLogEntry

	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.received = append(s.received, entry)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *lokiServer) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string

	for _, entry := range s.received {
		for _, stream := range entry.Streams {
			for _, value := range stream.Values {
				lines = append(lines, value[1])
			}
		}
	}

	return lines
}

func TestNew_WritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Options{ServiceName: "itemtracker", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	l.Ctx(context.Background()).Info("Item completed", zap.String("name", "chores"))
	require.NoError(t, l.Sync())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "Item completed", line["msg"])
	assert.Equal(t, "chores", line["name"])
	assert.Equal(t, "itemtracker", line["service"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})

	assert.ErrorContains(t, err, "invalid log level")
}

func TestNew_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	loki := &lokiServer{}
	server := httptest.NewServer(loki)
	defer server.Close()

	var buf bytes.Buffer

	l, err := New(Options{ServiceName: "itemtracker", LokiURL: server.URL, Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	l.Zap().Info("first")
	l.Zap().Warn("second", zap.Int("attempt", 2))
	l.Zap().Debug("filtered")

	require.NoError(t, l.Sync())

	lines := loki.lines()
	Expect(lines).To(HaveLen(2))
	Expect(lines[0]).To(ContainSubstring(`"msg":"first"`))
	Expect(lines[1]).To(ContainSubstring(`"attempt":2`))

	require.NoError(t, l.Close(context.Background()))
	require.NoError(t, l.Sync())
}

func TestNop(t *testing.T) {
	l := Nop()

	l.Zap().Info("ignored")

	assert.NoError(t, l.Close(context.Background()))
}
