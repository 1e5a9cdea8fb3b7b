package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"
)

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

type lokiLine struct {
	at    time.Time
	level string
	line  string
}

// lokiCore encodes entries as JSON lines and hands them to the pusher.
type lokiCore struct {
	zapcore.LevelEnabler
	enc    zapcore.Encoder
	pusher *pusher
}

func newLokiCore(level zapcore.LevelEnabler, enc zapcore.Encoder, p *pusher) zapcore.Core {
	return &lokiCore{LevelEnabler: level, enc: enc, pusher: p}
}

func (c *lokiCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.enc.Clone()

	for _, f := range fields {
		f.AddTo(clone)
	}

	return &lokiCore{LevelEnabler: c.LevelEnabler, enc: clone, pusher: c.pusher}
}

func (c *lokiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

func (c *lokiCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)

	if err != nil {
		return err
	}

	line := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	c.pusher.enqueue(lokiLine{at: ent.Time, level: ent.Level.String(), line: line})

	return nil
}

func (c *lokiCore) Sync() error {
	return c.pusher.flush()
}

// pusher batches lines and posts them to Loki from a single goroutine.
// Lines are dropped rather than blocking the caller when the queue is full.
type pusher struct {
	url       string
	service   string
	client    *http.Client
	batchSize int
	interval  time.Duration

	entries chan lokiLine
	flushes chan chan error
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	dropped atomic.Int64
}

func newPusher(baseURL, service string, batchSize int, interval time.Duration) *pusher {
	p := &pusher{
		url:       strings.TrimSuffix(baseURL, "/") + "/loki/api/v1/push",
		service:   service,
		client:    &http.Client{Timeout: 5 * time.Second},
		batchSize: batchSize,
		interval:  interval,
		entries:   make(chan lokiLine, batchSize*10),
		flushes:   make(chan chan error),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	go p.run()

	return p
}

func (p *pusher) enqueue(line lokiLine) {
	select {
	case p.entries <- line:
	default:
		p.dropped.Add(1)
	}
}

func (p *pusher) run() {
	defer close(p.stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	batch := make([]lokiLine, 0, p.batchSize)

	send := func() error {
		batch = p.drain(batch)

		if len(batch) == 0 {
			return nil
		}

		err := p.push(batch)
		batch = batch[:0]

		return err
	}

	for {
		select {
		case line := <-p.entries:
			batch = append(batch, line)

			if len(batch) >= p.batchSize {
				_ = send()
			}
		case <-ticker.C:
			_ = send()
		case ack := <-p.flushes:
			ack <- send()
		case <-p.done:
			_ = send()
			return
		}
	}
}

func (p *pusher) drain(batch []lokiLine) []lokiLine {
	for {
		select {
		case line := <-p.entries:
			batch = append(batch, line)
		default:
			return batch
		}
	}
}

func (p *pusher) flush() error {
	ack := make(chan error, 1)

	select {
	case p.flushes <- ack:
		return <-ack
	case <-p.stopped:
		return nil
	}
}

func (p *pusher) close(ctx context.Context) error {
	p.once.Do(func() { close(p.done) })

	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pusher) push(batch []lokiLine) error {
	streams := make(map[string]*LokiStream)
	order := make([]string, 0, 4)

	for _, line := range batch {
		stream, ok := streams[line.level]

		if !ok {
			stream = &LokiStream{Stream: map[string]string{"service": p.service, "level": line.level}}
			streams[line.level] = stream
			order = append(order, line.level)
		}

		stream.Values = append(stream.Values, []string{strconv.FormatInt(line.at.UnixNano(), 10), line.line})
	}

	entry := LokiLogEntry{Streams: make([]LokiStream, 0, len(order))}

	for _, level := range order {
		entry.Streams = append(entry.Streams, *streams[level])
	}

	body, err := json.Marshal(entry)

	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki push returned %d", resp.StatusCode)
	}

	return nil
}
