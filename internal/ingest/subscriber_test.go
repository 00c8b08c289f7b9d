// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/metrics"
	"github.com/tomtom215/cooccur/internal/models"
	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/recommend/memory"
)

const requestTimeout = 2 * time.Second

func startServer(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("create NATS server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func newEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	engine, err := recommend.NewEngine(memory.New(10), &recommend.Config{TopLimit: 10}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func startSubscriber(t *testing.T, url string, w Writer, mutate func(*Config)) (*Subscriber, Config) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = url
	if mutate != nil {
		mutate(&cfg)
	}
	sub, err := NewSubscriber(cfg, w, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sub.Shutdown(ctx)
	})
	return sub, cfg
}

func connect(t *testing.T, url string) *natsgo.Conn {
	t.Helper()
	nc, err := natsgo.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(nc.Close)
	return nc
}

func request(t *testing.T, nc *natsgo.Conn, subject, body string) models.IngestReply {
	t.Helper()
	msg, err := nc.Request(subject, []byte(body), requestTimeout)
	if err != nil {
		t.Fatalf("request %s: %v", subject, err)
	}
	var reply models.IngestReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		t.Fatalf("decode reply %q: %v", msg.Data, err)
	}
	return reply
}

func TestNewSubscriber_Validation(t *testing.T) {
	engine := newEngine(t)
	tests := []struct {
		name   string
		cfg    Config
		writer Writer
	}{
		{"nil writer", DefaultConfig(), nil},
		{"empty url", Config{SubjectPrefix: "cooccur"}, engine},
		{"empty prefix", Config{URL: natsgo.DefaultURL}, engine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSubscriber(tt.cfg, tt.writer, zerolog.Nop()); err == nil {
				t.Error("NewSubscriber() error = nil, want error")
			}
		})
	}
}

func TestConfigSubjects(t *testing.T) {
	cfg := Config{SubjectPrefix: "reco.prod"}
	if got := cfg.AddSubject(); got != "reco.prod.objects.add" {
		t.Errorf("AddSubject() = %q", got)
	}
	if got := cfg.RangeSubject(); got != "reco.prod.objects.range" {
		t.Errorf("RangeSubject() = %q", got)
	}
}

func TestSubscriber_AddObjectRequest(t *testing.T) {
	url := startServer(t)
	engine := newEngine(t)
	_, cfg := startSubscriber(t, url, engine, nil)
	nc := connect(t, url)

	for _, body := range []string{
		`{"id":"1","values":["a","b","c"]}`,
		`{"id":"2","values":["b","d"]}`,
		`{"id":4,"values":["a","f"]}`,
	} {
		if reply := request(t, nc, cfg.AddSubject(), body); !reply.OK {
			t.Fatalf("reply for %s = %+v, want ok", body, reply)
		}
	}

	recs, err := engine.MostCommonRecommendations(context.Background(), "a", 10)
	if err != nil {
		t.Fatalf("MostCommonRecommendations() error = %v", err)
	}
	got := make(map[recommend.Key]int64)
	for _, r := range recs {
		got[r.Value] = r.Score
	}
	for _, v := range []recommend.Key{"b", "c", "f"} {
		if got[v] != 1 {
			t.Errorf("score(%s) = %d, want 1 (recs %v)", v, got[v], recs)
		}
	}
}

func TestSubscriber_AddRangeRequest(t *testing.T) {
	url := startServer(t)
	engine := newEngine(t)
	_, cfg := startSubscriber(t, url, engine, nil)
	nc := connect(t, url)

	request(t, nc, cfg.RangeSubject(), `{"id":"1","values":["a"]}`)
	request(t, nc, cfg.RangeSubject(), `{"id":"1","values":["b"]}`)

	values, err := engine.FindMostCommonValues(context.Background(), "a", 10)
	if err != nil {
		t.Fatalf("FindMostCommonValues() error = %v", err)
	}
	if len(values) != 1 || values[0] != "b" {
		t.Errorf("FindMostCommonValues(a) = %v, want [b]", values)
	}
}

func TestSubscriber_InvalidPayloads(t *testing.T) {
	url := startServer(t)
	_, cfg := startSubscriber(t, url, newEngine(t), nil)
	nc := connect(t, url)

	tests := []struct {
		name     string
		body     string
		wantText string
	}{
		{"malformed json", `{"id":`, "invalid JSON"},
		{"missing id", `{"values":["a"]}`, "id"},
		{"empty values", `{"id":"1","values":[]}`, "values"},
	}

	counter := metrics.IngestMessagesTotal.WithLabelValues(cfg.AddSubject(), StatusInvalid)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(counter)

			reply := request(t, nc, cfg.AddSubject(), tt.body)
			if reply.OK {
				t.Fatalf("reply = %+v, want not ok", reply)
			}
			if !strings.Contains(reply.Error, tt.wantText) {
				t.Errorf("reply error = %q, want it to contain %q", reply.Error, tt.wantText)
			}
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("invalid messages delta = %v, want 1", got)
			}
		})
	}

	// The subscriber keeps serving after bad input.
	if reply := request(t, nc, cfg.AddSubject(), `{"id":"1","values":["a"]}`); !reply.OK {
		t.Errorf("reply after invalid input = %+v, want ok", reply)
	}
}

type failingWriter struct{ err error }

func (f failingWriter) AddObject(context.Context, recommend.Key, []recommend.Key) error { return f.err }
func (f failingWriter) AddRange(context.Context, recommend.Key, []recommend.Key) error  { return f.err }

func TestSubscriber_WriterError(t *testing.T) {
	url := startServer(t)
	backendErr := recommend.NewBackendError("redis", "add_edge", errors.New("connection refused"))
	_, cfg := startSubscriber(t, url, failingWriter{err: backendErr}, nil)
	nc := connect(t, url)

	counter := metrics.IngestMessagesTotal.WithLabelValues(cfg.RangeSubject(), StatusError)
	before := testutil.ToFloat64(counter)

	reply := request(t, nc, cfg.RangeSubject(), `{"id":"1","values":["a"]}`)
	if reply.OK || reply.Error == "" {
		t.Errorf("reply = %+v, want error", reply)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("error messages delta = %v, want 1", got)
	}
}

// recordingWriter signals every applied object.
type recordingWriter struct {
	mu   sync.Mutex
	ids  []recommend.Key
	done chan struct{}
}

func (r *recordingWriter) AddObject(_ context.Context, id recommend.Key, _ []recommend.Key) error {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingWriter) AddRange(ctx context.Context, id recommend.Key, values []recommend.Key) error {
	return r.AddObject(ctx, id, values)
}

func TestSubscriber_PublishWithoutReply(t *testing.T) {
	url := startServer(t)
	w := &recordingWriter{done: make(chan struct{}, 4)}
	_, cfg := startSubscriber(t, url, w, func(c *Config) { c.QueueGroup = "" })
	nc := connect(t, url)

	if err := nc.Publish(cfg.AddSubject(), []byte(`{"id":"fire","values":["x"]}`)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case <-w.done:
	case <-time.After(requestTimeout):
		t.Fatal("message was not applied")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.ids) != 1 || w.ids[0] != "fire" {
		t.Errorf("applied ids = %v, want [fire]", w.ids)
	}
}

func TestSubscriber_QueueGroupDeliversOnce(t *testing.T) {
	url := startServer(t)
	w := &recordingWriter{done: make(chan struct{}, 8)}
	_, cfg := startSubscriber(t, url, w, nil)
	startSubscriber(t, url, w, nil)
	nc := connect(t, url)

	const n = 5
	for i := 0; i < n; i++ {
		if err := nc.Publish(cfg.AddSubject(), []byte(`{"id":"q","values":["x"]}`)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	for i := 0; i < n; i++ {
		select {
		case <-w.done:
		case <-time.After(requestTimeout):
			t.Fatalf("only %d of %d messages applied", i, n)
		}
	}

	// No extra deliveries arrive.
	select {
	case <-w.done:
		t.Error("message applied more than once")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscriber_Lifecycle(t *testing.T) {
	url := startServer(t)
	sub, err := NewSubscriber(Config{URL: url, SubjectPrefix: "cooccur"}, newEngine(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}

	if sub.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !sub.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := sub.Start(context.Background()); err == nil {
		t.Error("second Start() error = nil, want error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub.Shutdown(ctx)
	if sub.IsRunning() {
		t.Error("IsRunning() = true after Shutdown")
	}
	sub.Shutdown(ctx)

	// A stopped subscriber can be started again.
	if err := sub.Start(context.Background()); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	sub.Shutdown(ctx)
}

func TestSubscriber_StartUnreachable(t *testing.T) {
	sub, err := NewSubscriber(Config{URL: "nats://127.0.0.1:1", SubjectPrefix: "cooccur"}, newEngine(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}
	if err := sub.Start(context.Background()); err == nil {
		sub.Shutdown(context.Background())
		t.Fatal("Start() error = nil, want connection error")
	}
	if sub.IsRunning() {
		t.Error("IsRunning() = true after failed Start")
	}
}
