// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/logging"
	"github.com/tomtom215/cooccur/internal/metrics"
	"github.com/tomtom215/cooccur/internal/models"
	"github.com/tomtom215/cooccur/internal/recommend"
	"github.com/tomtom215/cooccur/internal/validation"
)

// Message status labels for cooccur_ingest_messages_total.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInvalid = "invalid"
)

// Writer is the part of the engine the subscriber applies messages to.
type Writer interface {
	AddObject(ctx context.Context, id recommend.Key, values []recommend.Key) error
	AddRange(ctx context.Context, id recommend.Key, values []recommend.Key) error
}

var _ Writer = (*recommend.Engine)(nil)

// Config configures the NATS connection and subjects.
type Config struct {
	URL            string
	SubjectPrefix  string
	QueueGroup     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	HandlerTimeout time.Duration
}

// DefaultConfig returns a config for a local NATS server.
func DefaultConfig() Config {
	return Config{
		URL:            natsgo.DefaultURL,
		SubjectPrefix:  "cooccur",
		QueueGroup:     "cooccur",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		HandlerTimeout: 10 * time.Second,
	}
}

// AddSubject is the subject routed to AddObject.
func (c Config) AddSubject() string { return c.SubjectPrefix + ".objects.add" }

// RangeSubject is the subject routed to AddRange.
func (c Config) RangeSubject() string { return c.SubjectPrefix + ".objects.range" }

// Subscriber consumes ingest subjects and applies them to a Writer.
type Subscriber struct {
	cfg    Config
	writer Writer
	logger zerolog.Logger

	mu     sync.Mutex
	conn   *natsgo.Conn
	closed chan struct{}
	cancel context.CancelFunc
}

// NewSubscriber returns a subscriber that is not yet connected.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSubscriber(cfg Config, writer Writer, logger zerolog.Logger) (*Subscriber, error) {
	if writer == nil {
		return nil, errors.New("ingest: writer is required")
	}
	if cfg.URL == "" {
		return nil, errors.New("ingest: URL is required")
	}
	if cfg.SubjectPrefix == "" {
		return nil, errors.New("ingest: subject prefix is required")
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = DefaultConfig().HandlerTimeout
	}
	return &Subscriber{
		cfg:    cfg,
		writer: writer,
		logger: logger.With().Str("component", "ingest").Logger(),
	}, nil
}

// Start connects to NATS and subscribes to both ingest subjects.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return errors.New("ingest: subscriber already started")
	}

	closed := make(chan struct{})
	opts := []natsgo.Option{
		natsgo.Name("cooccur-ingest"),
		natsgo.MaxReconnects(s.cfg.MaxReconnects),
		natsgo.ReconnectWait(s.cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				s.logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			s.logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		natsgo.ClosedHandler(func(_ *natsgo.Conn) {
			close(closed)
		}),
	}

	nc, err := natsgo.Connect(s.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", s.cfg.URL, err)
	}

	// Handlers outlive the Start context; Shutdown cancels them.
	baseCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	routes := []struct {
		subject string
		apply   func(context.Context, recommend.Key, []recommend.Key) error
	}{
		{s.cfg.AddSubject(), s.writer.AddObject},
		{s.cfg.RangeSubject(), s.writer.AddRange},
	}
	for _, route := range routes {
		handler := s.handler(baseCtx, route.apply)
		if s.cfg.QueueGroup != "" {
			_, err = nc.QueueSubscribe(route.subject, s.cfg.QueueGroup, handler)
		} else {
			_, err = nc.Subscribe(route.subject, handler)
		}
		if err != nil {
			cancel()
			nc.Close()
			return fmt.Errorf("subscribe to %s: %w", route.subject, err)
		}
	}
	if err := nc.Flush(); err != nil {
		cancel()
		nc.Close()
		return fmt.Errorf("flush subscriptions: %w", err)
	}

	s.conn = nc
	s.closed = closed
	s.cancel = cancel

	s.logger.Info().
		Str("url", nc.ConnectedUrl()).
		Str("add_subject", s.cfg.AddSubject()).
		Str("range_subject", s.cfg.RangeSubject()).
		Str("queue_group", s.cfg.QueueGroup).
		Msg("ingest subscriber started")
	return nil
}

// Shutdown drains the connection and waits until it is closed or ctx ends.
// Calling Shutdown on a stopped subscriber is a no-op.
func (s *Subscriber) Shutdown(ctx context.Context) {
	s.mu.Lock()
	nc, closed, cancel := s.conn, s.closed, s.cancel
	s.conn, s.closed, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if nc == nil {
		return
	}

	if err := nc.Drain(); err != nil {
		s.logger.Warn().Err(err).Msg("NATS drain failed")
		nc.Close()
	}

	select {
	case <-closed:
	case <-ctx.Done():
		s.logger.Warn().Err(ctx.Err()).Msg("NATS drain did not finish")
		nc.Close()
	}
	cancel()
	s.logger.Info().Msg("ingest subscriber stopped")
}

// IsRunning reports whether the subscriber holds an open connection.
func (s *Subscriber) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && !s.conn.IsClosed()
}

func (s *Subscriber) handler(baseCtx context.Context, apply func(context.Context, recommend.Key, []recommend.Key) error) natsgo.MsgHandler {
	return func(msg *natsgo.Msg) {
		start := time.Now()

		ctx := logging.ContextWithLogger(baseCtx, s.logger)
		ctx = logging.ContextWithNewCorrelationID(ctx)
		ctx, cancel := context.WithTimeout(ctx, s.cfg.HandlerTimeout)
		defer cancel()

		status, err := s.apply(ctx, msg.Data, apply)
		metrics.RecordIngestMessage(msg.Subject, status, time.Since(start))

		log := logging.Ctx(ctx)
		if err != nil {
			log.Warn().Err(err).Str("subject", msg.Subject).Str("status", status).Msg("ingest message rejected")
		} else {
			log.Debug().Str("subject", msg.Subject).Dur("duration", time.Since(start)).Msg("ingest message applied")
		}

		if msg.Reply == "" {
			return
		}
		reply := models.IngestReply{OK: err == nil}
		if err != nil {
			reply.Error = err.Error()
		}
		data, mErr := json.Marshal(reply)
		if mErr != nil {
			log.Error().Err(mErr).Msg("encode ingest reply")
			return
		}
		if rErr := msg.Respond(data); rErr != nil {
			log.Warn().Err(rErr).Str("reply", msg.Reply).Msg("send ingest reply")
		}
	}
}

func (s *Subscriber) apply(ctx context.Context, payload []byte, apply func(context.Context, recommend.Key, []recommend.Key) error) (string, error) {
	var req models.ObjectRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return StatusInvalid, fmt.Errorf("invalid JSON: %w", err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return StatusInvalid, verr
	}
	if err := apply(ctx, req.ID, req.Values); err != nil {
		if errors.Is(err, recommend.ErrInvalidArgument) {
			return StatusInvalid, err
		}
		return StatusError, err
	}
	return StatusSuccess, nil
}
