// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(NewTestLogger(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug filtered, got: %s", out)
	}
	for _, want := range []string{`"level":"info"`, `"level":"warn"`, `"level":"error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.Nop().Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error enabled at warn level")
	}
}

func TestSlogHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(NewTestLogger(&buf)).With("service", "http")

	l.Info("event",
		"count", 3,
		"ok", true,
		"took", 2*time.Second,
		"err", errors.New("boom"),
		slog.Group("breaker", "state", "open"),
	)

	out := buf.String()
	for _, want := range []string{
		`"service":"http"`,
		`"count":3`,
		`"ok":true`,
		`"err":"boom"`,
		`"breaker.state":"open"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(NewTestLogger(&buf)).WithGroup("supervisor").WithGroup("api")

	l.Info("restart", "service", "http")

	if !strings.Contains(buf.String(), `"supervisor.api.service":"http"`) {
		t.Errorf("expected grouped key, got: %s", buf.String())
	}
}
