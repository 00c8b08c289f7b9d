// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cooccur/internal/config"
	"github.com/tomtom215/cooccur/internal/ingest"
	"github.com/tomtom215/cooccur/internal/supervisor/services"
)

// initIngest builds the NATS subscriber and wraps it for the supervisor.
// The connection is made when the service starts, so an unreachable
// server is retried by suture rather than failing startup.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initIngest(cfg *config.Config, writer ingest.Writer, logger zerolog.Logger) (*services.IngestService, error) {
	ingestCfg := ingest.DefaultConfig()
	ingestCfg.URL = cfg.NATS.URL
	ingestCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
	ingestCfg.QueueGroup = cfg.NATS.QueueGroup
	ingestCfg.MaxReconnects = cfg.NATS.MaxReconnects
	ingestCfg.ReconnectWait = cfg.NATS.ReconnectWait

	sub, err := ingest.NewSubscriber(ingestCfg, writer, logger)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	logger.Info().
		Str("add_subject", ingestCfg.AddSubject()).
		Str("range_subject", ingestCfg.RangeSubject()).
		Str("queue_group", ingestCfg.QueueGroup).
		Msg("NATS ingestion configured")

	return services.NewIngestService(sub, cfg.Server.ShutdownTimeout), nil
}
