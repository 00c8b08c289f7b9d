// Cooccur - Co-occurrence Recommendation Index
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cooccur

// Package logging provides zerolog-based structured logging for the service.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("backend", "redis").Msg("store ready")
//
// Components take a zerolog.Logger and tag it with a component field.
// Request and correlation ids travel in the context and are attached by Ctx.
// SlogHandler bridges slog-only libraries such as sutureslog onto zerolog.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
