// Package config loads config.yml into AppConfig.
//
// Sections cover the HTTP port, the NATS subject carrying decoded messages,
// store retention, the ingestion area and the GTFS-RT bridge. Zero values
// fall back to the Default* constants before struct-tag validation runs.
package config
