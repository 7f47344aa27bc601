// Package v2x defines the records kept by the Local Dynamic Map.
//
// This package handles:
//   - Vehicle records built from CAM, VAM and CPM messages
//   - Hazard event records built from DENM messages
//   - Certificate records used by the security layer
//   - The decoded-message envelope handed to the ingestion pipeline
//
// Fields that a message may omit are modelled with Optional or with a
// sentinel constant, never with a zero value that could be mistaken for data.
package v2x
