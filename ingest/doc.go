// Package ingest turns decoded V2X messages into store updates.
//
// This package handles:
//   - The Pipeline: certificate bookkeeping, misbehaviour screening, area
//     filtering, the GeoNetworking age check and the store call for each
//     message type
//   - Stable identifiers for objects perceived by other stations
//   - Decoding of JSON envelopes and their delivery over NATS
//   - The Sweeper that expires vehicles, events and certificates
package ingest
