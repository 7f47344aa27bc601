// Package gtfsrt bridges a GTFS-Realtime VehiclePositions feed into the LDM.
//
// Each polled feed entity carrying a position becomes a vehicle record with
// a station identifier derived from the feed's vehicle id, so public
// transport vehicles show up next to the stations heard over the air.
package gtfsrt
