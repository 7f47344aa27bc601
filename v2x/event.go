package v2x

// EventRecord is one hazard event decoded from a DENM.
type EventRecord struct {
	OriginatingStationID uint64        `json:"originatingStationID"`
	SequenceNumber       uint32        `json:"sequenceNumber"`
	StationType          StationType   `json:"stationType"`
	Cause                CauseCode     `json:"cause"`
	SubCause             Optional[int] `json:"subCause"`

	DetectionTimeMs   uint64 `json:"detectionTimeMs"`
	ReferenceTimeMs   uint64 `json:"referenceTimeMs"`
	InsertTimestampUs uint64 `json:"insertTimestampUs"`

	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation float64 `json:"elevation"`

	// Position confidence ellipse, meters and degrees.
	SemiMajorConf        float64 `json:"semiMajorConfidence"`
	SemiMinorConf        float64 `json:"semiMinorConfidence"`
	SemiMajorOrientation float64 `json:"semiMajorOrientation"`

	RelevanceDistance         Optional[int] `json:"relevanceDistance"`
	RelevanceTrafficDirection Optional[int] `json:"relevanceTrafficDirection"`
	// ValidityDurationS is the lifetime in seconds counted from InsertTimestampUs.
	ValidityDurationS      uint32           `json:"validityDuration"`
	TransmissionIntervalMs Optional[uint32] `json:"transmissionInterval"`
}

// DefaultValidityDurationS applies when a DENM omits its validity duration.
const DefaultValidityDurationS = 10

// ExpiresAtUs returns the wall-clock microsecond after which the event is stale.
func (e EventRecord) ExpiresAtUs() uint64 {
	return e.InsertTimestampUs + uint64(e.ValidityDurationS)*1_000_000
}
