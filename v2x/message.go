package v2x

// PerceivedObject is one object of a CPM perceived object container,
// already projected to absolute coordinates by the decoder.
type PerceivedObject struct {
	ObjectID uint64        `json:"objectID"`
	Record   VehicleRecord `json:"record"`
}

// DecodedMessage is the envelope produced by the decoder for each received
// facility message.
type DecodedMessage struct {
	Type MessageType `json:"type"`
	// HasGNTimestamp is false for messages received without a GeoNetworking
	// header, which disables the freshness check.
	HasGNTimestamp bool        `json:"hasGNTimestamp"`
	GNTimestamp    uint64      `json:"gnTimestamp"`
	StationID      uint64      `json:"stationID"`
	StationType    StationType `json:"stationType"`

	Vehicle    *VehicleRecord    `json:"vehicle,omitempty"`
	Event      *EventRecord      `json:"event,omitempty"`
	Terminated bool              `json:"terminated"`
	Perceived  []PerceivedObject `json:"perceived,omitempty"`

	Verdict     SecurityVerdict    `json:"verdict"`
	CertDigest  string             `json:"certDigest,omitempty"`
	Certificate *CertificateRecord `json:"certificate,omitempty"`
}
