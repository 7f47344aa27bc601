package ingest

import "github.com/theoremus-urban-solutions/sldm/v2x"

// Detector screens messages for misbehaviour. A non-zero code rejects the
// message; the meaning of each bit is defined by the detector.
type Detector interface {
	Check(msg v2x.DecodedMessage) uint64
}

// NopDetector accepts every message.
type NopDetector struct{}

func (NopDetector) Check(v2x.DecodedMessage) uint64 { return 0 }
