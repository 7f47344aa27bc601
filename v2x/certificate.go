package v2x

// CertificateRecord describes the certificate that signed a received message.
type CertificateRecord struct {
	StationID      uint64 `json:"stationID"`
	MsgTimestampUs uint64 `json:"msgTimestampUs"`
	StartS         uint64 `json:"start"`
	EndS           uint64 `json:"end"`
	Issuer         string `json:"issuer"`
}

// SecurityVerdict is the outcome reported by the security layer for a message.
type SecurityVerdict int

const (
	VerdictNone SecurityVerdict = iota
	VerdictOK
	VerdictVerificationFailed
	VerdictInvalidCertificate
	VerdictDigestMismatch
	// VerdictDigest means the message was signed with a digest that must be
	// resolved against the certificate store.
	VerdictDigest
)

func (s SecurityVerdict) String() string {
	switch s {
	case VerdictOK:
		return "ok"
	case VerdictVerificationFailed:
		return "verificationFailed"
	case VerdictInvalidCertificate:
		return "invalidCertificate"
	case VerdictDigestMismatch:
		return "digestMismatch"
	case VerdictDigest:
		return "digest"
	default:
		return "none"
	}
}
