// Package security keeps the certificates seen on received messages so that
// digest-signed messages can be resolved to a verdict.
package security

import (
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/sldm/utils"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// DigestStatus is the verdict for a certificate digest.
type DigestStatus int

const (
	DigestOK DigestStatus = iota
	DigestNotFound
	DigestExpired
)

func (d DigestStatus) String() string {
	switch d {
	case DigestOK:
		return "ok"
	case DigestNotFound:
		return "notFound"
	case DigestExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// CertificateStore maps certificate digests to their metadata.
type CertificateStore struct {
	mu    sync.RWMutex
	certs map[string]v2x.CertificateRecord

	nowUs func() uint64
	nowS  func() uint64
}

// Option configures a CertificateStore.
type Option func(*CertificateStore)

// WithClock replaces the wall clock. nowUs drives the age sweep and nowS
// the validity check.
func WithClock(nowUs, nowS func() uint64) Option {
	return func(s *CertificateStore) {
		s.nowUs = nowUs
		s.nowS = nowS
	}
}

// NewCertificateStore returns an empty store.
func NewCertificateStore(opts ...Option) *CertificateStore {
	s := &CertificateStore{
		certs: map[string]v2x.CertificateRecord{},
		nowUs: utils.NowMicros,
		nowS:  utils.NowSeconds,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InsertOrAssign stores rec under digest, replacing any previous record.
func (s *CertificateStore) InsertOrAssign(digest string, rec v2x.CertificateRecord) {
	s.mu.Lock()
	s.certs[digest] = rec
	s.mu.Unlock()
}

// Lookup returns the record stored under digest.
func (s *CertificateStore) Lookup(digest string) (v2x.CertificateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.certs[digest]
	return rec, ok
}

// IsValid reports whether digest is known and its validity window has not ended.
func (s *CertificateStore) IsValid(digest string) DigestStatus {
	s.mu.RLock()
	rec, ok := s.certs[digest]
	s.mu.RUnlock()
	if !ok {
		return DigestNotFound
	}
	if s.nowS() > rec.EndS {
		return DigestExpired
	}
	return DigestOK
}

// DeleteOlderThan removes every record whose last message arrived more than
// age ago, regardless of its validity window.
func (s *CertificateStore) DeleteOlderThan(age time.Duration) int {
	now := s.nowUs()
	maxAge := uint64(age.Microseconds())
	removed := 0

	s.mu.Lock()
	for digest, rec := range s.certs {
		if now > rec.MsgTimestampUs && now-rec.MsgTimestampUs > maxAge {
			delete(s.certs, digest)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

// Len returns the number of stored records.
func (s *CertificateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.certs)
}
