package videos

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signer issues and verifies time-limited playback URLs. The signature binds
// the object name and the expiry timestamp, so clients can stream without a
// bearer token but cannot mint links to other objects or extend expiry.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner creates a Signer. key is the server's auth key; ttl is how long
// issued URLs stay valid.
func NewSigner(key []byte, ttl time.Duration) (*Signer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}
	return &Signer{key: key, ttl: ttl}, nil
}

// SignedPath returns a relative playback path for the object with expiry and
// signature query parameters attached.
func (s *Signer) SignedPath(object string, now time.Time) string {
	exp := now.Add(s.ttl).Unix()
	sig := s.signature(object, exp)

	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", sig)
	return "/api/v1/videos/" + url.PathEscape(object) + "?" + q.Encode()
}

// ExpiresAt reports when a URL issued at now would expire.
func (s *Signer) ExpiresAt(now time.Time) time.Time {
	return now.Add(s.ttl)
}

// Verify checks the signature and expiry for an object. exp is the unix
// timestamp from the URL, sig the hex signature.
func (s *Signer) Verify(object, expParam, sig string, now time.Time) error {
	exp, err := strconv.ParseInt(expParam, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry")
	}
	if now.Unix() > exp {
		return fmt.Errorf("link expired")
	}

	expected := s.signature(object, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

func (s *Signer) signature(object string, exp int64) string {
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s\n%d", object, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
