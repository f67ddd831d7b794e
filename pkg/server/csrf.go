package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// DefaultTokenTTL bounds how long a rendered form can be posted back.
const DefaultTokenTTL = 12 * time.Hour

// tokens issues and checks the stateless form token: the issue time and an
// HMAC over the form ID and that time.
type tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func newTokens(key []byte, now func() time.Time) (*tokens, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("server: generate token key: %w", err)
		}
	}
	return &tokens{key: key, ttl: DefaultTokenTTL, now: now}, nil
}

func (t *tokens) Issue(formID string) string {
	issued := t.now().Unix()
	buf := make([]byte, 8, 8+sha256.Size)
	binary.BigEndian.PutUint64(buf, uint64(issued))
	buf = append(buf, t.sign(formID, issued)...)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (t *tokens) Verify(formID, token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != 8+sha256.Size {
		return ErrInvalidToken
	}
	issued := int64(binary.BigEndian.Uint64(raw[:8]))
	if !hmac.Equal(raw[8:], t.sign(formID, issued)) {
		return ErrInvalidToken
	}
	age := t.now().Sub(time.Unix(issued, 0))
	if age < -time.Minute || age > t.ttl {
		return fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	return nil
}

func (t *tokens) sign(formID string, issued int64) []byte {
	mac := hmac.New(sha256.New, t.key)
	fmt.Fprintf(mac, "%s|%d", formID, issued)
	return mac.Sum(nil)
}
