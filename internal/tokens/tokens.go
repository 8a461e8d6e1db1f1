package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token fails verification for any
	// reason other than expiry: bad format, wrong signature, stale salt.
	ErrInvalidToken = errors.New("invalid confirmation token")
	// ErrExpiredToken is returned when a structurally valid token is
	// outside its validity window.
	ErrExpiredToken = errors.New("expired confirmation token")
	// ErrInvalidUID is returned when a uid segment cannot be decoded.
	ErrInvalidUID = errors.New("invalid uid encoding")
)

// Generator produces and verifies stateless confirmation tokens for
// account-lifecycle links (activation, email change, password reset).
//
// A token is bound to a user id and a salt taken from the mutable field
// the link guards (password hash, or the pending email address). The
// salt is part of the HMAC input, so consuming the link mutates the salt
// and the same token can never verify again. No token state is stored.
type Generator struct {
	SecretKey string        // Server-side signing secret
	Exp       time.Duration // Validity window
}

// New creates a new token Generator.
func New(secretKey string, expiration time.Duration) *Generator {
	return &Generator{
		SecretKey: secretKey,
		Exp:       expiration,
	}
}

// Make builds a token for the given user and salt, stamped with the
// current time. Token format: base36(unix)-hex(hmac).
func (g *Generator) Make(userID uuid.UUID, salt string) string {
	return g.makeAt(userID, salt, time.Now())
}

func (g *Generator) makeAt(userID uuid.UUID, salt string, ts time.Time) string {
	stamp := strconv.FormatInt(ts.Unix(), 36)
	return fmt.Sprintf("%s-%s", stamp, g.sign(userID, salt, stamp))
}

// Check verifies a token against the user's current salt value. The salt
// must be the live value of the guarded field; if that field changed
// since the token was issued, verification fails.
func (g *Generator) Check(userID uuid.UUID, salt, token string) error {
	stamp, sig, ok := strings.Cut(token, "-")
	if !ok || stamp == "" || sig == "" {
		return ErrInvalidToken
	}

	expected := g.sign(userID, salt, stamp)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return ErrInvalidToken
	}

	issued, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return ErrInvalidToken
	}

	now := time.Now().Unix()
	if issued > now || now-issued > int64(g.Exp.Seconds()) {
		return ErrExpiredToken
	}

	return nil
}

func (g *Generator) sign(userID uuid.UUID, salt, stamp string) string {
	mac := hmac.New(sha256.New, []byte(g.SecretKey))
	mac.Write([]byte(userID.String()))
	mac.Write([]byte{0})
	mac.Write([]byte(salt))
	mac.Write([]byte{0})
	mac.Write([]byte(stamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeUID renders a user id as a URL-safe opaque string for use in
// confirmation links.
func EncodeUID(userID uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID.String()))
}

// DecodeUID reverses EncodeUID. Malformed input of any kind yields
// ErrInvalidUID, never a panic.
func DecodeUID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.Nil, ErrInvalidUID
	}
	userID, err := uuid.Parse(string(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidUID
	}
	return userID, nil
}
