package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sign method names carried as data (WebhookLog.SignMethod) so the
// mechanism actually used is observable, not inferred from logs.
const (
	SignMethodJWT  = "jwt_hs256"
	SignMethodHMAC = "hmac_sha256"
)

// Signer produces the gateway's `sign` token over a set of string
// claims (school id, amount or collect request id, callback url).
type Signer interface {
	Sign(claims map[string]string) (string, error)
	Method() string
}

// JWTSigner is the primary scheme: an HS256 JWT over the claims, with
// an optional expiry for short-lived status-query signs.
type JWTSigner struct {
	Secret string
	TTL    time.Duration
}

func (s *JWTSigner) Sign(claims map[string]string) (string, error) {
	if strings.TrimSpace(s.Secret) == "" {
		return "", errors.New("jwt signer: secret not configured")
	}
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	if s.TTL > 0 {
		mc["exp"] = time.Now().Add(s.TTL).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(s.Secret))
}

func (s *JWTSigner) Method() string { return SignMethodJWT }

// HMACSigner is the degraded scheme: a keyed SHA-256 digest over the
// canonically ordered claim string. Weaker than a JWT (no structure,
// no expiry) but still verifiable against the shared secret.
type HMACSigner struct {
	Secret string
}

func (s *HMACSigner) Sign(claims map[string]string) (string, error) {
	if strings.TrimSpace(s.Secret) == "" {
		return "", errors.New("hmac signer: secret not configured")
	}
	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+claims[k])
	}
	mac := hmac.New(sha256.New, []byte(s.Secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s *HMACSigner) Method() string { return SignMethodHMAC }

// SignerChain tries signers in order so a broken primary signer
// degrades instead of failing the caller path.
type SignerChain struct {
	signers []Signer
}

func NewSignerChain(signers ...Signer) *SignerChain {
	return &SignerChain{signers: signers}
}

// NewDefaultSignerChain is the production chain: JWT first, keyed hash
// as fallback.
func NewDefaultSignerChain(secret string, ttl time.Duration) *SignerChain {
	return NewSignerChain(
		&JWTSigner{Secret: secret, TTL: ttl},
		&HMACSigner{Secret: secret},
	)
}

// Sign returns the first successful token and the method that produced
// it.
func (c *SignerChain) Sign(claims map[string]string) (token, method string, err error) {
	if len(c.signers) == 0 {
		return "", "", errors.New("signer chain: no signers configured")
	}
	for _, s := range c.signers {
		token, err = s.Sign(claims)
		if err == nil {
			return token, s.Method(), nil
		}
	}
	return "", "", err
}
