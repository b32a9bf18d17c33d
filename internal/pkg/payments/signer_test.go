package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSignerRoundTrip(t *testing.T) {
	s := &JWTSigner{Secret: "test-secret", TTL: 5 * time.Minute}
	token, err := s.Sign(map[string]string{
		"school_id":          "sch-1",
		"collect_request_id": "cr-1",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "sch-1", claims["school_id"])
	assert.Equal(t, "cr-1", claims["collect_request_id"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp.Time, 10*time.Second)
}

func TestJWTSignerNoExpiryWithoutTTL(t *testing.T) {
	s := &JWTSigner{Secret: "test-secret"}
	token, err := s.Sign(map[string]string{"school_id": "sch-1"})
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	exp, err := parsed.Claims.(jwt.MapClaims).GetExpirationTime()
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestJWTSignerRequiresSecret(t *testing.T) {
	s := &JWTSigner{Secret: "   "}
	_, err := s.Sign(map[string]string{"school_id": "sch-1"})
	assert.Error(t, err)
}

func TestHMACSignerCanonicalOrder(t *testing.T) {
	s := &HMACSigner{Secret: "k"}
	got, err := s.Sign(map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("a=1&b=2"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), got)
}

type failingSigner struct{}

func (failingSigner) Sign(map[string]string) (string, error) {
	return "", errors.New("boom")
}
func (failingSigner) Method() string { return "failing" }

func TestSignerChainFallsBack(t *testing.T) {
	chain := NewSignerChain(failingSigner{}, &HMACSigner{Secret: "k"})
	token, method, err := chain.Sign(map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, SignMethodHMAC, method)
}

func TestSignerChainPrimaryWins(t *testing.T) {
	chain := NewDefaultSignerChain("secret", 0)
	_, method, err := chain.Sign(map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, SignMethodJWT, method)
}

func TestSignerChainAllFail(t *testing.T) {
	chain := NewDefaultSignerChain("", 0)
	_, _, err := chain.Sign(map[string]string{"a": "1"})
	assert.Error(t, err)
}
