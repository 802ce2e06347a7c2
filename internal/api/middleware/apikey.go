package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/racional/portfolio-ledger/internal/api/response"
)

// timeTokenTTL bounds replay of a captured time token.
const timeTokenTTL = 30 * time.Second

// fernetKeyFromAPIKey derives a fernet key from the shared API key. The key
// never leaves the process; both sides derive the same key from the same
// secret.
func fernetKeyFromAPIKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	var k fernet.Key
	copy(k[:], sum[:])
	return &k
}

// GenerateTimeToken produces a short-lived fernet token proving the caller
// holds the shared API key at the current time. Sent as X-Time-Token.
func GenerateTimeToken(apiKey string) string {
	tok, err := fernet.EncryptAndSign([]byte(time.Now().UTC().Format(time.RFC3339)), fernetKeyFromAPIKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware guards internal endpoints. The caller must present the
// shared key in X-API-Key and a fresh fernet time token in X-Time-Token;
// fernet's built-in timestamp check rejects tokens older than timeTokenTTL.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalKey := os.Getenv("INTERNAL_API_KEY")
		if internalKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "server configuration error", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(internalKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		msg := fernet.VerifyAndDecrypt([]byte(timeToken), timeTokenTTL, []*fernet.Key{fernetKeyFromAPIKey(internalKey)})
		if msg == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
