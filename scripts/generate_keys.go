//go:build ignore

// generate_keys prints a fresh API key, the webhook signing secret and a
// bearer token for the cost table publisher.
//
//	go run scripts/generate_keys.go [-secret existing] [-issuer cost-table] [-ttl 8760h]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "generate_keys:", err)
		os.Exit(1)
	}
}

func run() error {
	secret := flag.String("secret", "", "existing WEBHOOK_SECRET to sign with; a new one is generated when empty")
	issuer := flag.String("issuer", "cost-table", "token issuer, must match WEBHOOK_ISSUER")
	subject := flag.String("subject", "cost-table-publisher", "token subject, logged by the webhook")
	ttl := flag.Duration("ttl", 365*24*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		s, err := randomKey(32)
		if err != nil {
			return fmt.Errorf("webhook secret: %w", err)
		}
		*secret = s
	}
	apiKey, err := randomKey(24)
	if err != nil {
		return fmt.Errorf("api key: %w", err)
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    *issuer,
		Subject:   *subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}).SignedString([]byte(*secret))
	if err != nil {
		return fmt.Errorf("sign webhook token: %w", err)
	}

	fmt.Printf(`# .env (keep out of version control, one set per environment)
AUTH_ENABLED=true
API_KEYS=%s
WEBHOOK_SECRET=%s
WEBHOOK_ISSUER=%s

# Authorization header for POST /api/costs/invalidate, valid until %s
Bearer %s
`, apiKey, *secret, *issuer, now.Add(*ttl).UTC().Format(time.RFC3339), token)
	return nil
}

func randomKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
