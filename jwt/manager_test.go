package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func hs256Config() Config {
	return Config{
		TTL:           24 * time.Hour,
		SigningMethod: MethodHS256,
		Secret:        []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "kapici",
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid hs256", func(c *Config) {}, false},
		{"zero ttl", func(c *Config) { c.TTL = 0 }, true},
		{"negative leeway", func(c *Config) { c.Leeway = -time.Second }, true},
		{"leeway too large", func(c *Config) { c.Leeway = 3 * time.Minute }, true},
		{"hs256 no secret", func(c *Config) { c.Secret = nil }, true},
		{"unknown method", func(c *Config) { c.SigningMethod = "rs256" }, true},
		{"ed25519 no public key", func(c *Config) {
			c.SigningMethod = MethodEd25519
			c.PrivateKey = nil
			c.PublicKey = nil
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := hs256Config()
			tt.mutate(&cfg)

			_, err := NewManager(cfg)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIssueParseRoundTrip(t *testing.T) {
	m, err := NewManager(hs256Config())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, issued, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatal("expected a jti")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
	if claims.ID != issued.ID {
		t.Fatalf("jti = %q, want %q", claims.ID, issued.ID)
	}
	if claims.Issuer != "kapici" {
		t.Fatalf("issuer = %q, want kapici", claims.Issuer)
	}
	if claims.Timestamp == 0 {
		t.Fatal("expected timestamp claim")
	}

	gotTTL := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if gotTTL != 24*time.Hour {
		t.Fatalf("ttl = %v, want 24h", gotTTL)
	}
}

func TestIssueUniqueTokenIDs(t *testing.T) {
	m, _ := NewManager(hs256Config())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, claims, err := m.Issue("admin")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate jti %q", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestParseRejectsTamperedPayload(t *testing.T) {
	m, _ := NewManager(hs256Config())

	token, _, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d segments", len(parts))
	}
	// Swap a payload character. The signature no longer matches.
	payload := []byte(parts[1])
	if payload[3] == 'x' {
		payload[3] = 'y'
	} else {
		payload[3] = 'x'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Parse(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m, _ := NewManager(hs256Config())

	other := hs256Config()
	other.Secret = []byte("ffffffffffffffffffffffffffffffff")
	m2, _ := NewManager(other)

	token, _, err := m2.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected foreign signature to be rejected")
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	cfg := hs256Config()
	m, _ := NewManager(cfg)

	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        "abc",
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    cfg.Issuer,
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString(cfg.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected non-hs256 token to be rejected")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := hs256Config()
	cfg.TTL = time.Nanosecond
	m, _ := NewManager(cfg)

	token, _, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsExpiredTokenInsideLeeway(t *testing.T) {
	// With the default 30s leeway the signing library still accepts a
	// token expired a few seconds ago. The post-parse expiry comparison
	// applies no leeway and must reject it anyway.
	cfg := hs256Config()
	cfg.Leeway = 30 * time.Second
	m, _ := NewManager(cfg)

	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        "abc",
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-5 * time.Second)),
			Issuer:    cfg.Issuer,
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = m.Parse(token)
	if err == nil {
		t.Fatal("expected token expired inside the leeway window to be rejected")
	}
	if !errors.Is(err, jwtlib.ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	cfg := hs256Config()
	m, _ := NewManager(cfg)

	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:       "abc",
			IssuedAt: jwtlib.NewNumericDate(time.Now()),
			Issuer:   cfg.Issuer,
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected token without exp to be rejected")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := hs256Config()
	m, _ := NewManager(cfg)

	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        "abc",
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected wrong issuer to be rejected")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "kapici",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, _, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
}
