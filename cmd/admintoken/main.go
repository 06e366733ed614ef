// Command admintoken issues a bearer token for the admin HTTP API.
//
// Usage:
//
//	admintoken -subject alice [-ttl 24h]
//
// Requires AUTH_JWT_SECRET; AUTH_JWT_ISSUER and AUTH_TOKEN_TTL are honoured.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/qamqor/screening-bot/internal/auth"
	"github.com/qamqor/screening-bot/internal/config"
)

func main() {
	subject := flag.String("subject", "", "token subject, e.g. the administrator's name (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime; overrides AUTH_TOKEN_TTL")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}

	var cfg config.AuthConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("read auth config: %v", err)
	}
	if *ttl > 0 {
		cfg.TokenTTL = *ttl
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL).GenerateToken(*subject, auth.RoleAdmin)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
