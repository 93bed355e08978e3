// Command devtoken mints an access token for local testing against a
// service that shares AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/spec-kit/membership-pass/internal/auth"
	"github.com/spec-kit/membership-pass/internal/config"
)

func main() {
	memberID := flag.String("member", "", "member id to put in the sub claim")
	email := flag.String("email", "", "optional email claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTLMinutes)
	token, expiresAt, err := tokens.GenerateToken(*memberID, *email)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
	log.Printf("expires at %s", expiresAt.Format(time.RFC3339))
}
