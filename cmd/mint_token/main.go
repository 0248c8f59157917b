package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"causelist/pkg/auth"
	"causelist/pkg/config"
)

// Mints an HS256 bearer token accepted by the API when JWT_SECRET is set.
func main() {
	sub := flag.String("sub", "", "token subject (client name)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()
	if *sub == "" {
		log.Fatal("usage: go run ./cmd/mint_token -sub <name> [-ttl 24h]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set; the API runs without auth")
	}
	token, err := auth.IssueToken([]byte(cfg.JWTSecret), *sub, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(token)
}
