package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sarafernandess/ifocus-app/internal/auth"
	"github.com/sarafernandess/ifocus-app/internal/config"
)

// mktoken mints a development token for a given user id, standing in for
// the identity provider when testing locally.
func main() {
	userID := flag.String("user", "", "user id (subject)")
	role := flag.String("role", "student", "role claim: student or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("mktoken: -user is required")
	}

	cfg := config.Load()
	token, err := auth.SignToken(*userID, *role, cfg.JWTSecret, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(token)
}
