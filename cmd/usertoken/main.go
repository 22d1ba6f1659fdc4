package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dbfrontend/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "token subject")
	role := flag.String("role", auth.RoleReader, "reader or writer")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}
	if *role != auth.RoleReader && *role != auth.RoleWriter {
		log.Fatalf("unknown role %q", *role)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	tok, err := auth.SignToken(secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok)
}
