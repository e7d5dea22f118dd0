package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/smarttransit/ticketing-core/internal/utils"
	"github.com/smarttransit/ticketing-core/pkg/jwt"
	flag "github.com/spf13/pflag"
)

func main() {
	newSecret := flag.Bool("new-secret", false, "print a freshly generated JWT_SECRET and exit")
	agentIDFlag := flag.String("agent-id", "", "agent UUID (random when empty)")
	name := flag.String("name", "Counter agent", "agent display name")
	roles := flag.StringSlice("role", []string{jwt.RoleAgent}, "role to grant, repeatable (agent, admin)")
	expiry := flag.Duration("expiry", 8*time.Hour, "token lifetime")
	flag.Parse()

	if *newSecret {
		secret, err := utils.GenerateSecret(64)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Printf("JWT_SECRET=%s\n", secret)
		fmt.Println()
		fmt.Println("Keep this secret safe and never commit it to version control.")
		return
	}

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	agentID := uuid.New()
	if *agentIDFlag != "" {
		parsed, err := uuid.Parse(*agentIDFlag)
		if err != nil {
			log.Fatalf("Invalid --agent-id: %v", err)
		}
		agentID = parsed
	}

	for _, role := range *roles {
		if role != jwt.RoleAgent && role != jwt.RoleAdmin {
			log.Fatalf("Unknown role %q", role)
		}
	}

	token, err := jwt.NewService(secret, *expiry).GenerateAccessToken(agentID, *name, *roles)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "agent %s (%v), valid for %s\n", agentID, *roles, *expiry)
	fmt.Println(token)
}
