package commands

import (
	"context"
	"fmt"
	"time"

	"budgetflow/internal/auth"

	"github.com/google/uuid"
)

type TokenCmd struct {
	Identity string        `help:"Caller identity (UUID). A random identity is generated when omitted."`
	TTL      time.Duration `help:"Token lifetime" default:"24h"`
	Secret   string        `help:"Token signing secret" required:"" env:"BUDGETFLOW_AUTH_SECRET"`
}

func (t *TokenCmd) Run(ctx context.Context) error {
	identity := uuid.New()
	if t.Identity != "" {
		parsed, err := uuid.Parse(t.Identity)
		if err != nil {
			return fmt.Errorf("invalid identity: %w", err)
		}
		identity = parsed
	}

	verifier, err := auth.NewVerifier([]byte(t.Secret))
	if err != nil {
		return err
	}

	token, err := verifier.Issue(identity, t.TTL)
	if err != nil {
		return err
	}

	fmt.Println("identity:", identity)
	fmt.Println("token:", token)

	return nil
}
