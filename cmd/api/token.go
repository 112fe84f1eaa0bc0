package main

import (
	"errors"
	"fmt"
	"time"

	"backoffice-api/internal/adapters/auth/jwtauth"

	"github.com/spf13/cobra"
)

func tokenCmd(load loader) *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Emite un JWT de prueba firmado con JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET not set")
			}

			tok, err := jwtauth.Issue(cfg.Auth.JWTSecret, args[0], email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email a incluir en los claims")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "validez del token")
	return cmd
}
