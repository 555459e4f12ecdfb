package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/config"
)

type tokenOptions struct {
	subject string
	name    string
	email   string
	roles   []string
}

func newTokenCmd() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff bearer token",
		Long: `Token signs a JWT for the admin API with the configured auth.jwtSecret
(AUTH_JWTSECRET). The token is printed on stdout; details go to stderr.`,
		Example: `  agencyctl token --subject ola --name "Ola Nordmann" --role admin`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runToken(cmd, &cfg.Auth, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.subject, "subject", "s", "", "Token subject (required)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "E-mail address")
	cmd.Flags().StringSliceVar(&opts.roles, "role", []string{string(auth.RoleStaff)}, "Role (admin or staff), repeatable")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runToken(cmd *cobra.Command, authCfg *config.AuthConfig, opts *tokenOptions) error {
	for _, r := range opts.roles {
		if !auth.Role(r).IsValid() {
			return fmt.Errorf("invalid role %q (expected admin or staff)", r)
		}
	}
	roles := auth.ParseRoles(opts.roles)

	token, expiresAt, err := auth.NewTokenIssuer(authCfg).Issue(opts.subject, opts.name, opts.email, roles)
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			return fmt.Errorf("no signing secret configured; set AUTH_JWTSECRET")
		}
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	warningColor.Fprintf(cmd.ErrOrStderr(), "expires %s (roles: %v)\n", expiresAt.Format(time.RFC3339), (&auth.UserContext{Roles: roles}).RolesAsStrings())
	return nil
}
