package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"pca-portal/backend/internal/repository"
	"pca-portal/backend/internal/service"
)

const (
	loginFlag    = "login"
	passwordFlag = "password"
)

var resetFlags = map[string]cobraflags.Flag{
	loginFlag: &cobraflags.StringFlag{
		Name:  loginFlag,
		Value: "admin",
		Usage: "Login of the account to recover",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "New password; a random one is generated when empty",
	},
}

func newResetPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account, for when nobody can sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			login := resetFlags[loginFlag].GetString()
			svc := service.NewBootstrapService(&e.cfg.Bootstrap, repository.NewRepository(e.db), e.logger)
			plain, err := svc.ResetPassword(cmd.Context(), login, resetFlags[passwordFlag].GetString())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "senha de %q redefinida: %s\n", login, plain)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, resetFlags)
	return cmd
}
