package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pca-portal/backend/internal/repository"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/database"
)

func newBootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Migrate and ensure the default department and the admin account exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(sqlDB, e.cfg.Database.Driver, e.logger); err != nil {
				return err
			}

			svc := service.NewBootstrapService(&e.cfg.Bootstrap, repository.NewRepository(e.db), e.logger)
			result, err := svc.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DepartmentCreated {
				fmt.Fprintf(out, "secretaria %q criada\n", e.cfg.Bootstrap.DefaultDepartment)
			}
			switch {
			case result.GeneratedPassword != "":
				fmt.Fprintf(out, "usuário admin criado com a senha: %s\n", result.GeneratedPassword)
			case result.AdminCreated:
				fmt.Fprintln(out, "usuário admin criado com a senha configurada")
			default:
				fmt.Fprintln(out, "nada a fazer: dados iniciais já existem")
			}
			return nil
		},
	}
}
