// Command pcactl runs maintenance tasks against the portal database without
// starting the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pca-portal/backend/config"
	"pca-portal/backend/pkg/database"
	applogger "pca-portal/backend/pkg/logger"
)

const configFlag = "config"

var rootFlags = map[string]cobraflags.Flag{
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to the YAML configuration file (defaults to ./config/config.yaml)",
	},
}

func main() {
	root := &cobra.Command{
		Use:           "pcactl",
		Short:         "Maintenance commands for the PCA portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cobraflags.RegisterMap(root, rootFlags)

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newBootstrapCommand())
	root.AddCommand(newResetPasswordCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

// env what every subcommand needs
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load(rootFlags[configFlag].GetString())
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar logger: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = e.logger.Sync()
}
