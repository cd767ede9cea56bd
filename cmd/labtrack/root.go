package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/cli"
	"github.com/mamadbah2/labtrack/internal/config"
	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/repository/jsonfile"
	authsvc "github.com/mamadbah2/labtrack/internal/service/auth"
	commandsvc "github.com/mamadbah2/labtrack/internal/service/commands"
	inventorysvc "github.com/mamadbah2/labtrack/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/labtrack/internal/service/reporting"
	"github.com/mamadbah2/labtrack/pkg/logger"
)

type app struct {
	cfg       *config.Config
	log       *zap.Logger
	inventory *inventorysvc.Service
	reporting *reportingsvc.Service
}

// bootstrap loads configuration and the persisted inventory. A corrupt data
// file is reported on out and the app continues with an empty inventory.
func bootstrap(ctx context.Context, envFile string, out io.Writer) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	baseLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	repo, err := jsonfile.NewFileRepository(cfg.Storage.DataFile, cfg.Storage.BackupSuffix, logger.Named(baseLogger, "repo.jsonfile"))
	if err != nil {
		return nil, err
	}

	inventory := inventorysvc.NewService(repo, logger.Named(baseLogger, "svc.inventory"))
	if err := inventory.Load(ctx); err != nil {
		if !errors.Is(err, models.ErrPersistence) {
			return nil, err
		}
		fmt.Fprintf(out, "Warning: could not load %s, starting with an empty inventory (%v)\n", repo.Path(), err)
	}

	return &app{
		cfg:       cfg,
		log:       baseLogger,
		inventory: inventory,
		reporting: reportingsvc.NewService(logger.Named(baseLogger, "svc.reporting")),
	}, nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "labtrack",
		Short:         "Track lab equipment stock, loans and damage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), envFile, out)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			auth := authsvc.NewDirectory(a.cfg.Auth, logger.Named(a.log, "svc.auth"))
			dispatcher, err := commandsvc.NewService(auth, a.inventory, a.reporting, logger.Named(a.log, "svc.commands"))
			if err != nil {
				return err
			}

			return cli.NewShell(dispatcher, in, out, a.cfg.UI.Banner, logger.Named(a.log, "cli")).Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file")

	var exportPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory and its history to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), envFile, out)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			records := a.inventory.ListAll()
			if err := a.reporting.ExportWorkbook(records, exportPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d items to %s\n", len(records), exportPath)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportPath, "out", "inventory.xlsx", "output workbook")
	root.AddCommand(exportCmd)

	return root
}
