package main

import (
	"context"
	"errors"
	"fmt"

	"RealEstateReport/src/datasource/file"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Gera o relatório e refaz a cada alteração do arquivo de dados",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&rootFlags.logAddr, "log-addr", "", "endereço HTTP para acompanhar o log, ex. :8080")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Dataset.Path == "" {
		return errors.New("o modo watch precisa de um arquivo (--dataset)")
	}

	monitor, err := file.NewFileMonitor(a.cfg.Dataset.Path)
	if err != nil {
		return err
	}
	defer monitor.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	file.SetupSignalHandler(cancel)
	handleReopen(ctx, a.logger)
	if rootFlags.logAddr != "" {
		startWebUI(ctx, rootFlags.logAddr, a.logger)
	}

	out := cmd.OutOrStdout()
	if report, err := a.generate(ctx); err == nil {
		printReport(out, report)
	}

	a.logger.Info("observando " + a.cfg.Dataset.Path + ", Ctrl+C para sair")
	return monitor.Watch(ctx, func(path string) {
		a.logger.Info(fmt.Sprintf("arquivo alterado (%s): %s",
			monitor.LastModified().Format("2006-01-02 15:04:05"), path))
		if report, err := a.generate(ctx); err == nil {
			printReport(out, report)
		}
	})
}
