package main

import (
	"context"
	"fmt"
	"time"

	"RealEstateReport/src/datasource/file"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var scheduleFlags struct {
	interval string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Gera o relatório periodicamente",
	RunE:  runSchedule,
}

func init() {
	f := scheduleCmd.Flags()
	f.StringVar(&scheduleFlags.interval, "every", "", "intervalo entre execuções, ex. 30m (padrão schedule.check_interval)")
	f.StringVar(&rootFlags.logAddr, "log-addr", "", "endereço HTTP para acompanhar o log, ex. :8080")
}

// cronSpec monta a expressão @every do cron a partir do intervalo
func cronSpec(interval time.Duration) (string, error) {
	if interval < time.Second {
		return "", fmt.Errorf("intervalo muito curto: %v", interval)
	}
	return "@every " + interval.String(), nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	interval := time.Duration(a.cfg.Schedule.CheckInterval)
	if scheduleFlags.interval != "" {
		if interval, err = time.ParseDuration(scheduleFlags.interval); err != nil {
			return fmt.Errorf("intervalo inválido: %w", err)
		}
	}
	spec, err := cronSpec(interval)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	file.SetupSignalHandler(cancel)
	handleReopen(ctx, a.logger)
	if rootFlags.logAddr != "" {
		startWebUI(ctx, rootFlags.logAddr, a.logger)
	}

	out := cmd.OutOrStdout()
	run := func() {
		a.logger.Info(fmt.Sprintf("execução agendada (%s)", spec))
		t1 := time.Now()
		if report, err := a.generate(ctx); err == nil {
			printReport(out, report)
		}
		a.logger.Info(fmt.Sprintf("tempo de processamento: %v", time.Since(t1)))
	}

	c := cron.New()
	if err := c.AddFunc(spec, run); err != nil {
		return fmt.Errorf("falha ao criar tarefa agendada: %w", err)
	}
	run()
	c.Start()
	defer c.Stop()

	a.logger.Info(fmt.Sprintf("agendamento iniciado (intervalo: %v), Ctrl+C para sair", interval))
	<-ctx.Done()
	a.logger.Info("agendamento encerrado")
	return nil
}
