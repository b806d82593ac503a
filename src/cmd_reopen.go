package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

var reopenFlags struct {
	pid int
}

// reopenLogCmd pede a um processo watch/schedule que reabra o log
var reopenLogCmd = &cobra.Command{
	Use:   "reopen-log",
	Short: "Envia SIGHUP para um processo em execução reabrir o arquivo de log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if reopenFlags.pid <= 0 {
			return fmt.Errorf("pid inválido: %d", reopenFlags.pid)
		}
		if err := syscall.Kill(reopenFlags.pid, syscall.SIGHUP); err != nil {
			return fmt.Errorf("falha ao enviar SIGHUP para %d: %w", reopenFlags.pid, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "SIGHUP enviado para %d\n", reopenFlags.pid)
		return nil
	},
}

func init() {
	reopenLogCmd.Flags().IntVar(&reopenFlags.pid, "pid", 0, "pid do processo (obrigatório)")
	_ = reopenLogCmd.MarkFlagRequired("pid")
}
