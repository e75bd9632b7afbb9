package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/ledger"
)

func historyCmd() *cobra.Command {
	var (
		ledgerPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past ingestion runs recorded in the local ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(flagConfig)
			if err != nil {
				return fatal(cmd, err)
			}
			if ledgerPath == "" {
				ledgerPath = cfg.Ledger
			}
			if ledgerPath == "" {
				return fatal(cmd, errors.New("no ledger configured: pass --ledger or set it in the config file"))
			}

			l, err := ledger.Open(ledgerPath)
			if err != nil {
				return fatal(cmd, err)
			}
			defer l.Close()

			runs, err := l.Runs(cmd.Context(), limit)
			if err != nil {
				return fatal(cmd, err)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Run", "Root", "Document", "Files", "Uploaded", "Finished")
			for _, r := range runs {
				t.Row(
					strconv.FormatInt(r.RunID, 10),
					r.Root,
					fmt.Sprintf("%s (%d)", r.DocumentName, r.DocumentID),
					strconv.Itoa(r.Files),
					strconv.Itoa(r.Uploaded),
					r.FinishedAt.Format("2006-01-02 15:04:05"),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "path of the run-history database")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}
