package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all documents visible to the configured user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadFileConfig(flagConfig)
			if err != nil {
				return fatal(cmd, err)
			}
			client, err := newClient(cfg, logger)
			if err != nil {
				return fatal(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			docs, err := client.ListAllDocuments(ctx)
			if err != nil {
				return fatal(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "There are %d documents on the ELN\n", len(docs))

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "Name", "Created")
			for _, d := range docs {
				t.Row(strconv.FormatInt(d.ID, 10), d.Name, d.Created)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	return cmd
}
