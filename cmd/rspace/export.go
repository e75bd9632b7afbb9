package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/convert"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <document-id>",
		Short: "Export a document's content as Markdown",
		Long: `Fetches one document and converts its HTML content to Markdown. The
content is sanitized before conversion. Output goes to stdout unless --out
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fatal(cmd, fmt.Errorf("document id must be numeric: %q", args[0]))
			}

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

			doc, err := client.GetDocument(ctx, id)
			if err != nil {
				return fatal(cmd, err)
			}

			var html strings.Builder
			for _, f := range doc.Fields {
				html.WriteString(f.Content)
				html.WriteByte('\n')
			}

			md, err := convert.HTMLToMarkdown(html.String())
			if err != nil {
				return fatal(cmd, err)
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(out, []byte(md), 0644); err != nil {
				return fatal(cmd, fmt.Errorf("write %s: %w", out, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported document %q to %s\n", doc.Name, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the Markdown to this file instead of stdout")
	return cmd
}
