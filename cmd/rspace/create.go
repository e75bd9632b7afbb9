package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/convert"
	"github.com/emichr/RSpace-NTNU-workshop/eln"
	"github.com/emichr/RSpace-NTNU-workshop/experiment"
)

func createCmd() *cobra.Command {
	var (
		source   string
		tags     []string
		parentID int64
		echo     bool
		dry      bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a single document, optionally from a local file",
		Long: `Creates one document on the ELN. With --source, the file's content is
converted first: Markdown is rendered to HTML, JSON becomes a structural
table, anything else is taken as ready-to-use HTML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadFileConfig(flagConfig)
			if err != nil {
				return fatal(cmd, err)
			}

			var text string
			if source != "" {
				conv := convert.New(convert.Config{Logger: logger})
				text, err = conv.Convert(source)
				if err != nil {
					return fatal(cmd, fmt.Errorf("convert source: %w", err))
				}
			}

			if echo || dry {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			if dry {
				return nil
			}

			client, err := newClient(cfg, logger)
			if err != nil {
				return fatal(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			before, err := client.GetDocuments(ctx, 0)
			if err != nil {
				return fatal(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "There are %d documents on the ELN before creating the document.\n", before.TotalHits)

			doc, err := client.CreateDocument(ctx, eln.DocumentRequest{
				Name:           args[0],
				Tags:           experiment.NormalizeTags(tags),
				Fields:         []eln.Field{{Content: text}},
				ParentFolderID: parentID,
			})
			if err != nil {
				return fatal(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created document with ID: %d\n", doc.ID)

			after, err := client.GetDocuments(ctx, 0)
			if err != nil {
				return fatal(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "There are %d documents on the ELN after creating the document.\n", after.TotalHits)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "path to a source file (.md, .json, or ready-made HTML/text)")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "tags to add to the document (API is always added)")
	cmd.Flags().Int64VarP(&parentID, "parent-id", "i", 0, "ID of the folder or notebook to put the document in")
	cmd.Flags().BoolVarP(&echo, "print", "p", false, "print the document content to stdout")
	cmd.Flags().BoolVarP(&dry, "dry", "d", false, "dry run: convert and print, but do not contact the ELN")

	return cmd
}
