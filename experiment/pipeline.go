// Package experiment implements the ingestion pipeline that populates an
// ELN with the artifacts of one experiment directory: every file is uploaded
// to the gallery (subject to a size admission gate and a suffix skip list),
// recognized text formats are converted to HTML, and a single summary
// document is created listing every file, its upload outcome, and its
// inlined content.
//
// The pipeline is strictly sequential and isolates failures per file: an
// oversize file, a transport error, or an unconvertible file is recorded in
// the summary and never aborts the batch. Only precondition violations (the
// root is not a directory, the tree contains unrecognized entries) and the
// final document-creation call are fatal.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/emichr/RSpace-NTNU-workshop/convert"
	"github.com/emichr/RSpace-NTNU-workshop/eln"
	"github.com/emichr/RSpace-NTNU-workshop/walk"
)

// Uploader is the remote capability the pipeline consumes. *eln.Client
// implements it.
type Uploader interface {
	UploadFile(ctx context.Context, path, caption string) (*eln.FileInfo, error)
	CreateDocument(ctx context.Context, dr eln.DocumentRequest) (*eln.Document, error)
}

// Pipeline drives one experiment directory through walk, upload, conversion
// and document assembly.
type Pipeline struct {
	client Uploader
	conv   *convert.Converter
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline backed by the given remote client.
func New(client Uploader, cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		client: client,
		conv:   convert.New(convert.Config{Logger: cfg.Logger}),
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Run executes the full pipeline over root and creates the summary document.
// The returned Report carries the remote document ID and the per-file
// outcomes. Run fails only on walk preconditions or if the final document
// creation fails; per-file conditions are recorded in the report and in the
// document itself.
func (p *Pipeline) Run(ctx context.Context, root string) (*Report, error) {
	refs, err := walk.Files(root, !p.cfg.SkipSubdirs, p.logger)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	p.logger.Info("walked experiment directory", "root", root, "files", len(refs))

	outcomes := p.UploadAll(ctx, refs)
	fragments := p.ConvertAll(refs)

	rootLabel := root
	if abs, err := filepath.Abs(root); err == nil {
		rootLabel = abs
	}
	content := Assemble(rootLabel, p.cfg.MaxFileSizeMB, outcomes, fragments)

	name := filepath.Base(rootLabel)
	doc, err := p.client.CreateDocument(ctx, eln.DocumentRequest{
		Name:           name,
		Tags:           p.cfg.Tags,
		Fields:         []eln.Field{{Content: content}},
		ParentFolderID: p.cfg.FolderID,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary document: %w", err)
	}
	p.logger.Info("created summary document", "name", name, "id", doc.ID)

	return &Report{
		Root:             rootLabel,
		DocumentID:       doc.ID,
		DocumentGlobalID: doc.GlobalID,
		DocumentName:     name,
		Outcomes:         outcomes,
	}, nil
}

// ConvertAll renders each file's content, one Fragment per FileRef in input
// order. Conversion failures become placeholder fragments; they never abort
// the batch.
func (p *Pipeline) ConvertAll(refs []walk.FileRef) []Fragment {
	fragments := make([]Fragment, 0, len(refs))
	for _, ref := range refs {
		html, err := p.conv.Convert(ref.Path)
		if err != nil {
			p.logger.Info("content not inlined", "path", ref.Path, "error", err)
			fragments = append(fragments, Fragment{Ref: ref, Err: err.Error()})
			continue
		}
		fragments = append(fragments, Fragment{Ref: ref, HTML: html})
	}
	return fragments
}
