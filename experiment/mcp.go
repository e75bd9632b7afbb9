package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emichr/RSpace-NTNU-workshop/eln"
	"github.com/emichr/RSpace-NTNU-workshop/walk"
)

// DocumentLister lists existing documents; *eln.Client implements it.
type DocumentLister interface {
	ListAllDocuments(ctx context.Context) ([]eln.DocumentInfo, error)
}

// RegisterMCP registers the pipeline operations as MCP tools. The listing
// tool is registered only when the pipeline's client can list documents.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerIngestTool(srv)
	p.registerScanTool(srv)
	if lister, ok := p.client.(DocumentLister); ok {
		registerListTool(srv, lister)
	}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wires a decode/endpoint pair into the MCP server, converting
// endpoint errors into tool errors and JSON-encoding the response.
func addTool(srv *mcp.Server, tool *mcp.Tool, decode func(*mcp.CallToolRequest) (any, error), endpoint func(context.Context, any) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decoded, err := decode(req)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		resp, err := endpoint(ctx, decoded)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- ingest ---

type ingestReq struct {
	Root string `json:"root"`
}

func (p *Pipeline) registerIngestTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "experiment_ingest",
		Description: "Upload every file of an experiment directory to the ELN gallery and create a summary document.",
		InputSchema: inputSchema(map[string]any{
			"root": map[string]any{"type": "string", "description": "Experiment directory to ingest"},
		}, []string{"root"}),
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r ingestReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*ingestReq)
		return p.Run(ctx, r.Root)
	}

	addTool(srv, tool, decode, endpoint)
}

// --- scan ---

type scanReq struct {
	Root string `json:"root"`
}

// scanEntry is the dry-run admission preview for one file.
type scanEntry struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Format   string `json:"format"`
	Decision Status `json:"decision"`
}

func (p *Pipeline) registerScanTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "experiment_scan",
		Description: "Preview an ingestion without contacting the ELN: list the files that would be uploaded, skipped, or rejected as oversize.",
		InputSchema: inputSchema(map[string]any{
			"root": map[string]any{"type": "string", "description": "Experiment directory to scan"},
		}, []string{"root"}),
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r scanReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*scanReq)
		refs, err := walk.Files(r.Root, !p.cfg.SkipSubdirs, p.logger)
		if err != nil {
			return nil, err
		}
		return map[string]any{"entries": p.Scan(refs)}, nil
	}

	addTool(srv, tool, decode, endpoint)
}

// Scan returns the admission decision for each file without side effects.
func (p *Pipeline) Scan(refs []walk.FileRef) []scanEntry {
	skip := skipSet(p.cfg.SkipSuffixes)
	entries := make([]scanEntry, 0, len(refs))
	for _, ref := range refs {
		decision := StatusUploaded
		if _, ok := skip[lowerExt(ref.Path)]; ok {
			decision = StatusSkipped
		} else if !Admit(ref, p.cfg.MaxFileSizeMB) {
			decision = StatusOversize
		}
		entries = append(entries, scanEntry{
			Path:     ref.Path,
			Size:     ref.Size,
			Format:   string(ref.Format),
			Decision: decision,
		})
	}
	return entries
}

// --- list ---

func registerListTool(srv *mcp.Server, lister DocumentLister) {
	tool := &mcp.Tool{
		Name:        "eln_list_documents",
		Description: "List all documents visible to the configured ELN user.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) { return nil, nil }

	endpoint := func(ctx context.Context, _ any) (any, error) {
		docs, err := lister.ListAllDocuments(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"documents": docs, "count": len(docs)}, nil
	}

	addTool(srv, tool, decode, endpoint)
}
