// Package mcptool exposes cause list segmentation as MCP tools.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"causelist/pkg/ocr"
	"causelist/pkg/segment"
)

// ExtractorFunc builds the OCR extractor for an engine name.
type ExtractorFunc func(engine string) (ocr.Extractor, error)

// Tools holds what the tool handlers need. NewExtractor may be nil, in which
// case the PDF tool is not registered.
type Tools struct {
	NewExtractor ExtractorFunc
	MaxPages     int
	Logger       *zap.Logger
}

// Register adds the tools to srv.
func (t *Tools) Register(srv *mcp.Server) {
	if t.Logger == nil {
		t.Logger = zap.NewNop()
	}
	t.registerSegment(srv)
	t.registerEngines(srv)
	if t.NewExtractor != nil {
		t.registerPDF(srv)
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

type handler func(ctx context.Context, args json.RawMessage) (any, error)

func addTool(srv *mcp.Server, tool *mcp.Tool, h handler) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := h(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
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

// CasesResponse is the payload of the segmenting tools.
type CasesResponse struct {
	Engine string         `json:"engine"`
	Count  int            `json:"count"`
	Keys   []string       `json:"keys"`
	Cases  *segment.Cases `json:"cases,omitempty"`
	Case   string         `json:"case,omitempty"`
	Pages  int            `json:"pages,omitempty"`
}

func casesResponse(engine string, cases *segment.Cases, sno int) (*CasesResponse, error) {
	resp := &CasesResponse{Engine: engine, Count: cases.Len(), Keys: cases.SortedKeys()}
	if sno <= 0 {
		resp.Cases = cases
		return resp, nil
	}
	text, ok := cases.Get(strconv.Itoa(sno))
	if !ok {
		return nil, fmt.Errorf("case %d not found. Available: %s", sno, cases.Available())
	}
	resp.Case = text
	return resp, nil
}

// --- segment_cause_list ---

type segmentReq struct {
	Text   string `json:"text"`
	Engine string `json:"engine"`
	Case   int    `json:"case"`
}

func (t *Tools) registerSegment(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "segment_cause_list",
		Description: "Split raw OCR text of a court cause list into cases keyed by serial number.",
		InputSchema: inputSchema(map[string]any{
			"text":   map[string]any{"type": "string", "description": "Raw OCR text in reading order"},
			"engine": map[string]any{"type": "string", "enum": segment.EngineNames(), "description": "OCR engine that produced the text"},
			"case":   map[string]any{"type": "integer", "description": "Return only this serial"},
		}, []string{"text", "engine"}),
	}
	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r segmentReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		cases, err := segment.Segment(ocr.NormalizeText(r.Text), r.Engine)
		if err != nil {
			return nil, err
		}
		return casesResponse(r.Engine, cases, r.Case)
	})
}

// --- segment_pdf ---

type pdfReq struct {
	Path   string `json:"path"`
	Engine string `json:"engine"`
	Case   int    `json:"case"`
}

func (t *Tools) registerPDF(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "segment_pdf",
		Description: "OCR a cause list PDF with the chosen engine and split it into cases.",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "PDF file path"},
			"engine": map[string]any{"type": "string", "enum": segment.EngineNames()},
			"case":   map[string]any{"type": "integer", "description": "Return only this serial"},
		}, []string{"path", "engine"}),
	}
	addTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r pdfReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if _, err := segment.ParseEngine(r.Engine); err != nil {
			return nil, err
		}
		if r.Path == "" {
			return nil, errors.New("path is required")
		}
		pdf, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, err
		}
		ex, err := t.NewExtractor(r.Engine)
		if err != nil {
			return nil, err
		}
		res, err := ex.Extract(ctx, pdf, t.MaxPages)
		if err != nil {
			t.Logger.Warn("mcp extraction failed", zap.String("path", r.Path), zap.Error(err))
			return nil, err
		}
		cases, err := segment.Segment(res.Text, r.Engine)
		if err != nil {
			return nil, err
		}
		resp, err := casesResponse(r.Engine, cases, r.Case)
		if err != nil {
			return nil, err
		}
		resp.Pages = res.Pages
		return resp, nil
	})
}

// --- list_engines ---

func (t *Tools) registerEngines(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_engines",
		Description: "List the OCR engines with a segmentation pipeline.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(context.Context, json.RawMessage) (any, error) {
		return map[string]any{"engines": segment.EngineNames()}, nil
	})
}
