package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for ad resources.
	uriScheme = "ad://"

	// historyLimit caps the runs listed by the ad://history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "users",
		Name:        "users",
		Description: "Every user of the table as CSV, in id order",
		MIMEType:    "text/csv",
	}, s.handleUsersResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent recorded runs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{runId}",
		Name:        "run",
		Description: "A single recorded run with its parameters and summary",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleUsersResource exports the user table.
func (s *Server) handleUsersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var buf bytes.Buffer
	if _, err := s.ports.Users.Export(ctx, &buf); err != nil {
		return nil, fmt.Errorf("exporting users: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/csv",
			Text:     buf.String(),
		}},
	}, nil
}

// handleHistoryResource lists recent runs.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.History.List(ctx, domain.RunFilter{Limit: historyLimit})
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	// Build a compact listing; full records are under ad://history/{id}.
	type runInfo struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		StartedAt string `json:"started_at"`
		Duration  string `json:"duration"`
		Error     string `json:"error,omitempty"`
	}

	infos := make([]runInfo, len(runs))
	for i, r := range runs {
		infos[i] = runInfo{
			ID:        r.ID,
			Kind:      string(r.Kind),
			StartedAt: r.StartedAt.Format(time.RFC3339),
			Duration:  r.Duration.String(),
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRunResource returns one recorded run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: ad://history/{runId}
	id := extractRunID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like ad://history/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
