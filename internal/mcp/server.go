package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/service"
)

// Server implements the Model Context Protocol (MCP) server.
// It exposes the comment pipeline as tools for external agents.
type Server struct {
	comments *service.CommentService
	port     string
	audit    AuditWriter
}

// AuditWriter persists one audit row per tool call.
type AuditWriter interface {
	WriteAudit(actor, action, resource, resourceID, details, ip, userAgent string) error
}

// Option configures a Server.
type Option func(*Server)

// WithAuditWriter records every tools/call in the audit trail.
func WithAuditWriter(w AuditWriter) Option {
	return func(s *Server) { s.audit = w }
}

// NewServer creates a new MCP server.
func NewServer(comments *service.CommentService, port string, opts ...Option) *Server {
	s := &Server{
		comments: comments,
		port:     port,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handler returns the MCP HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleRPC)
	mux.HandleFunc("/mcp/sse", s.handleSSE)
	return mux
}

// Start begins the MCP server on the configured port.
func (s *Server) Start() error {
	slog.Info("MCP server starting", "port", s.port)
	return http.ListenAndServe(":"+s.port, s.Handler())
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "parse error")
		return
	}

	var result interface{}
	var err error

	switch req.Method {
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		var tool string
		tool, result, err = s.callTool(r.Context(), req.Params)
		s.recordCall(r, tool, err)
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]string{
				"name":    "commit-annotator",
				"version": "1.0.0",
			},
			"capabilities": map[string]interface{}{
				"tools": map[string]bool{"listChanged": false},
			},
		}
	case "ping":
		result = map[string]interface{}{}
	case "notifications/initialized":
		w.WriteHeader(http.StatusAccepted)
		return
	default:
		writeError(w, req.ID, -32601, "method not found")
		return
	}

	if err != nil {
		writeError(w, req.ID, -32603, err.Error())
		return
	}

	writeResult(w, req.ID, result)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: endpoint\ndata: /mcp\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	<-r.Context().Done()
}

func (s *Server) listTools() map[string]interface{} {
	tools := []Tool{
		{
			Name:        "preview_comments",
			Description: "Generate comments for the files changed by a commit and open a staging session",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"token": {"type": "string", "description": "GitHub access token"},
					"owner": {"type": "string", "description": "Repository owner"},
					"repo": {"type": "string", "description": "Repository name"},
					"sha": {"type": "string", "description": "Commit SHA"},
					"branch": {"type": "string", "description": "Branch to read from and publish to (default main)"}
				},
				"required": ["token", "owner", "repo", "sha"]
			}`),
		},
		{
			Name:        "update_session_comments",
			Description: "Replace the staged files of a session",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"session_id": {"type": "string", "description": "Session ID"},
					"updated_files": {"type": "object", "additionalProperties": {"type": "string"}, "description": "Path to full file content"}
				},
				"required": ["session_id", "updated_files"]
			}`),
		},
		{
			Name:        "push_session_comments",
			Description: "Publish a session's staged files as one commit",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"session_id": {"type": "string", "description": "Session ID"}
				},
				"required": ["session_id"]
			}`),
		},
		{
			Name:        "delete_session",
			Description: "Discard a staging session",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"session_id": {"type": "string", "description": "Session ID"}
				},
				"required": ["session_id"]
			}`),
		},
		{
			Name:        "apply_comments_and_push",
			Description: "Generate comments for a commit and publish them without review",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"token": {"type": "string", "description": "GitHub access token"},
					"owner": {"type": "string", "description": "Repository owner"},
					"repo": {"type": "string", "description": "Repository name"},
					"sha": {"type": "string", "description": "Commit SHA"},
					"branch": {"type": "string", "description": "Target branch (default main)"}
				},
				"required": ["token", "owner", "repo", "sha"]
			}`),
		},
	}
	return map[string]interface{}{"tools": tools}
}

type commitArgs struct {
	Token  string `json:"token"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	SHA    string `json:"sha"`
	Branch string `json:"branch"`
}

func (a *commitArgs) branch() string {
	if a.Branch == "" {
		return "main"
	}
	return a.Branch
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (string, interface{}, error) {
	var req struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return "", nil, fmt.Errorf("invalid params: %w", err)
	}
	slog.Info("MCP tool call", "tool", req.Name)

	result, err := s.dispatch(ctx, req.Name, req.Arguments)
	return req.Name, result, err
}

func (s *Server) dispatch(ctx context.Context, name string, arguments json.RawMessage) (interface{}, error) {
	switch name {
	case "preview_comments":
		var args commitArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		preview, err := s.comments.Preview(ctx, args.Token, args.Owner, args.Repo, args.SHA, args.branch())
		if err != nil {
			return nil, err
		}
		return toolResult(fmt.Sprintf("Session %s: %d file(s) annotated, %d skipped.",
			preview.SessionID, len(preview.StagedFiles()), len(preview.Skipped)), preview), nil

	case "update_session_comments":
		var args struct {
			SessionID    string            `json:"session_id"`
			UpdatedFiles map[string]string `json:"updated_files"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if err := s.comments.UpdateSession(ctx, args.SessionID, args.UpdatedFiles); err != nil {
			return nil, err
		}
		return toolResult(fmt.Sprintf("Session %s now stages %d file(s).", args.SessionID, len(args.UpdatedFiles)), nil), nil

	case "push_session_comments":
		var args struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		result, err := s.comments.Publish(ctx, args.SessionID)
		if err != nil {
			return nil, err
		}
		return toolResult(result.Message, result), nil

	case "delete_session":
		var args struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if err := s.comments.DeleteSession(ctx, args.SessionID); err != nil {
			return nil, err
		}
		return toolResult("Session "+args.SessionID+" deleted.", nil), nil

	case "apply_comments_and_push":
		var args commitArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		result, err := s.comments.PublishDirect(ctx, args.Token, args.Owner, args.Repo, args.SHA, args.branch())
		if err != nil {
			return nil, err
		}
		return toolResult(result.Message, result), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) recordCall(r *http.Request, tool string, callErr error) {
	if s.audit == nil {
		return
	}
	details := map[string]interface{}{"ok": callErr == nil}
	if callErr != nil {
		details["error"] = callErr.Error()
	}
	detailsJSON, _ := json.Marshal(details)
	ip, userAgent := r.RemoteAddr, r.UserAgent()

	go func() {
		if err := s.audit.WriteAudit("mcp", domain.AuditActionMCPCall, "tool", tool, string(detailsJSON), ip, userAgent); err != nil {
			slog.Error("failed to write audit log", "error", err)
		}
	}()
}

func toolResult(text string, data interface{}) map[string]interface{} {
	out := map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
	if data != nil {
		out["data"] = data
	}
	return out
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
