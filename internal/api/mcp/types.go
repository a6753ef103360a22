// Package mcp implements the Model Context Protocol (MCP) server for the
// assistant. It provides JSON-RPC 2.0 based tools for managing memos, todos,
// schedules, and bookmarks, plus read-only resources for daily briefings.
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/jwkim/assistant/pkg/types"
)

// tagList accepts both a proper JSON array and the JSON-encoded-string form
// some MCP clients send for array fields ("[\"a\",\"b\"]" or "a, b").
type tagList []string

// UnmarshalJSON handles the quirky client encodings. Unrecognised formats are
// ignored rather than failing the whole request.
func (t *tagList) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err == nil {
		*t = tags
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		_ = json.Unmarshal([]byte(s), &tags)
		*t = tags
		return nil
	}
	if s != "" {
		for _, tag := range strings.Split(s, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		*t = tags
	}
	return nil
}

// CreateMemoArgs contains arguments for the create_memo tool.
type CreateMemoArgs struct {
	Title   string  `json:"title"`             // Memo title (required)
	Content string  `json:"content,omitempty"` // Memo body
	Tags    tagList `json:"tags,omitempty"`    // User-defined tags
}

// ListMemosArgs contains arguments for the list_memos tool.
type ListMemosArgs struct {
	Query string `json:"query,omitempty"` // Substring match against title and content
	Tag   string `json:"tag,omitempty"`   // Exact tag membership
	Limit int    `json:"limit,omitempty"` // Max results (default 100)
}

// ListMemosResult contains the result of listing memos.
type ListMemosResult struct {
	Memos []types.Memo `json:"memos"`
	Total int          `json:"total"`
}

// UpdateMemoArgs contains arguments for the update_memo tool.
// Nil fields leave the stored value unchanged.
type UpdateMemoArgs struct {
	ID      int64   `json:"id"`                // Memo ID (required)
	Title   *string `json:"title,omitempty"`   // New title
	Content *string `json:"content,omitempty"` // New body
	Tags    tagList `json:"tags,omitempty"`    // Replacement tag list
}

// CreateTodoArgs contains arguments for the create_todo tool.
type CreateTodoArgs struct {
	Title       string  `json:"title"`                 // Todo title (required)
	Description string  `json:"description,omitempty"` // Details
	Priority    string  `json:"priority,omitempty"`    // low, medium, or high (default medium)
	DueDate     *string `json:"due_date,omitempty"`    // YYYY-MM-DD
	Tags        tagList `json:"tags,omitempty"`        // User-defined tags
}

// ListTodosArgs contains arguments for the list_todos tool.
type ListTodosArgs struct {
	Completed *bool  `json:"completed,omitempty"` // Filter by completion state
	Priority  string `json:"priority,omitempty"`  // Filter by priority level
	Tag       string `json:"tag,omitempty"`       // Exact tag membership
	Limit     int    `json:"limit,omitempty"`     // Max results (default 100)
}

// ListTodosResult contains the result of listing todos.
type ListTodosResult struct {
	Todos []types.Todo `json:"todos"`
	Total int          `json:"total"`
}

// UpdateTodoArgs contains arguments for the update_todo tool.
//
// due_date is tri-state: omitting the key keeps the stored value, an explicit
// null clears it, and a date string replaces it. DueDateSet records whether
// the key was present in the request.
type UpdateTodoArgs struct {
	ID          int64   `json:"id"`                    // Todo ID (required)
	Title       *string `json:"title,omitempty"`       // New title
	Description *string `json:"description,omitempty"` // New details
	Completed   *bool   `json:"completed,omitempty"`   // New completion state
	Priority    *string `json:"priority,omitempty"`    // New priority level
	DueDate     *string `json:"due_date,omitempty"`    // New due date, or null to clear
	Tags        tagList `json:"tags,omitempty"`        // Replacement tag list

	// DueDateSet is true when the request contained the due_date key at all.
	DueDateSet bool `json:"-"`
}

// UnmarshalJSON records key presence for the tri-state due_date field.
func (a *UpdateTodoArgs) UnmarshalJSON(data []byte) error {
	type Alias UpdateTodoArgs
	if err := json.Unmarshal(data, (*Alias)(a)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, a.DueDateSet = keys["due_date"]
	return nil
}

// CreateScheduleArgs contains arguments for the create_schedule tool.
// Times are RFC-3339 timestamps; a bare date or a timestamp without a zone
// is also accepted.
type CreateScheduleArgs struct {
	Title       string  `json:"title"`                 // Event title (required)
	Description string  `json:"description,omitempty"` // Details
	StartTime   string  `json:"start_time"`            // Event start (required)
	EndTime     *string `json:"end_time,omitempty"`    // Event end
	Location    string  `json:"location,omitempty"`    // Where
	Tags        tagList `json:"tags,omitempty"`        // User-defined tags
}

// ListSchedulesArgs contains arguments for the list_schedules tool.
// Dates are YYYY-MM-DD and compare against the calendar date of start_time.
type ListSchedulesArgs struct {
	Date  string `json:"date,omitempty"`  // Events starting on this exact date
	From  string `json:"from,omitempty"`  // Events starting on or after this date
	To    string `json:"to,omitempty"`    // Events starting on or before this date
	Tag   string `json:"tag,omitempty"`   // Exact tag membership
	Limit int    `json:"limit,omitempty"` // Max results (default 100)
}

// ListSchedulesResult contains the result of listing schedules.
type ListSchedulesResult struct {
	Schedules []types.Schedule `json:"schedules"`
	Total     int              `json:"total"`
}

// UpdateScheduleArgs contains arguments for the update_schedule tool.
// end_time follows the same tri-state convention as update_todo's due_date.
type UpdateScheduleArgs struct {
	ID          int64   `json:"id"`                    // Schedule ID (required)
	Title       *string `json:"title,omitempty"`       // New title
	Description *string `json:"description,omitempty"` // New details
	StartTime   *string `json:"start_time,omitempty"`  // New start time
	EndTime     *string `json:"end_time,omitempty"`    // New end time, or null to clear
	Location    *string `json:"location,omitempty"`    // New location
	Tags        tagList `json:"tags,omitempty"`        // Replacement tag list

	// EndTimeSet is true when the request contained the end_time key at all.
	EndTimeSet bool `json:"-"`
}

// UnmarshalJSON records key presence for the tri-state end_time field.
func (a *UpdateScheduleArgs) UnmarshalJSON(data []byte) error {
	type Alias UpdateScheduleArgs
	if err := json.Unmarshal(data, (*Alias)(a)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, a.EndTimeSet = keys["end_time"]
	return nil
}

// CreateBookmarkArgs contains arguments for the create_bookmark tool.
type CreateBookmarkArgs struct {
	URL         string  `json:"url"`                   // Bookmark URL (required)
	Title       string  `json:"title"`                 // Display title (required)
	Description string  `json:"description,omitempty"` // Details
	Tags        tagList `json:"tags,omitempty"`        // User-defined tags
}

// ListBookmarksArgs contains arguments for the list_bookmarks tool.
type ListBookmarksArgs struct {
	Query string `json:"query,omitempty"` // Substring match against title, description, and URL
	Tag   string `json:"tag,omitempty"`   // Exact tag membership
	Limit int    `json:"limit,omitempty"` // Max results (default 100)
}

// ListBookmarksResult contains the result of listing bookmarks.
type ListBookmarksResult struct {
	Bookmarks []types.Bookmark `json:"bookmarks"`
	Total     int              `json:"total"`
}

// UpdateBookmarkArgs contains arguments for the update_bookmark tool.
type UpdateBookmarkArgs struct {
	ID          int64   `json:"id"`                    // Bookmark ID (required)
	URL         *string `json:"url,omitempty"`         // New URL
	Title       *string `json:"title,omitempty"`       // New title
	Description *string `json:"description,omitempty"` // New details
	Tags        tagList `json:"tags,omitempty"`        // Replacement tag list
}

// GetArgs contains arguments for the per-entity get tools.
type GetArgs struct {
	ID int64 `json:"id"` // Record ID (required)
}

// DeleteArgs contains arguments for the per-entity delete tools.
type DeleteArgs struct {
	ID int64 `json:"id"` // Record ID (required)
}

// DeleteResult contains the result of a delete tool.
type DeleteResult struct {
	ID      int64 `json:"id"`      // Record ID
	Deleted bool  `json:"deleted"` // Whether the record was deleted
}

// SearchAllArgs contains arguments for the search_all tool.
type SearchAllArgs struct {
	Query string `json:"query"`           // Search text (required)
	Limit int    `json:"limit,omitempty"` // Max results per entity type
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"` // Must be "2.0"
	Method  string      `json:"method"`  // Method name
	Params  interface{} `json:"params"`  // Method parameters
	ID      interface{} `json:"id"`      // Request ID (string, number, or null)
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`          // Must be "2.0"
	Result  interface{}   `json:"result,omitempty"` // Result (if successful)
	Error   *JSONRPCError `json:"error,omitempty"`  // Error (if failed)
	ID      interface{}   `json:"id"`               // Request ID
}

// JSONRPCError represents a JSON-RPC 2.0 error.
type JSONRPCError struct {
	Code    int         `json:"code"`           // Error code
	Message string      `json:"message"`        // Error message
	Data    interface{} `json:"data,omitempty"` // Additional error data
}

// JSON-RPC error codes
const (
	ErrCodeParseError     = -32700 // Invalid JSON
	ErrCodeInvalidRequest = -32600 // Invalid request object
	ErrCodeMethodNotFound = -32601 // Method not found
	ErrCodeInvalidParams  = -32602 // Invalid method parameters
	ErrCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrCodeServerError    = -32000 // Server error
)

// ---------------------------------------------------------------------------
// Standard MCP protocol types (initialize / tools / resources)
// ---------------------------------------------------------------------------

// MCPInitializeParams holds the parameters sent by an MCP client in the
// initialize request.
type MCPInitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities,omitempty"`
	ClientInfo      MCPClientInfo          `json:"clientInfo"`
}

// MCPClientInfo identifies the connecting MCP client.
type MCPClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MCPServerInfo identifies this MCP server.
type MCPServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MCPServerCapabilities describes what this server supports.
type MCPServerCapabilities struct {
	Tools     *MCPToolsCapability     `json:"tools,omitempty"`
	Resources *MCPResourcesCapability `json:"resources,omitempty"`
}

// MCPToolsCapability signals that the server exposes tools.
type MCPToolsCapability struct{}

// MCPResourcesCapability signals that the server exposes resources.
type MCPResourcesCapability struct{}

// MCPInitializeResult is the response to the initialize request.
type MCPInitializeResult struct {
	ProtocolVersion string                `json:"protocolVersion"`
	Capabilities    MCPServerCapabilities `json:"capabilities"`
	ServerInfo      MCPServerInfo         `json:"serverInfo"`
}

// MCPTool describes a single tool exposed via the MCP tools/list endpoint.
type MCPTool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// MCPToolsListResult is the response to the tools/list request.
type MCPToolsListResult struct {
	Tools []MCPTool `json:"tools"`
}

// MCPToolCallParams holds the parameters sent in a tools/call request.
type MCPToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// MCPToolCallContent is a single content block in a tool call response.
type MCPToolCallContent struct {
	Type string `json:"type"` // always "text" for now
	Text string `json:"text"`
}

// MCPToolCallResult is the response to a tools/call request.
type MCPToolCallResult struct {
	Content []MCPToolCallContent `json:"content"`
	IsError bool                 `json:"isError,omitempty"`
}

// MCPResource describes a single resource exposed via resources/list.
type MCPResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// MCPResourcesListResult is the response to the resources/list request.
type MCPResourcesListResult struct {
	Resources []MCPResource `json:"resources"`
}

// MCPResourceReadParams holds the parameters sent in a resources/read request.
type MCPResourceReadParams struct {
	URI string `json:"uri"`
}

// MCPResourceContents is a single contents block in a resources/read response.
type MCPResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// MCPResourcesReadResult is the response to a resources/read request.
type MCPResourcesReadResult struct {
	Contents []MCPResourceContents `json:"contents"`
}
