package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwkim/assistant/internal/services"
	"github.com/jwkim/assistant/internal/storage"
	"github.com/jwkim/assistant/pkg/types"
)

const (
	serverName      = "assistant"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Resource URIs exposed via resources/list and resources/read.
const (
	ResourceTodaySummary    = "assistant://summary/today"
	ResourceIncompleteTodos = "assistant://todos/incomplete"
	ResourceWeekSchedules   = "assistant://schedules/week"
)

// Server handles MCP protocol requests against the assistant store.
type Server struct {
	store     storage.Store
	service   *services.AssistantService
	sessionID string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithService overrides the assistant service, mainly so tests can inject a
// service with a pinned clock.
func WithService(svc *services.AssistantService) ServerOption {
	return func(s *Server) {
		s.service = svc
	}
}

// NewServer creates an MCP server backed by the given store.
func NewServer(store storage.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:     store,
		sessionID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.service == nil {
		s.service = services.NewAssistantService(store)
	}
	return s
}

// SessionID returns the unique identifier for this server session.
func (s *Server) SessionID() string {
	return s.sessionID
}

// HandleRequest processes a single JSON-RPC request and returns the response.
// Notifications return nil.
func (s *Server) HandleRequest(ctx context.Context, data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse(nil, ErrCodeParseError, "parse error: "+err.Error())
	}

	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, ErrCodeInvalidRequest, "jsonrpc must be \"2.0\"")
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "initialized":
		return nil
	case "ping":
		return successResponse(req.ID, map[string]interface{}{})
	case "tools/list":
		return successResponse(req.ID, MCPToolsListResult{Tools: buildToolsList()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return successResponse(req.ID, MCPResourcesListResult{Resources: buildResourcesList()})
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, ErrCodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req JSONRPCRequest) *JSONRPCResponse {
	var p MCPInitializeParams
	if err := unmarshalParams(req.Params, &p); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, "invalid initialize params: "+err.Error())
	}
	return successResponse(req.ID, MCPInitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: MCPServerCapabilities{
			Tools:     &MCPToolsCapability{},
			Resources: &MCPResourcesCapability{},
		},
		ServerInfo: MCPServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	})
}

func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) *JSONRPCResponse {
	var p MCPToolCallParams
	if err := unmarshalParams(req.Params, &p); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	args, err := json.Marshal(p.Arguments)
	if err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, "invalid tool arguments: "+err.Error())
	}

	result, err := s.callTool(ctx, p.Name, args)
	if err != nil {
		// Tool-level failures are reported inside the result envelope, not
		// as JSON-RPC errors, so clients can surface them to the model.
		return successResponse(req.ID, MCPToolCallResult{
			Content: []MCPToolCallContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}
	return successResponse(req.ID, toolResult(result))
}

func (s *Server) callTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "create_memo":
		return s.createMemo(ctx, args)
	case "list_memos":
		return s.listMemos(ctx, args)
	case "get_memo":
		return s.getMemo(ctx, args)
	case "update_memo":
		return s.updateMemo(ctx, args)
	case "delete_memo":
		return s.deleteMemo(ctx, args)
	case "create_todo":
		return s.createTodo(ctx, args)
	case "list_todos":
		return s.listTodos(ctx, args)
	case "get_todo":
		return s.getTodo(ctx, args)
	case "update_todo":
		return s.updateTodo(ctx, args)
	case "delete_todo":
		return s.deleteTodo(ctx, args)
	case "create_schedule":
		return s.createSchedule(ctx, args)
	case "list_schedules":
		return s.listSchedules(ctx, args)
	case "get_schedule":
		return s.getSchedule(ctx, args)
	case "update_schedule":
		return s.updateSchedule(ctx, args)
	case "delete_schedule":
		return s.deleteSchedule(ctx, args)
	case "create_bookmark":
		return s.createBookmark(ctx, args)
	case "list_bookmarks":
		return s.listBookmarks(ctx, args)
	case "get_bookmark":
		return s.getBookmark(ctx, args)
	case "update_bookmark":
		return s.updateBookmark(ctx, args)
	case "delete_bookmark":
		return s.deleteBookmark(ctx, args)
	case "search_all":
		return s.searchAll(ctx, args)
	case "get_today_summary":
		return s.service.TodaySummary(ctx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// --- memo tools ---

func (s *Server) createMemo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a CreateMemoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid create_memo arguments: %w", err)
	}
	return s.store.CreateMemo(ctx, storage.MemoCreate{
		Title:   a.Title,
		Content: a.Content,
		Tags:    a.Tags,
	})
}

func (s *Server) listMemos(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ListMemosArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid list_memos arguments: %w", err)
	}
	filter := storage.MemoFilter{
		Query: optString(a.Query),
		Tag:   optString(a.Tag),
	}
	memos, err := s.store.ListMemos(ctx, filter, a.Limit)
	if err != nil {
		return nil, err
	}
	return ListMemosResult{Memos: memos, Total: len(memos)}, nil
}

func (s *Server) getMemo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "get_memo")
	if err != nil {
		return nil, err
	}
	return s.store.GetMemo(ctx, id)
}

func (s *Server) updateMemo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a UpdateMemoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid update_memo arguments: %w", err)
	}
	if a.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", storage.ErrInvalidInput)
	}
	return s.store.UpdateMemo(ctx, a.ID, storage.MemoUpdate{
		Title:   a.Title,
		Content: a.Content,
		Tags:    a.Tags,
	})
}

func (s *Server) deleteMemo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "delete_memo")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteMemo(ctx, id); err != nil {
		return nil, err
	}
	return DeleteResult{ID: id, Deleted: true}, nil
}

// --- todo tools ---

func (s *Server) createTodo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a CreateTodoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid create_todo arguments: %w", err)
	}
	return s.store.CreateTodo(ctx, storage.TodoCreate{
		Title:       a.Title,
		Description: a.Description,
		Priority:    types.Priority(a.Priority),
		DueDate:     a.DueDate,
		Tags:        a.Tags,
	})
}

func (s *Server) listTodos(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ListTodosArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid list_todos arguments: %w", err)
	}
	filter := storage.TodoFilter{
		Completed: a.Completed,
		Tag:       optString(a.Tag),
	}
	if a.Priority != "" {
		p := types.Priority(a.Priority)
		if !types.IsValidPriority(p) {
			return nil, fmt.Errorf("%w: invalid priority %q", storage.ErrInvalidInput, a.Priority)
		}
		filter.Priority = &p
	}
	todos, err := s.store.ListTodos(ctx, filter, a.Limit)
	if err != nil {
		return nil, err
	}
	return ListTodosResult{Todos: todos, Total: len(todos)}, nil
}

func (s *Server) getTodo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "get_todo")
	if err != nil {
		return nil, err
	}
	return s.store.GetTodo(ctx, id)
}

func (s *Server) updateTodo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a UpdateTodoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid update_todo arguments: %w", err)
	}
	if a.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", storage.ErrInvalidInput)
	}
	update := storage.TodoUpdate{
		Title:       a.Title,
		Description: a.Description,
		Completed:   a.Completed,
		DueDate:     a.DueDate,
		SetDueDate:  a.DueDateSet,
		Tags:        a.Tags,
	}
	if a.Priority != nil {
		p := types.Priority(*a.Priority)
		update.Priority = &p
	}
	return s.store.UpdateTodo(ctx, a.ID, update)
}

func (s *Server) deleteTodo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "delete_todo")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return nil, err
	}
	return DeleteResult{ID: id, Deleted: true}, nil
}

// --- schedule tools ---

func (s *Server) createSchedule(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a CreateScheduleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid create_schedule arguments: %w", err)
	}
	start, err := parseTimeArg(a.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_time: %v", storage.ErrInvalidInput, err)
	}
	create := storage.ScheduleCreate{
		Title:       a.Title,
		Description: a.Description,
		StartTime:   start,
		Location:    a.Location,
		Tags:        a.Tags,
	}
	if a.EndTime != nil {
		end, err := parseTimeArg(*a.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_time: %v", storage.ErrInvalidInput, err)
		}
		create.EndTime = &end
	}
	return s.store.CreateSchedule(ctx, create)
}

func (s *Server) listSchedules(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ListSchedulesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid list_schedules arguments: %w", err)
	}
	filter := storage.ScheduleFilter{
		Date: optString(a.Date),
		From: optString(a.From),
		To:   optString(a.To),
		Tag:  optString(a.Tag),
	}
	schedules, err := s.store.ListSchedules(ctx, filter, a.Limit)
	if err != nil {
		return nil, err
	}
	return ListSchedulesResult{Schedules: schedules, Total: len(schedules)}, nil
}

func (s *Server) getSchedule(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "get_schedule")
	if err != nil {
		return nil, err
	}
	return s.store.GetSchedule(ctx, id)
}

func (s *Server) updateSchedule(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a UpdateScheduleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid update_schedule arguments: %w", err)
	}
	if a.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", storage.ErrInvalidInput)
	}
	update := storage.ScheduleUpdate{
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		SetEndTime:  a.EndTimeSet,
		Tags:        a.Tags,
	}
	if a.StartTime != nil {
		start, err := parseTimeArg(*a.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_time: %v", storage.ErrInvalidInput, err)
		}
		update.StartTime = &start
	}
	if a.EndTime != nil {
		end, err := parseTimeArg(*a.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_time: %v", storage.ErrInvalidInput, err)
		}
		update.EndTime = &end
	}
	return s.store.UpdateSchedule(ctx, a.ID, update)
}

func (s *Server) deleteSchedule(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "delete_schedule")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		return nil, err
	}
	return DeleteResult{ID: id, Deleted: true}, nil
}

// --- bookmark tools ---

func (s *Server) createBookmark(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a CreateBookmarkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid create_bookmark arguments: %w", err)
	}
	return s.store.CreateBookmark(ctx, storage.BookmarkCreate{
		URL:         a.URL,
		Title:       a.Title,
		Description: a.Description,
		Tags:        a.Tags,
	})
}

func (s *Server) listBookmarks(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ListBookmarksArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid list_bookmarks arguments: %w", err)
	}
	filter := storage.BookmarkFilter{
		Query: optString(a.Query),
		Tag:   optString(a.Tag),
	}
	bookmarks, err := s.store.ListBookmarks(ctx, filter, a.Limit)
	if err != nil {
		return nil, err
	}
	return ListBookmarksResult{Bookmarks: bookmarks, Total: len(bookmarks)}, nil
}

func (s *Server) getBookmark(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "get_bookmark")
	if err != nil {
		return nil, err
	}
	return s.store.GetBookmark(ctx, id)
}

func (s *Server) updateBookmark(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a UpdateBookmarkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid update_bookmark arguments: %w", err)
	}
	if a.ID <= 0 {
		return nil, fmt.Errorf("%w: id is required", storage.ErrInvalidInput)
	}
	return s.store.UpdateBookmark(ctx, a.ID, storage.BookmarkUpdate{
		URL:         a.URL,
		Title:       a.Title,
		Description: a.Description,
		Tags:        a.Tags,
	})
}

func (s *Server) deleteBookmark(ctx context.Context, args json.RawMessage) (interface{}, error) {
	id, err := parseID(args, "delete_bookmark")
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteBookmark(ctx, id); err != nil {
		return nil, err
	}
	return DeleteResult{ID: id, Deleted: true}, nil
}

// --- cross-entity tools ---

func (s *Server) searchAll(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a SearchAllArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid search_all arguments: %w", err)
	}
	return s.service.SearchAll(ctx, a.Query, a.Limit)
}

// --- resources ---

func buildResourcesList() []MCPResource {
	return []MCPResource{
		{
			URI:         ResourceTodaySummary,
			Name:        "Today's summary",
			Description: "Today's schedules, due todos, recent memos, and counts",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceIncompleteTodos,
			Name:        "Incomplete todos",
			Description: "All incomplete todos in priority and due-date order",
			MimeType:    "application/json",
		},
		{
			URI:         ResourceWeekSchedules,
			Name:        "This week's schedules",
			Description: "Schedules from Monday through Sunday of the current week",
			MimeType:    "application/json",
		},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, req JSONRPCRequest) *JSONRPCResponse {
	var p MCPResourceReadParams
	if err := unmarshalParams(req.Params, &p); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, "invalid resources/read params: "+err.Error())
	}

	var (
		result interface{}
		err    error
	)
	switch p.URI {
	case ResourceTodaySummary:
		result, err = s.service.TodaySummary(ctx)
	case ResourceIncompleteTodos:
		result, err = s.service.IncompleteTodos(ctx)
	case ResourceWeekSchedules:
		result, err = s.service.WeekSchedules(ctx)
	default:
		return errorResponse(req.ID, ErrCodeInvalidParams, "unknown resource: "+p.URI)
	}
	if err != nil {
		return errorResponse(req.ID, ErrCodeServerError, "resource read failed: "+err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResponse(req.ID, ErrCodeInternalError, "marshal resource: "+err.Error())
	}
	return successResponse(req.ID, MCPResourcesReadResult{
		Contents: []MCPResourceContents{{
			URI:      p.URI,
			MimeType: "application/json",
			Text:     string(text),
		}},
	})
}

// --- helpers ---

// parseTimeArg accepts RFC 3339 timestamps plus a few looser forms MCP
// clients tend to send. Zoneless forms are interpreted as UTC.
func parseTimeArg(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func parseID(args json.RawMessage, tool string) (int64, error) {
	var a GetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return 0, fmt.Errorf("invalid %s arguments: %w", tool, err)
	}
	if a.ID <= 0 {
		return 0, fmt.Errorf("%w: id is required", storage.ErrInvalidInput)
	}
	return a.ID, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toolResult wraps a handler result in the MCP tool call envelope, with the
// payload serialized as pretty-printed JSON text.
func toolResult(v interface{}) MCPToolCallResult {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return MCPToolCallResult{
			Content: []MCPToolCallContent{{Type: "text", Text: "marshal result: " + err.Error()}},
			IsError: true,
		}
	}
	return MCPToolCallResult{
		Content: []MCPToolCallContent{{Type: "text", Text: string(text)}},
	}
}

// unmarshalParams converts the loosely-typed params field into a concrete
// parameter struct via a JSON round trip.
func unmarshalParams(params interface{}, v interface{}) error {
	if params == nil {
		return nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func successResponse(id interface{}, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", Result: result, ID: id}
}

func errorResponse(id interface{}, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   &JSONRPCError{Code: code, Message: message},
		ID:      id,
	}
}
