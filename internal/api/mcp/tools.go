package mcp

// buildToolsList returns the catalog served by tools/list. Schemas are plain
// JSON Schema maps so clients can validate arguments before calling.
func buildToolsList() []MCPTool {
	idSchema := func(desc string) map[string]interface{} {
		return map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": desc,
				},
			},
			"required": []string{"id"},
		}
	}
	tagsProp := map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Tags for categorization",
	}
	limitProp := map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results (default 100)",
	}

	return []MCPTool{
		{
			Name:        "create_memo",
			Description: "Create a new memo with a title, optional content, and tags",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":   map[string]interface{}{"type": "string", "description": "Memo title"},
					"content": map[string]interface{}{"type": "string", "description": "Memo body text"},
					"tags":    tagsProp,
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "list_memos",
			Description: "List memos, optionally filtered by a search query or tag, newest first",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string", "description": "Case-insensitive search over title and content"},
					"tag":   map[string]interface{}{"type": "string", "description": "Only memos carrying this exact tag"},
					"limit": limitProp,
				},
			},
		},
		{
			Name:        "get_memo",
			Description: "Get a single memo by ID",
			InputSchema: idSchema("Memo ID"),
		},
		{
			Name:        "update_memo",
			Description: "Update a memo. Omitted fields keep their current values",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":      map[string]interface{}{"type": "integer", "description": "Memo ID"},
					"title":   map[string]interface{}{"type": "string", "description": "New title"},
					"content": map[string]interface{}{"type": "string", "description": "New body text"},
					"tags":    tagsProp,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_memo",
			Description: "Delete a memo by ID",
			InputSchema: idSchema("Memo ID"),
		},
		{
			Name:        "create_todo",
			Description: "Create a new todo with a title, optional description, priority, due date, and tags",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       map[string]interface{}{"type": "string", "description": "Todo title"},
					"description": map[string]interface{}{"type": "string", "description": "Todo details"},
					"priority": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"low", "medium", "high"},
						"description": "Priority level (default medium)",
					},
					"due_date": map[string]interface{}{"type": "string", "description": "Due date in YYYY-MM-DD format"},
					"tags":     tagsProp,
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "list_todos",
			Description: "List todos ordered by priority then due date, optionally filtered by completion, priority, or tag",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"completed": map[string]interface{}{"type": "boolean", "description": "Filter by completion state"},
					"priority": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"low", "medium", "high"},
						"description": "Only todos with this priority",
					},
					"tag":   map[string]interface{}{"type": "string", "description": "Only todos carrying this exact tag"},
					"limit": limitProp,
				},
			},
		},
		{
			Name:        "get_todo",
			Description: "Get a single todo by ID",
			InputSchema: idSchema("Todo ID"),
		},
		{
			Name:        "update_todo",
			Description: "Update a todo. Omitted fields keep their current values; pass due_date as null to clear it",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":          map[string]interface{}{"type": "integer", "description": "Todo ID"},
					"title":       map[string]interface{}{"type": "string", "description": "New title"},
					"description": map[string]interface{}{"type": "string", "description": "New details"},
					"completed":   map[string]interface{}{"type": "boolean", "description": "New completion state"},
					"priority": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"low", "medium", "high"},
						"description": "New priority level",
					},
					"due_date": map[string]interface{}{
						"type":        []string{"string", "null"},
						"description": "New due date in YYYY-MM-DD format, or null to clear",
					},
					"tags": tagsProp,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_todo",
			Description: "Delete a todo by ID",
			InputSchema: idSchema("Todo ID"),
		},
		{
			Name:        "create_schedule",
			Description: "Create a new schedule entry with a title, start time, and optional end time, location, and tags",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       map[string]interface{}{"type": "string", "description": "Event title"},
					"description": map[string]interface{}{"type": "string", "description": "Event details"},
					"start_time":  map[string]interface{}{"type": "string", "description": "Event start as an RFC 3339 timestamp"},
					"end_time":    map[string]interface{}{"type": "string", "description": "Event end as an RFC 3339 timestamp"},
					"location":    map[string]interface{}{"type": "string", "description": "Where the event takes place"},
					"tags":        tagsProp,
				},
				"required": []string{"title", "start_time"},
			},
		},
		{
			Name:        "list_schedules",
			Description: "List schedules in start-time order, optionally filtered by date, date range, or tag",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"date": map[string]interface{}{"type": "string", "description": "Events starting on this date (YYYY-MM-DD)"},
					"from": map[string]interface{}{"type": "string", "description": "Events starting on or after this date (YYYY-MM-DD)"},
					"to":   map[string]interface{}{"type": "string", "description": "Events starting on or before this date (YYYY-MM-DD)"},
					"tag":  map[string]interface{}{"type": "string", "description": "Only schedules carrying this exact tag"},
					"limit": limitProp,
				},
			},
		},
		{
			Name:        "get_schedule",
			Description: "Get a single schedule entry by ID",
			InputSchema: idSchema("Schedule ID"),
		},
		{
			Name:        "update_schedule",
			Description: "Update a schedule entry. Omitted fields keep their current values; pass end_time as null to clear it",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":          map[string]interface{}{"type": "integer", "description": "Schedule ID"},
					"title":       map[string]interface{}{"type": "string", "description": "New title"},
					"description": map[string]interface{}{"type": "string", "description": "New details"},
					"start_time":  map[string]interface{}{"type": "string", "description": "New start as an RFC 3339 timestamp"},
					"end_time": map[string]interface{}{
						"type":        []string{"string", "null"},
						"description": "New end as an RFC 3339 timestamp, or null to clear",
					},
					"location": map[string]interface{}{"type": "string", "description": "New location"},
					"tags":     tagsProp,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_schedule",
			Description: "Delete a schedule entry by ID",
			InputSchema: idSchema("Schedule ID"),
		},
		{
			Name:        "create_bookmark",
			Description: "Save a new bookmark with a URL, a title, and optional description and tags",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url":         map[string]interface{}{"type": "string", "description": "Bookmark URL"},
					"title":       map[string]interface{}{"type": "string", "description": "Display title"},
					"description": map[string]interface{}{"type": "string", "description": "What this bookmark is about"},
					"tags":        tagsProp,
				},
				"required": []string{"url", "title"},
			},
		},
		{
			Name:        "list_bookmarks",
			Description: "List bookmarks, optionally filtered by a search query or tag, newest first",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string", "description": "Case-insensitive search over title, description, and URL"},
					"tag":   map[string]interface{}{"type": "string", "description": "Only bookmarks carrying this exact tag"},
					"limit": limitProp,
				},
			},
		},
		{
			Name:        "get_bookmark",
			Description: "Get a single bookmark by ID",
			InputSchema: idSchema("Bookmark ID"),
		},
		{
			Name:        "update_bookmark",
			Description: "Update a bookmark. Omitted fields keep their current values",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":          map[string]interface{}{"type": "integer", "description": "Bookmark ID"},
					"url":         map[string]interface{}{"type": "string", "description": "New URL"},
					"title":       map[string]interface{}{"type": "string", "description": "New title"},
					"description": map[string]interface{}{"type": "string", "description": "New description"},
					"tags":        tagsProp,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_bookmark",
			Description: "Delete a bookmark by ID",
			InputSchema: idSchema("Bookmark ID"),
		},
		{
			Name:        "search_all",
			Description: "Search memos, todos, schedules, and bookmarks at once with a single query",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string", "description": "Case-insensitive search text"},
					"limit": map[string]interface{}{"type": "integer", "description": "Maximum results per entity type"},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_today_summary",
			Description: "Get today's briefing: schedules, due todos, incomplete todo count, recent memos, and bookmark count",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
