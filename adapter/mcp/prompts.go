package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common prioritization workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("prioritize_tasks").
		Description("Rank a task list and walk through the result: what to do first, what is blocked, and which dependency cycles to break.").
		Argument("strategy", "Strategy to rank with; the configured default when empty", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			strategy := args["strategy"]
			if strategy == "" {
				strategy = "the default strategy"
			}
			return &mcp.PromptResult{
				Description: "Task prioritization",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me decide what to work on. Please:

1. Read the strategies://all resource to see which strategies exist
2. Call analyze_tasks with my tasks using %s
3. Explain the top three tasks using their explanations and component scores

If circular_dependencies is not empty, name the tasks in each cycle and
suggest which dependency to drop. Point out tasks whose due date has passed.`, strategy),
						},
					},
				},
			}, nil
		})

	srv.Prompt("compare_strategies").
		Description("Run the same tasks through every strategy and summarize how the ranking changes.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Strategy comparison",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Compare the scoring strategies on my tasks. Call list_strategies, then call
suggest_tasks once per strategy with the same tasks. Show a table of the top
task per strategy and recommend one strategy for my situation.`,
						},
					},
				},
			}, nil
		})

	return nil
}
