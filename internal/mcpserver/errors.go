package mcpserver

import (
	"errors"
	"fmt"

	"holdwise/internal/cards"
	"holdwise/internal/engine"
	"holdwise/internal/paytable"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapEngineError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, cards.ErrInvalidCard),
		errors.Is(err, cards.ErrInvalidHandSize),
		errors.Is(err, cards.ErrDuplicateCard),
		errors.Is(err, cards.ErrInvalidHoldCombination),
		errors.Is(err, engine.ErrInvalidCoins):
		return toolError("invalid_request", err.Error())
	case errors.Is(err, paytable.ErrUnknownSchedule):
		return toolError("not_found", err.Error())
	default:
		return toolError("internal_error", err.Error())
	}
}
