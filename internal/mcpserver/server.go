// Package mcpserver exposes the draw engine as MCP tools over streamable HTTP.
package mcpserver

import (
	"net/http"

	"holdwise/internal/cards"
	"holdwise/internal/engine"
	"holdwise/internal/paytable"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Solver is the read-only engine surface offered to MCP clients.
type Solver interface {
	FindOptimalHold(hand []cards.Card) (engine.Hold, error)
	ExpectedValue(hand []cards.Card, hold []bool) (float64, error)
	Distribution(hand []cards.Card, hold []bool, coins int) ([]engine.Outcome, error)
	HoldEVs(hand []cards.Card) ([]engine.Hold, error)
	Schedule() paytable.Schedule
	Coins() int
	Baseline() float64
}

type Server struct {
	solver Solver

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(solver Solver) *Server {
	mcpSrv := server.NewMCPServer(
		"holdwise",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s := &Server{
		solver:     solver,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerHandTools()
	s.registerPaytableTools()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

type handArgs struct {
	Cards []string `json:"cards"`
	Hold  []bool   `json:"hold"`
	Coins int      `json:"coins"`
}

// handFrom binds the shared hand arguments and parses the cards.
func handFrom(request mcp.CallToolRequest) (handArgs, []cards.Card, *mcp.CallToolResult) {
	var args handArgs
	if err := request.BindArguments(&args); err != nil {
		return args, nil, toolError("invalid_request", err.Error())
	}
	hand := make([]cards.Card, len(args.Cards))
	for i, s := range args.Cards {
		c, err := cards.Parse(s)
		if err != nil {
			return args, nil, mapEngineError(err)
		}
		hand[i] = c
	}
	return args, hand, nil
}

