package mcpserver

import (
	"context"

	"holdwise/internal/cards"
	"holdwise/internal/engine"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"

	"github.com/mark3labs/mcp-go/mcp"
)

func cardsArg() mcp.ToolOption {
	return mcp.WithArray("cards",
		mcp.Required(),
		mcp.Description("Five distinct cards such as \"Ah\", \"Td\", \"2c\""),
		mcp.WithStringItems(),
	)
}

func holdArg(required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description("Five flags, true keeps the card at that position"),
		mcp.Items(map[string]any{"type": "boolean"}),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithArray("hold", opts...)
}

func (s *Server) registerHandTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"optimal_hold",
			mcp.WithDescription("Best cards to hold and the expected value of holding them"),
			cardsArg(),
		),
		s.handleOptimalHold,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"expected_value",
			mcp.WithDescription("Expected value of one hold at the active paytable"),
			cardsArg(),
			holdArg(true),
		),
		s.handleExpectedValue,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"distribution",
			mcp.WithDescription("Probability and return of every paying outcome for one hold"),
			cardsArg(),
			holdArg(true),
			mcp.WithNumber("coins", mcp.Description("Coins bet, defaults to the server setting")),
		),
		s.handleDistribution,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"hold_evs",
			mcp.WithDescription("Expected value of all 32 holds"),
			cardsArg(),
		),
		s.handleHoldEVs,
	)
}

func (s *Server) registerPaytableTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_paytables",
			mcp.WithDescription("Builtin Jacks or Better paytables"),
		),
		s.handleListPaytables,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"active_paytable",
			mcp.WithDescription("Paytable, bet and full-deck baseline in use"),
		),
		s.handleActivePaytable,
	)
}

type holdView struct {
	Mask   int      `json:"mask"`
	Hold   []bool   `json:"hold"`
	Cards  []string `json:"held_cards"`
	EV     float64  `json:"ev"`
	Source string   `json:"source,omitempty"`
}

func toHoldView(hand []cards.Card, h engine.Hold) holdView {
	held := make([]string, 0, cards.HandSize)
	for i, keep := range h.Hold {
		if keep {
			held = append(held, hand[i].String())
		}
	}
	return holdView{Mask: int(h.Mask), Hold: h.Hold, Cards: held, EV: h.EV, Source: h.Source}
}

func (s *Server) handleOptimalHold(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, hand, errResp := handFrom(request)
	if errResp != nil {
		return errResp, nil
	}
	best, err := s.solver.FindOptimalHold(hand)
	if err != nil {
		return mapEngineError(err), nil
	}
	return toolResult(toHoldView(hand, best)), nil
}

func (s *Server) handleExpectedValue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, hand, errResp := handFrom(request)
	if errResp != nil {
		return errResp, nil
	}
	ev, err := s.solver.ExpectedValue(hand, args.Hold)
	if err != nil {
		return mapEngineError(err), nil
	}
	return toolResult(map[string]any{"ev": ev}), nil
}

func (s *Server) handleDistribution(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, hand, errResp := handFrom(request)
	if errResp != nil {
		return errResp, nil
	}
	coins := args.Coins
	if coins == 0 {
		coins = s.solver.Coins()
	}
	outcomes, err := s.solver.Distribution(hand, args.Hold, coins)
	if err != nil {
		return mapEngineError(err), nil
	}
	type outcomeView struct {
		Category     string  `json:"category"`
		Probability  float64 `json:"probability"`
		Contribution float64 `json:"contribution"`
	}
	out := make([]outcomeView, len(outcomes))
	for i, o := range outcomes {
		out[i] = outcomeView{Category: o.Category.String(), Probability: o.Probability, Contribution: o.Contribution}
	}
	return toolResult(map[string]any{"coins": coins, "outcomes": out}), nil
}

func (s *Server) handleHoldEVs(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, hand, errResp := handFrom(request)
	if errResp != nil {
		return errResp, nil
	}
	holds, err := s.solver.HoldEVs(hand)
	if err != nil {
		return mapEngineError(err), nil
	}
	out := make([]holdView, len(holds))
	for i, h := range holds {
		out[i] = toHoldView(hand, h)
	}
	return toolResult(map[string]any{"holds": out}), nil
}

func pays(sched paytable.Schedule) map[string]int {
	out := make(map[string]int, handeval.NumWinning)
	for _, c := range handeval.Categories() {
		if c.Winning() {
			out[c.String()] = sched.Pay(c)
		}
	}
	return out
}

func (s *Server) handleListPaytables(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := paytable.Names()
	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		sched, err := paytable.Lookup(name)
		if err != nil {
			return mapEngineError(err), nil
		}
		out = append(out, map[string]any{"name": sched.Name, "pays": pays(sched)})
	}
	return toolResult(map[string]any{"paytables": out}), nil
}

func (s *Server) handleActivePaytable(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sched := s.solver.Schedule()
	return toolResult(map[string]any{
		"name":        sched.Name,
		"pays":        pays(sched),
		"coins":       s.solver.Coins(),
		"baseline_ev": s.solver.Baseline(),
	}), nil
}
