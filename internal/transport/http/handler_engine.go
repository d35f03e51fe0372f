package httptransport

import (
	"errors"
	"net/http"

	"holdwise/internal/cards"
	"holdwise/internal/engine"
	"holdwise/internal/handeval"
	"holdwise/internal/paytable"
)

// Solver is the engine surface served over HTTP.
type Solver interface {
	FindOptimalHold(hand []cards.Card) (engine.Hold, error)
	ExpectedValue(hand []cards.Card, hold []bool) (float64, error)
	Distribution(hand []cards.Card, hold []bool, coins int) ([]engine.Outcome, error)
	HoldEVs(hand []cards.Card) ([]engine.Hold, error)
	SetSchedule(s paytable.Schedule)
	Schedule() paytable.Schedule
	Coins() int
	Baseline() float64
}

type EngineHandlers struct {
	solver Solver
}

func NewEngineHandlers(solver Solver) *EngineHandlers {
	return &EngineHandlers{solver: solver}
}

type handRequest struct {
	Cards []string `json:"cards"`
	Hold  []bool   `json:"hold,omitempty"`
	Coins int      `json:"coins,omitempty"`
}

type holdResponse struct {
	Mask   int      `json:"mask"`
	Hold   []bool   `json:"hold"`
	Cards  []string `json:"held_cards"`
	EV     float64  `json:"ev"`
	Source string   `json:"source,omitempty"`
}

type outcomeResponse struct {
	Category     string  `json:"category"`
	Probability  float64 `json:"probability"`
	Contribution float64 `json:"contribution"`
}

type scheduleResponse struct {
	Name     string         `json:"name"`
	Pays     map[string]int `json:"pays"`
	Coins    int            `json:"coins,omitempty"`
	Baseline float64        `json:"baseline_ev,omitempty"`
}

func parseCards(in []string) ([]cards.Card, error) {
	out := make([]cards.Card, len(in))
	for i, s := range in {
		c, err := cards.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// engineError maps engine and input errors to a status and error code.
func engineError(err error) (int, string) {
	for _, e := range []error{
		cards.ErrInvalidCard,
		cards.ErrInvalidHandSize,
		cards.ErrDuplicateCard,
		cards.ErrInvalidHoldCombination,
		engine.ErrInvalidCoins,
		paytable.ErrUnknownSchedule,
	} {
		if errors.Is(err, e) {
			return http.StatusBadRequest, e.Error()
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

func (h *EngineHandlers) fail(w http.ResponseWriter, op string, err error) {
	status, code := engineError(err)
	metricRequestErrors.Add(op, 1)
	WriteHTTPError(w, status, code)
}

func (h *EngineHandlers) decode(w http.ResponseWriter, r *http.Request, op string) (handRequest, []cards.Card, bool) {
	metricRequestsTotal.Add(op, 1)
	var req handRequest
	if err := readJSON(r, &req); err != nil {
		metricRequestErrors.Add(op, 1)
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
		return req, nil, false
	}
	hand, err := parseCards(req.Cards)
	if err != nil {
		h.fail(w, op, err)
		return req, nil, false
	}
	return req, hand, true
}

func toHoldResponse(hand []cards.Card, hold engine.Hold) holdResponse {
	held := make([]string, 0, cards.HandSize)
	for i, keep := range hold.Hold {
		if keep {
			held = append(held, hand[i].String())
		}
	}
	return holdResponse{Mask: int(hold.Mask), Hold: hold.Hold, Cards: held, EV: hold.EV, Source: hold.Source}
}

func (h *EngineHandlers) OptimalHold() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, hand, ok := h.decode(w, r, "optimal_hold")
		if !ok {
			return
		}
		best, err := h.solver.FindOptimalHold(hand)
		if err != nil {
			h.fail(w, "optimal_hold", err)
			return
		}
		writeJSON(w, toHoldResponse(hand, best))
	}
}

func (h *EngineHandlers) ExpectedValue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, hand, ok := h.decode(w, r, "expected_value")
		if !ok {
			return
		}
		ev, err := h.solver.ExpectedValue(hand, req.Hold)
		if err != nil {
			h.fail(w, "expected_value", err)
			return
		}
		writeJSON(w, map[string]any{"ev": ev})
	}
}

func (h *EngineHandlers) Distribution() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, hand, ok := h.decode(w, r, "distribution")
		if !ok {
			return
		}
		coins := req.Coins
		if coins == 0 {
			coins = h.solver.Coins()
		}
		outcomes, err := h.solver.Distribution(hand, req.Hold, coins)
		if err != nil {
			h.fail(w, "distribution", err)
			return
		}
		out := make([]outcomeResponse, len(outcomes))
		for i, o := range outcomes {
			out[i] = outcomeResponse{Category: o.Category.String(), Probability: o.Probability, Contribution: o.Contribution}
		}
		writeJSON(w, map[string]any{"coins": coins, "outcomes": out})
	}
}

func (h *EngineHandlers) HoldEVs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, hand, ok := h.decode(w, r, "hold_evs")
		if !ok {
			return
		}
		holds, err := h.solver.HoldEVs(hand)
		if err != nil {
			h.fail(w, "hold_evs", err)
			return
		}
		out := make([]holdResponse, len(holds))
		for i, hold := range holds {
			out[i] = toHoldResponse(hand, hold)
		}
		writeJSON(w, map[string]any{"holds": out})
	}
}

func toScheduleResponse(s paytable.Schedule) scheduleResponse {
	pays := make(map[string]int, handeval.NumWinning)
	for _, c := range handeval.Categories() {
		if c.Winning() {
			pays[c.String()] = s.Pay(c)
		}
	}
	return scheduleResponse{Name: s.Name, Pays: pays}
}

func (h *EngineHandlers) Paytables() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricRequestsTotal.Add("paytables", 1)
		names := paytable.Names()
		out := make([]scheduleResponse, 0, len(names))
		for _, name := range names {
			s, err := paytable.Lookup(name)
			if err != nil {
				continue
			}
			out = append(out, toScheduleResponse(s))
		}
		writeJSON(w, map[string]any{"paytables": out})
	}
}

func (h *EngineHandlers) ActivePaytable() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricRequestsTotal.Add("paytable", 1)
		resp := toScheduleResponse(h.solver.Schedule())
		resp.Coins = h.solver.Coins()
		resp.Baseline = h.solver.Baseline()
		writeJSON(w, resp)
	}
}

func (h *EngineHandlers) SetPaytable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricRequestsTotal.Add("set_paytable", 1)
		var req struct {
			Name string `json:"name"`
		}
		if err := readJSON(r, &req); err != nil {
			metricRequestErrors.Add("set_paytable", 1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s, err := paytable.Lookup(req.Name)
		if err != nil {
			h.fail(w, "set_paytable", err)
			return
		}
		h.solver.SetSchedule(s)
		metricScheduleChanges.Add(1)
		resp := toScheduleResponse(s)
		resp.Coins = h.solver.Coins()
		resp.Baseline = h.solver.Baseline()
		writeJSON(w, resp)
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	}
}
