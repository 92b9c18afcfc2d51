package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"finbuddy/internal/core"
	"finbuddy/internal/ledger"
	applog "finbuddy/internal/log"
)

// Suggested categories offered by the expense form; any text is accepted.
var suggestedCategories = []string{"Food", "Rent", "Travel", "Shopping", "Bills", "Health", core.DefaultCategory}

type statusView struct {
	Set       bool
	Budget    string
	Spent     string
	Remaining string
	Over      bool
}

type expenseView struct {
	Index    int
	Date     string
	Name     string
	Category string
	Amount   string
}

type ledgerView struct {
	Status   statusView
	Expenses []expenseView
	Revision uint64
}

type chartsView struct {
	Revision uint64
	HasData  bool
}

func newLedgerView(snap ledger.Snapshot) ledgerView {
	st := snap.Status()
	v := ledgerView{
		Status: statusView{
			Set:       snap.Budget.Cents != 0 || len(snap.Expenses) > 0,
			Budget:    formatRupees(st.Budget),
			Spent:     formatRupees(st.Spent),
			Remaining: formatRupees(st.Remaining),
			Over:      st.Over(),
		},
		Revision: snap.Revision,
	}
	for i, e := range snap.Expenses {
		v.Expenses = append(v.Expenses, expenseView{
			Index:    i,
			Date:     e.Date.String(),
			Name:     e.Name,
			Category: e.Category,
			Amount:   formatRupees(e.Amount),
		})
	}
	return v
}

func newChartsView(snap ledger.Snapshot) chartsView {
	return chartsView{Revision: snap.Revision, HasData: len(snap.Expenses) > 0}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	data := struct {
		Today      string
		Categories []string
		Ledger     ledgerView
		Charts     chartsView
	}{
		Today:      time.Now().Format(core.DateLayout),
		Categories: suggestedCategories,
		Ledger:     newLedgerView(snap),
		Charts:     newChartsView(snap),
	}
	s.render(w, r, "index.html", data)
}

func (s *Server) handleLedgerPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "ledger", newLedgerView(s.ledger.Snapshot()))
}

func (s *Server) handleChartsPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "charts", newChartsView(s.ledger.Snapshot()))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	budget := core.ParseBudget(p.Get("budget"))
	if err := s.ledger.SetBudget(r.Context(), budget); err != nil {
		s.ledgerError(w, r, ledger.OpSetBudget, err)
		return
	}
	s.ledgerChanged(w, "Budget set to "+formatRupees(budget))
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	e, err := s.ledger.AddExpense(r.Context(), p.Get("date"), p.Get("name"), p.Get("category"), p.Get("amount"))
	if err != nil {
		s.ledgerError(w, r, ledger.OpAddExpense, err)
		return
	}
	s.ledgerChanged(w, "Added "+e.Name+" ("+formatRupees(e.Amount)+")", EventFormReset)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	if !isTrue(p.Get("confirm")) {
		UnprocessableEntityError("Removal was not confirmed").Write(w)
		return
	}
	index, err := strconv.Atoi(p.Get("index"))
	if err != nil {
		UnprocessableEntityError("Invalid expense position").Write(w)
		return
	}
	e, err := s.ledger.DeleteExpense(r.Context(), index)
	if err != nil {
		s.ledgerError(w, r, ledger.OpDeleteExpense, err)
		return
	}
	s.ledgerChanged(w, "Removed "+e.Name)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		s.ledgerError(w, r, ledger.OpReset, err)
		return
	}
	s.ledgerChanged(w, "Budget and expenses cleared", EventFormReset)
}

// ledgerChanged answers a successful mutation: the page reloads its
// partials on ledger:changed.
func (s *Server) ledgerChanged(w http.ResponseWriter, message string, extra ...string) {
	b := NewHTMXResponse().
		TriggerLedgerChanged(s.ledger.Revision()).
		TriggerSuccessNotification(message).
		BodyHTML(`<div class="success">` + escape(message) + `</div>`)
	for _, name := range extra {
		b.Trigger(name, struct{}{})
	}
	b.Write(w)
}

// ledgerError maps ledger failures: bad input is 422, anything else is a store failure.
func (s *Server) ledgerError(w http.ResponseWriter, r *http.Request, op ledger.Op, err error) {
	switch {
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		UnprocessableEntityError("That expense no longer exists").Write(w)
	case core.IsValidation(err):
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Rejected ledger input",
			"operation", string(op),
			"error", err)
		UnprocessableEntityError("Please fill Date, Name and valid Amount").Write(w)
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
	default:
		s.slog.LogError(r.Context(), "Ledger mutation failed", err, applog.ComponentLedger, string(op), nil)
		InternalServerError("Could not save your changes").Write(w)
	}
}
