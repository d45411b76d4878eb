package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Amounts cross the API as decimal strings ("100.00") and are parsed
// into integer minor units at the boundary; nothing downstream ever
// touches floating point.

type recordExpenseRequest struct {
	Amount       string   `json:"amount"`
	PaidBy       string   `json:"paid_by"`
	Participants []string `json:"participants,omitempty"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
}

type expenseResponse struct {
	ID           string   `json:"id"`
	GroupID      string   `json:"group_id"`
	Seq          int64    `json:"seq"`
	PaidBy       string   `json:"paid_by"`
	Amount       string   `json:"amount"`
	Participants []string `json:"participants"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Seq:          e.Seq,
		PaidBy:       e.PayerID,
		Amount:       e.Amount.String(),
		Participants: e.Participants,
		Description:  e.Description,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
	}
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	userID, ok := s.requireMember(w, r, groupID)
	if !ok {
		return
	}

	var req recordExpenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payer := req.PaidBy
	if payer == "" {
		payer = userID
	}

	expense, err := s.ledger.Record(r.Context(), ledger.RecordInput{
		GroupID:      groupID,
		PayerID:      payer,
		Amount:       amount,
		Participants: req.Participants,
		Description:  req.Description,
		Category:     req.Category,
	})
	if err != nil {
		slog.Warn("Record expense failed", "group_id", groupID, "error", err)
		writeServiceError(w, err)
		return
	}

	slog.Info("Expense recorded",
		"group_id", groupID,
		"expense_id", expense.ID,
		"seq", expense.Seq,
		"amount", expense.Amount,
	)
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	expenses, err := s.ledger.History(r.Context(), groupID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

type balanceResponse struct {
	UserID     string `json:"user_id"`
	TotalPaid  string `json:"total_paid"`
	TotalOwed  string `json:"total_owed"`
	NetBalance string `json:"net_balance"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	summary, err := s.ledger.BalanceSummary(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]balanceResponse, len(summary))
	for i, b := range summary {
		resp[i] = balanceResponse{
			UserID:     b.MemberID,
			TotalPaid:  b.TotalPaid.String(),
			TotalOwed:  b.TotalOwed.String(),
			NetBalance: b.NetBalance.String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type transferResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleSettlementPlan(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	plan, err := s.ledger.SettlementPlan(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]transferResponse, len(plan))
	for i, t := range plan {
		resp[i] = transferResponse{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.String(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transfers": resp,
		"count":     len(resp),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
