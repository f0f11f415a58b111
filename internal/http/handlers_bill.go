package http

import (
	"encoding/json"
	"net/http"
	"time"

	"contas/internal/core"
)

type billResponse struct {
	ID              int64  `json:"id"`
	CategoryID      int64  `json:"category_id"`
	CategoryName    string `json:"category_name,omitempty"`
	Description     string `json:"description"`
	BaseAmountCents int64  `json:"base_amount_cents"`
	Recurrence      string `json:"recurrence"`
	FixedDay        int    `json:"fixed_day"`
	StartMonth      string `json:"start_month"`
	Active          bool   `json:"active"`

	Status             string `json:"status,omitempty"`
	OverdueAmountCents int64  `json:"overdue_amount_cents"`
	PaidThisMonthCents int64  `json:"paid_this_month_cents"`
	PeriodsElapsed     int    `json:"periods_elapsed"`
	PeriodsPaid        int    `json:"periods_paid"`
}

func billFromSummary(s core.BillSummary) billResponse {
	return billResponse{
		ID:                 s.Bill.ID,
		CategoryID:         s.Bill.CategoryID,
		CategoryName:       s.CategoryName,
		Description:        s.Bill.Description,
		BaseAmountCents:    s.Bill.BaseAmount.Cents,
		Recurrence:         string(s.Bill.Recurrence),
		FixedDay:           s.Bill.FixedDay,
		StartMonth:         s.Bill.StartMonth.Format("2006-01"),
		Active:             s.Bill.Active,
		Status:             s.Status(),
		OverdueAmountCents: s.OverdueAmount.Cents,
		PaidThisMonthCents: s.PaidThisMonth.Cents,
		PeriodsElapsed:     s.PeriodsElapsed,
		PeriodsPaid:        s.PeriodsPaid,
	}
}

func billFromDomain(b core.Bill) billResponse {
	return billResponse{
		ID:              b.ID,
		CategoryID:      b.CategoryID,
		Description:     b.Description,
		BaseAmountCents: b.BaseAmount.Cents,
		Recurrence:      string(b.Recurrence),
		FixedDay:        b.FixedDay,
		StartMonth:      b.StartMonth.Format("2006-01"),
		Active:          b.Active,
	}
}

// handleListBills returns every active bill annotated with its accrual
// state for the reference date.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	ref, err := refDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := billsCacheKey(userID, ref)
	if cached, ok := s.billsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summaries, err := s.dashboard.BillSummaries(r.Context(), userID, ref)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]billResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, billFromSummary(summary))
	}
	s.billsCache.Set(key, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	var req billRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, core.Invalid("malformed JSON body"))
		return
	}

	bill, err := req.toBill(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusCreated, billFromDomain(created))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	billID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req billRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, core.Invalid("malformed JSON body"))
		return
	}

	bill, err := req.toBill(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	bill.ID = billID

	if err := s.bills.UpdateBill(r.Context(), bill); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusOK, billFromDomain(bill))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	billID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.bills.DeleteBill(r.Context(), userID, billID); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}

func billsCacheKey(userID int64, ref time.Time) string {
	return userCachePrefix(userID) + "bills:" + ref.Format("2006-01-02")
}
