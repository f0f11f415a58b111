package http

import (
	"net/http"
	"time"

	"contas/internal/core"
)

type categoryTotalResponse struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
}

type dashboardResponse struct {
	DueThisMonthCents       int64                   `json:"due_this_month_cents"`
	PaidThisMonthCents      int64                   `json:"paid_this_month_cents"`
	OverdueCents            int64                   `json:"overdue_cents"`
	DueNextMonthCents       int64                   `json:"due_next_month_cents"`
	CategoryTotals          []categoryTotalResponse `json:"category_totals"`
	CategoryTotalsThisMonth []categoryTotalResponse `json:"category_totals_this_month"`
	Anomalies               int                     `json:"anomalies"`
}

func dashboardFromTotals(t core.DashboardTotals) dashboardResponse {
	return dashboardResponse{
		DueThisMonthCents:       t.DueThisMonth.Cents,
		PaidThisMonthCents:      t.PaidThisMonth.Cents,
		OverdueCents:            t.Overdue.Cents,
		DueNextMonthCents:       t.DueNextMonth.Cents,
		CategoryTotals:          categoryTotalsResponse(t.CategoryTotals),
		CategoryTotalsThisMonth: categoryTotalsResponse(t.CategoryTotalsThisMonth),
		Anomalies:               t.Anomalies,
	}
}

func categoryTotalsResponse(totals []core.CategoryTotal) []categoryTotalResponse {
	out := make([]categoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalResponse{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			TotalCents: t.Total.Cents,
		})
	}
	return out
}

// handleDashboard serves the aggregate figures for the reference date,
// cached briefly per user.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	ref, err := refDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := dashCacheKey(userID, ref)
	if cached, ok := s.dashCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	totals, err := s.dashboard.Totals(r.Context(), userID, ref)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := dashboardFromTotals(totals)
	s.dashCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func dashCacheKey(userID int64, ref time.Time) string {
	return userCachePrefix(userID) + "dash:" + ref.Format("2006-01-02")
}
