package http

import (
	"net/http"

	"contas/internal/services"
)

type paymentResponse struct {
	ID            int64  `json:"id"`
	BillID        int64  `json:"bill_id"`
	Method        string `json:"method"`
	MethodLabel   string `json:"method_label"`
	AmountCents   int64  `json:"amount_cents"`
	Date          string `json:"date"`
	InterestCents int64  `json:"interest_cents"`
	PenaltyCents  int64  `json:"penalty_cents"`
	DiscountCents int64  `json:"discount_cents"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status,omitempty"`
}

func paymentFromService(p services.PaymentWithStatus) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BillID:        p.BillID,
		Method:        string(p.Method),
		MethodLabel:   methodDisplayNames[p.Method],
		AmountCents:   p.Amount.Cents,
		Date:          p.Date.Format("2006-01-02"),
		InterestCents: p.Interest.Cents,
		PenaltyCents:  p.Penalty.Cents,
		DiscountCents: p.Discount.Cents,
		Notes:         p.Notes,
		Status:        string(p.Status),
	}
}

// handleListPayments returns a bill's payments, each classified against
// the bill's base amount.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	billID, err := pathID(r, "billID")
	if err != nil {
		writeError(w, err)
		return
	}

	payments, err := s.payments.ListPayments(r.Context(), userID, billID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentFromService(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := s.payments.CreatePayment(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	writeJSON(w, http.StatusCreated, paymentFromService(services.PaymentWithStatus{Payment: payment}))
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	paymentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.payments.DeletePayment(r.Context(), userID, paymentID); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateUser(userID)
	w.WriteHeader(http.StatusNoContent)
}

// handlePaymentMethods lists the accepted payment methods with their
// display labels.
func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, methodOptions())
}
