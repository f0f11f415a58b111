package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"contas/internal/core"
)

// maxBodyBytes caps request bodies. Payload objects here are tiny;
// anything larger is abuse.
const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object body as a raw map, preserving unknown
// keys so the payment rules can reject them by name.
func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, core.Invalid("unreadable request body")
	}
	if len(body) == 0 {
		return nil, core.Invalid("empty request body")
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, core.Invalid("malformed JSON body")
	}
	return payload, nil
}

// billRequest is the typed payload for bill create and update.
type billRequest struct {
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	BaseAmount  any    `json:"base_amount"`
	Recurrence  string `json:"recurrence"`
	FixedDay    int    `json:"fixed_day"`
	StartMonth  string `json:"start_month"`
	Active      *bool  `json:"active"`
}

// toBill converts the request into a domain bill for the given user.
// The base amount goes through the normalizer, so both "1.500,00" and
// plain numbers are accepted.
func (req billRequest) toBill(userID int64) (core.Bill, error) {
	amount, err := core.NormalizeAmount(req.BaseAmount)
	if err != nil {
		return core.Bill{}, core.Invalid("invalid base_amount")
	}

	start, err := parseStartMonth(req.StartMonth)
	if err != nil {
		return core.Bill{}, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return core.Bill{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		BaseAmount:  amount,
		Recurrence:  core.RecurrenceTypes(req.Recurrence),
		FixedDay:    req.FixedDay,
		StartMonth:  start,
		Active:      active,
	}, nil
}

// parseStartMonth accepts either "2006-01" or a full "2006-01-02" date.
func parseStartMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, core.Invalid("missing start_month")
	}
	if t, err := time.ParseInLocation("2006-01", s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, core.Invalid("invalid start_month, expected YYYY-MM")
}

// pathID parses the trailing numeric path value registered as {id}.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid("invalid " + name)
	}
	return id, nil
}

// refDate reads an optional ?ref=YYYY-MM-DD query parameter, defaulting
// to the current day. The dashboard is computed relative to it.
func refDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("ref")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, core.Invalid("invalid ref date, expected YYYY-MM-DD")
	}
	return t, nil
}
