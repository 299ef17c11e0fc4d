package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseTransactionFilter reads the optional query predicates of the
// transactions view. Dates accept YYYY-MM-DD; values accept the same forms
// as transaction amounts but keep their sign.
func parseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	var err error
	if f.Date, err = parseDateParam(q, "date"); err != nil {
		return f, err
	}
	if f.DateFrom, err = parseDateParam(q, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDateParam(q, "date_to"); err != nil {
		return f, err
	}
	// An inclusive upper bound: the whole day matches.
	if f.DateTo != nil {
		end := f.DateTo.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}

	if f.Value, err = parseValueParam(q, "value"); err != nil {
		return f, err
	}
	if f.ValueFrom, err = parseValueParam(q, "value_from"); err != nil {
		return f, err
	}
	if f.ValueTo, err = parseValueParam(q, "value_to"); err != nil {
		return f, err
	}

	if f.CategoryIDs, err = parseIDsParam(q, "category"); err != nil {
		return f, err
	}
	if f.PaymentTypeIDs, err = parseIDsParam(q, "payment_type"); err != nil {
		return f, err
	}

	f.Description = strings.TrimSpace(q.Get("description"))

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return f, fmt.Errorf("invalid limit %q", raw)
		}
		f.Limit = limit
	}
	return f, nil
}

func parseDateParam(q url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &t, nil
}

func parseValueParam(q url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	d = d.Round(2)
	return &d, nil
}

func parseIDsParam(q url.Values, key string) ([]int64, error) {
	var ids []int64
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid %s %q", key, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseBodyAmount accepts a signed transaction value from a request body.
func parseBodyAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value %q", raw)
	}
	return d.Round(2), nil
}

// parseDate accepts a transaction date in the request body: YYYY-MM-DD or
// RFC 3339.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t.UTC(), nil
}
