package vouchers

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RawVoucher is a voucher record as the API sends it: values in cents,
// dates as strings.
type RawVoucher struct {
	Code            string  `json:"code"`
	Label           string  `json:"label"`
	Desc            string  `json:"desc"`
	OriginalValue   int64   `json:"original_value"`
	RemainingValue  int64   `json:"remaining_value"`
	LimitPerOrder   float64 `json:"limit_per_order"`
	AuthorizedValue float64 `json:"authorized_value"`
	ValidFrom       string  `json:"valid_from"`
	ValidUntil      string  `json:"valid_until"`
	Instance        int64   `json:"instance"`
	DefID           int64   `json:"def_id"`
}

// Voucher is the normalized form: values in whole currency units,
// dates parsed. A RawVoucher converts to a Voucher exactly once,
// the types make a second conversion impossible.
type Voucher struct {
	Code            string
	Label           string
	Desc            string
	OriginalValue   decimal.Decimal
	RemainingValue  decimal.Decimal
	LimitPerOrder   float64
	AuthorizedValue float64
	ValidFrom       time.Time
	ValidUntil      time.Time
	Instance        int64
	DefID           int64
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	log.Debug().Str("value", value).Msg("unparseable voucher date, leaving zero")
	return time.Time{}
}

// Normalize converts wire-format vouchers: cent values become decimal
// currency values, date strings become time values. The input is not
// modified. Nil and empty lists are fine.
func Normalize(raw []RawVoucher) []Voucher {
	vs := make([]Voucher, len(raw))
	for i, r := range raw {
		vs[i] = Voucher{
			Code:            r.Code,
			Label:           r.Label,
			Desc:            r.Desc,
			OriginalValue:   decimal.NewFromInt(r.OriginalValue).Shift(-2),
			RemainingValue:  decimal.NewFromInt(r.RemainingValue).Shift(-2),
			LimitPerOrder:   r.LimitPerOrder,
			AuthorizedValue: r.AuthorizedValue,
			ValidFrom:       parseDate(r.ValidFrom),
			ValidUntil:      parseDate(r.ValidUntil),
			Instance:        r.Instance,
			DefID:           r.DefID,
		}
	}
	return vs
}
