package report

import (
	"sort"
	"strings"
	"time"

	"pizza_vouchers/vouchers"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const EmptyMessage = "No vouchers redeemed. :("

var headers = []string{"Description", "Code", "Original Value", "Remaining Value", "Valid Until"}
var rightAligned = []bool{false, false, true, true, false}

// Render builds a fixed-width text table: one row per voucher sorted by
// expiry date (soonest first) and a trailing total of the remaining values.
func Render(vs []vouchers.Voucher) string {
	return RenderAt(time.Now(), vs)
}

func RenderAt(now time.Time, vs []vouchers.Voucher) string {
	if len(vs) == 0 {
		return EmptyMessage + "\n"
	}

	sorted := make([]vouchers.Voucher, len(vs))
	copy(sorted, vs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ValidUntil.Before(sorted[j].ValidUntil)
	})

	total := decimal.Zero
	rows := make([][]string, len(sorted))
	for i, v := range sorted {
		rows[i] = []string{
			v.Desc,
			v.Code,
			v.OriginalValue.StringFixed(2),
			v.RemainingValue.StringFixed(2),
			humanize.RelTime(v.ValidUntil, now, "ago", "from now"),
		}
		total = total.Add(v.RemainingValue)
	}
	totalCell := "Total: " + total.StringFixed(2)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	if len(totalCell) > widths[3] {
		widths[3] = len(totalCell)
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			pad := strings.Repeat(" ", widths[i]-len(cell))
			if rightAligned[i] {
				padded[i] = pad + cell
			} else {
				padded[i] = cell + pad
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(padded, "  "), " "))
		b.WriteString("\n")
	}
	writeDashes := func() {
		dashes := make([]string, len(widths))
		for i, w := range widths {
			dashes[i] = strings.Repeat("-", w)
		}
		b.WriteString(strings.Join(dashes, "  "))
		b.WriteString("\n")
	}

	writeRow(headers)
	writeDashes()
	for _, row := range rows {
		writeRow(row)
	}
	writeDashes()
	writeRow([]string{"", "", "", totalCell, ""})
	return b.String()
}
