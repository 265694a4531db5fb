package notify

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCents renders cents as units with two decimals and comma grouping,
// e.g. 123456 -> "1,234.56".
func FormatCents(cents int64) string {
	d := decimal.New(cents, -2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	_, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + humanize.Comma(d.IntPart()) + "." + frac
}
