package report

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n uint64) string {
	if n > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(n))
	}
	return humanize.Comma(int64(n))
}

// FormatCost renders a USD amount with four decimals.
func FormatCost(cost float64) string {
	return fmt.Sprintf("%.4f", cost)
}
