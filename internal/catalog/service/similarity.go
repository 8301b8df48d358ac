package service

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	tradeWeight = 0.7
	uomWeight   = 0.3
)

// similarity is difflib's ratio over characters: 2*M / (len(a)+len(b)),
// where M is the total size of the matching blocks. Case-insensitive.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// weightedScore: 70% вид работ, 30% единица измерения.
// The float64 conversions keep the compiler from fusing into an FMA.
func weightedScore(trade, uom, recTrade, recUOM string) float64 {
	t := float64(tradeWeight * similarity(trade, recTrade))
	u := float64(uomWeight * similarity(uom, recUOM))
	return t + u
}
