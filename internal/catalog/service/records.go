package service

import (
	"fmt"
	"regexp"
	"strings"

	"ratematch-service/internal/catalog/model"
	"ratematch-service/internal/utils"
)

// Column aliases accepted in seed and uploaded files. Alternatives are "|"-separated.
const (
	colID    = "id"
	colTrade = "trade|trade name|trade_name|вид работ"
	colUOM   = "unit_of_measure|unit of measure|uom|unit|ед изм"
	colRate  = "rate|price|unit price|ставка|цена"
)

var rxNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, без служебных символов, ё→е
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s)
	s = rxNonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the actual key in rec for the wanted column.
// Exact match first, then a match after header normalization.
func resolveKey(rec map[string]string, want string) string {
	alts := strings.Split(want, "|")
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}
	for k := range rec {
		nk := normHeaderKey(k)
		for _, a := range alts {
			if nk == normHeaderKey(a) {
				return k
			}
		}
	}
	return ""
}

func isBlankRow(rec map[string]string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RecordsFromRows maps loosely-typed rows (seed or uploaded files) onto records.
// Blank rows are skipped; any other row must carry trade, unit and a
// non-negative rate. Errors name the entry by its 1-based position among
// non-blank entries below the header, not by file line.
func RecordsFromRows(rows []map[string]string) ([]model.Record, error) {
	out := make([]model.Record, 0, len(rows))
	n := 0
	for _, rec := range rows {
		if isBlankRow(rec) {
			continue
		}
		n++
		trade := strings.TrimSpace(rec[resolveKey(rec, colTrade)])
		uom := strings.TrimSpace(rec[resolveKey(rec, colUOM)])
		if trade == "" || uom == "" {
			return nil, fmt.Errorf("%w: entry %d: trade and unit_of_measure are required", ErrValidation, n)
		}
		rateKey := resolveKey(rec, colRate)
		rate, ok := utils.ParseRate(rec[rateKey])
		if rateKey == "" || !ok {
			return nil, fmt.Errorf("%w: entry %d: rate %q is not a number", ErrValidation, n, rec[rateKey])
		}
		if rate < 0 {
			return nil, fmt.Errorf("%w: entry %d: rate must be non-negative", ErrValidation, n)
		}
		out = append(out, model.Record{
			ID:            strings.TrimSpace(rec[resolveKey(rec, colID)]),
			Trade:         trade,
			UnitOfMeasure: uom,
			Rate:          rate,
		})
	}
	return out, nil
}
