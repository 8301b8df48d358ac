package model

// Record is one price-list entry: trade, unit of measure and rate.
type Record struct {
	ID            string  `json:"id"`
	Trade         string  `json:"trade"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	Rate          float64 `json:"rate"`
}

// ItemInput is a record as submitted by a client; ID is optional.
type ItemInput struct {
	ID            string   `json:"id,omitempty"`
	Trade         string   `json:"trade" validate:"required"`
	UnitOfMeasure string   `json:"unit_of_measure" validate:"required"`
	Rate          *float64 `json:"rate" validate:"required,gte=0"`
}

func (in ItemInput) Record() Record {
	r := Record{ID: in.ID, Trade: in.Trade, UnitOfMeasure: in.UnitOfMeasure}
	if in.Rate != nil {
		r.Rate = *in.Rate
	}
	return r
}

type LoadRequest struct {
	Items   []ItemInput `json:"items" validate:"required,dive"`
	Replace *bool       `json:"replace"` // по умолчанию true
}

// ReplaceOrDefault returns the replace flag, true when omitted.
func (l LoadRequest) ReplaceOrDefault() bool {
	if l.Replace == nil {
		return true
	}
	return *l.Replace
}

type MatchRequest struct {
	Trade         string `json:"trade"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// MatchResult is what the matcher returns: the raw score, not rounded.
type MatchResult struct {
	Record Record
	Score  float64
}

type MatchResponse struct {
	BestMatch       Record        `json:"best_match"`
	SimilarityScore float64       `json:"similarity_score"`
	Query           *MatchRequest `json:"query,omitempty"` // только для /match/random
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
