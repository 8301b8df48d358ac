package service

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"ratematch-service/internal/catalog/model"
	"ratematch-service/internal/fileio"
)

func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInternal, path, err)
	}
	defer f.Close()

	rows, err := fileio.ReadAnyMaps(f, path, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInternal, path, err)
	}
	return rows, nil
}

// LoadFile reads a seed file (.json, .csv, .xlsx, .xls) into records.
// Any failure, including a bad row, is reported as ErrInternal.
func LoadFile(path string) ([]model.Record, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	recs, err := RecordsFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInternal, path, err)
	}
	return recs, nil
}

// Seeder binds the seed and sample files to a Matcher.
type Seeder struct {
	matcher    *Matcher
	seedPath   string
	samplePath string
}

func NewSeeder(m *Matcher, seedPath, samplePath string) *Seeder {
	return &Seeder{matcher: m, seedPath: seedPath, samplePath: samplePath}
}

// Seed replaces the collection with the seed file content. On error the
// current collection is left untouched.
func (s *Seeder) Seed() (int, error) {
	recs, err := LoadFile(s.seedPath)
	if err != nil {
		return 0, err
	}
	s.matcher.Load(recs, true)
	return len(recs), nil
}

// RandomSample picks one query from the sample file. Rows only need
// trade and unit_of_measure; anything else is ignored.
func (s *Seeder) RandomSample() (model.MatchRequest, error) {
	rows, err := readRows(s.samplePath)
	if err != nil {
		return model.MatchRequest{}, err
	}
	queries := make([]model.MatchRequest, 0, len(rows))
	for _, rec := range rows {
		q := model.MatchRequest{
			Trade:         strings.TrimSpace(rec[resolveKey(rec, colTrade)]),
			UnitOfMeasure: strings.TrimSpace(rec[resolveKey(rec, colUOM)]),
		}
		if q.Trade != "" || q.UnitOfMeasure != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return model.MatchRequest{}, fmt.Errorf("%w: sample file %s has no entries", ErrInternal, s.samplePath)
	}
	return queries[rand.IntN(len(queries))], nil
}
