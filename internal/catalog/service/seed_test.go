package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		p := writeFile(t, dir, "items.json", `[{"trade":"Painting","unit_of_measure":"M2","rate":23.0}]`)
		recs, err := LoadFile(p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Painting", recs[0].Trade)
		assert.Equal(t, 23.0, recs[0].Rate)
	})

	t.Run("json exponent rate", func(t *testing.T) {
		p := writeFile(t, dir, "exp.json", `[{"trade":"Demolition","unit_of_measure":"LOT","rate":1.2e3}]`)
		recs, err := LoadFile(p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, 1200.0, recs[0].Rate)
	})

	t.Run("csv", func(t *testing.T) {
		p := writeFile(t, dir, "items.csv", "trade,unit_of_measure,rate\nTiling,M2,55\nRoofing,M2,70\n")
		recs, err := LoadFile(p)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("missing file is internal", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("bad row is internal", func(t *testing.T) {
		p := writeFile(t, dir, "bad.json", `[{"trade":"Painting","rate":1}]`)
		_, err := LoadFile(p)
		assert.ErrorIs(t, err, ErrInternal)
		assert.NotErrorIs(t, err, ErrValidation)
	})
}

func TestRepoSeedData(t *testing.T) {
	recs, err := LoadFile(filepath.Join("..", "..", "..", "data", "items.json"))
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	m := NewMatcher(DefaultThreshold)
	m.Load(recs, true)

	res, err := m.Match("painting", "m2")
	require.NoError(t, err)
	assert.Equal(t, "Painting", res.Record.Trade)
	assert.InDelta(t, 1.0, res.Score, 1e-12)

	res, err = m.Match("plumbing", "item")
	require.NoError(t, err)
	assert.Equal(t, "EACH", res.Record.UnitOfMeasure)
	assert.Equal(t, 150.0, res.Record.Rate)

	_, err = m.Match("random", "whatnot")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeeder(t *testing.T) {
	dir := t.TempDir()
	seed := writeFile(t, dir, "items.json", `[{"trade":"Painting","unit_of_measure":"M2","rate":23},{"trade":"Plumbing","unit_of_measure":"EACH","rate":150}]`)
	sample := writeFile(t, dir, "samples.json", `[{"trade":"painting","unit_of_measure":"m2"},{"trade":"","unit_of_measure":""}]`)

	m := NewMatcher(DefaultThreshold)
	m.Load(seedRecords()[:1], true)
	s := NewSeeder(m, seed, sample)

	n, err := s.Seed()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, m.Len())

	for i := 0; i < 5; i++ {
		q, err := s.RandomSample()
		require.NoError(t, err)
		assert.Equal(t, "painting", q.Trade)
		assert.Equal(t, "m2", q.UnitOfMeasure)
	}

	t.Run("failed seed keeps state", func(t *testing.T) {
		bad := NewSeeder(m, filepath.Join(dir, "missing.json"), sample)
		_, err := bad.Seed()
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, 2, m.Len())
	})

	t.Run("empty sample file", func(t *testing.T) {
		empty := writeFile(t, dir, "empty.json", `[]`)
		_, err := NewSeeder(m, seed, empty).RandomSample()
		assert.ErrorIs(t, err, ErrInternal)
	})
}
