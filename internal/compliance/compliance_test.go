package compliance

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAllValidPairs(t *testing.T) {
	for l := MinRating; l <= MaxRating; l++ {
		for i := MinRating; i <= MaxRating; i++ {
			score, err := Score(l, i)
			require.NoError(t, err)
			assert.Equal(t, l*i, score)
			assert.GreaterOrEqual(t, score, 1)
			assert.LessOrEqual(t, score, 25)
		}
	}
}

func TestScoreRejectsOutOfRange(t *testing.T) {
	for _, pair := range [][2]int{{0, 3}, {3, 0}, {6, 1}, {1, 6}, {-1, -1}} {
		_, err := Score(pair[0], pair[1])
		assert.True(t, errors.Is(err, ErrInvalidRating), fmt.Sprint(pair))
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		score int
		want  Band
	}{
		{1, BandLow},
		{7, BandLow},
		{8, BandMedium},
		{14, BandMedium},
		{15, BandHigh},
		{25, BandHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BandFor(tc.score), "score %d", tc.score)
	}

	score, err := Score(5, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, score)
	assert.Equal(t, BandHigh, BandFor(score))
}

func TestRiskBandsAdd(t *testing.T) {
	var b RiskBands
	for _, s := range []int{25, 15, 12, 8, 4, 1} {
		b.Add(s)
	}
	assert.Equal(t, RiskBands{High: 2, Medium: 2, Low: 2}, b)
	assert.Equal(t, int64(6), b.Total())
}

func TestPercentage(t *testing.T) {
	t.Run("nothing assessed", func(t *testing.T) {
		s := Stats{Total: 40, NotAssessed: 40}
		assert.Equal(t, 0.0, s.Percentage())
		assert.Equal(t, 0.0, Stats{}.Percentage())
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		s := Stats{Total: 40, Compliant: 2, NonCompliant: 1, NotAssessed: 37}
		assert.Equal(t, 66.7, s.Percentage())
	})

	t.Run("not applicable counts as assessed", func(t *testing.T) {
		s := Stats{Total: 4, Compliant: 1, NotApplicable: 1, NonCompliant: 2}
		assert.Equal(t, 25.0, s.Percentage())
	})

	t.Run("all compliant", func(t *testing.T) {
		s := Stats{Total: 3, Compliant: 3}
		assert.Equal(t, 100.0, s.Percentage())
	})
}

func TestStatsAdd(t *testing.T) {
	var s Stats
	for _, st := range []Status{StatusCompliant, StatusCompliant, StatusNotCompliant, StatusNotApplicable, StatusNotAssessed, "Legacy"} {
		s.Add(st)
	}
	assert.Equal(t, Stats{Total: 6, Compliant: 2, NonCompliant: 1, NotApplicable: 1, NotAssessed: 1}, s)
	assert.Equal(t, int64(5), s.Assessed())
}

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseStatus("compliant")
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestCatalog(t *testing.T) {
	seen := map[string]bool{}
	cats := map[string]bool{}
	for _, c := range Categories {
		cats[c] = true
	}

	for _, c := range Catalog {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.True(t, cats[c.Category], "unknown category %q", c.Category)
		assert.NotEmpty(t, c.Title)
	}
	assert.Len(t, Catalog, 40)
}
