// Package compliance holds the HIPAA checklist vocabulary and the arithmetic
// shared by the dashboard, the JSON widgets and the printable reports.
package compliance

import (
	"math"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidStatus = errors.New("invalid requirement status")
	ErrInvalidRating = errors.New("likelihood and impact must be between 1 and 5")
)

type Status string

const (
	StatusNotAssessed   Status = "Not Assessed"
	StatusCompliant     Status = "Compliant"
	StatusNotCompliant  Status = "Not Compliant"
	StatusNotApplicable Status = "Not Applicable"
)

// Statuses в порядке отображения в форме.
var Statuses = []Status{
	StatusNotAssessed,
	StatusCompliant,
	StatusNotCompliant,
	StatusNotApplicable,
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotAssessed, StatusCompliant, StatusNotCompliant, StatusNotApplicable:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", errors.Wrapf(ErrInvalidStatus, "%q", raw)
	}
	return s, nil
}

// Stats — счётчики требований по статусам.
type Stats struct {
	Total         int64 `json:"total"`
	Compliant     int64 `json:"compliant"`
	NonCompliant  int64 `json:"non_compliant"`
	NotApplicable int64 `json:"not_applicable"`
	NotAssessed   int64 `json:"not_assessed"`
}

// Add учитывает одно требование. Нестандартные статусы попадают только в Total.
func (s *Stats) Add(status Status) {
	s.Total++
	switch status {
	case StatusCompliant:
		s.Compliant++
	case StatusNotCompliant:
		s.NonCompliant++
	case StatusNotApplicable:
		s.NotApplicable++
	case StatusNotAssessed:
		s.NotAssessed++
	}
}

func (s Stats) Assessed() int64 {
	return s.Total - s.NotAssessed
}

// Percentage = compliant / (total - not assessed) * 100, одна цифра после запятой.
// Ноль, если ничего не оценено.
func (s Stats) Percentage() float64 {
	assessed := s.Assessed()
	if assessed <= 0 {
		return 0
	}
	return math.Round(float64(s.Compliant)/float64(assessed)*1000) / 10
}

const (
	MinRating = 1
	MaxRating = 5

	highThreshold   = 15
	mediumThreshold = 8
)

func ValidRating(n int) bool {
	return n >= MinRating && n <= MaxRating
}

// Score — likelihood × impact.
func Score(likelihood, impact int) (int, error) {
	if !ValidRating(likelihood) || !ValidRating(impact) {
		return 0, errors.Wrapf(ErrInvalidRating, "likelihood=%d impact=%d", likelihood, impact)
	}
	return likelihood * impact, nil
}

type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

func BandFor(score int) Band {
	switch {
	case score >= highThreshold:
		return BandHigh
	case score >= mediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

type RiskBands struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

func (b *RiskBands) Add(score int) {
	switch BandFor(score) {
	case BandHigh:
		b.High++
	case BandMedium:
		b.Medium++
	default:
		b.Low++
	}
}

func (b RiskBands) Total() int64 {
	return b.High + b.Medium + b.Low
}
