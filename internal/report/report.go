// Package report собирает агрегаты для дашборда и печатных отчётов.
package report

import (
	"context"
	"time"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/models"
	"hipaa-audit/internal/store"

	"github.com/cockroachdb/errors"
)

var ErrUnknownReport = errors.New("unknown report type")

type Kind string

const (
	KindCompliance Kind = "compliance"
	KindEvidence   Kind = "evidence"
	KindRisk       Kind = "risk"
)

var Kinds = []Kind{KindCompliance, KindEvidence, KindRisk}

func ParseKind(raw string) (Kind, error) {
	switch k := Kind(raw); k {
	case KindCompliance, KindEvidence, KindRisk:
		return k, nil
	}
	return "", errors.Wrapf(ErrUnknownReport, "%q", raw)
}

// Source — чтение из хранилища, нужное агрегатору. *store.Store его реализует.
type Source interface {
	ListRequirements(ctx context.Context) ([]models.Requirement, error)
	RecentAssessments(ctx context.Context, limit int) ([]models.Requirement, error)
	ComplianceStats(ctx context.Context) (compliance.Stats, error)
	ListEvidence(ctx context.Context) ([]models.Evidence, error)
	EvidenceStats(ctx context.Context) (store.EvidenceStats, error)
	ListRisks(ctx context.Context) ([]models.Risk, error)
	RiskBands(ctx context.Context) (compliance.RiskBands, error)
	CountPHITypes(ctx context.Context) (int64, error)
	AssociateStats(ctx context.Context) (store.AssociateStats, error)
}

const recentLimit = 5

type Service struct {
	src Source
	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(src Source, opts ...Option) *Service {
	s := &Service{src: src, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Dashboard struct {
	Stats      compliance.Stats
	Percentage float64
	Bands      compliance.RiskBands
	TotalRisks int64
	PHITotal   int64
	Associates store.AssociateStats
	Recent     []models.Requirement
	Now        time.Time
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	st, err := s.src.ComplianceStats(ctx)
	if err != nil {
		return nil, err
	}
	bands, err := s.src.RiskBands(ctx)
	if err != nil {
		return nil, err
	}
	phi, err := s.src.CountPHITypes(ctx)
	if err != nil {
		return nil, err
	}
	ba, err := s.src.AssociateStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.src.RecentAssessments(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:      st,
		Percentage: st.Percentage(),
		Bands:      bands,
		TotalRisks: bands.Total(),
		PHITotal:   phi,
		Associates: ba,
		Recent:     recent,
		Now:        s.now(),
	}, nil
}

// Summary — цифры для меню отчётов.
type Summary struct {
	TotalRequirements int64
	Compliant         int64
	TotalRisks        int64
	HighRisks         int64
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	st, err := s.src.ComplianceStats(ctx)
	if err != nil {
		return Summary{}, err
	}
	bands, err := s.src.RiskBands(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalRequirements: st.Total,
		Compliant:         st.Compliant,
		TotalRisks:        bands.Total(),
		HighRisks:         bands.High,
	}, nil
}

// Report — данные одного печатного отчёта. Заполняются только поля, нужные его виду.
type Report struct {
	Kind        Kind
	GeneratedBy string
	GeneratedAt time.Time

	Requirements []models.Requirement
	Groups       []store.RequirementGroup
	Evidence     []models.Evidence
	Risks        []models.Risk

	Stats         compliance.Stats
	Percentage    float64
	Bands         compliance.RiskBands
	EvidenceStats store.EvidenceStats
	TodayUploads  int
}

func (s *Service) Generate(ctx context.Context, kind Kind, generatedBy string) (*Report, error) {
	r := &Report{Kind: kind, GeneratedBy: generatedBy, GeneratedAt: s.now()}

	var err error
	switch kind {
	case KindCompliance:
		err = s.fillCompliance(ctx, r)
	case KindEvidence:
		err = s.fillEvidence(ctx, r)
	case KindRisk:
		err = s.fillRisk(ctx, r)
	default:
		return nil, errors.Wrapf(ErrUnknownReport, "%q", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s report", kind)
	}
	return r, nil
}

func (s *Service) fillCompliance(ctx context.Context, r *Report) error {
	reqs, err := s.src.ListRequirements(ctx)
	if err != nil {
		return err
	}
	r.Requirements = reqs
	r.Groups = store.GroupByCategory(reqs)

	if r.Stats, err = s.src.ComplianceStats(ctx); err != nil {
		return err
	}
	r.Percentage = r.Stats.Percentage()

	if r.Evidence, err = s.src.ListEvidence(ctx); err != nil {
		return err
	}
	if r.EvidenceStats, err = s.src.EvidenceStats(ctx); err != nil {
		return err
	}
	if r.Risks, err = s.src.ListRisks(ctx); err != nil {
		return err
	}
	r.Bands, err = s.src.RiskBands(ctx)
	return err
}

func (s *Service) fillEvidence(ctx context.Context, r *Report) error {
	ev, err := s.src.ListEvidence(ctx)
	if err != nil {
		return err
	}
	r.Evidence = ev
	r.TodayUploads = TodayUploads(ev, r.GeneratedAt)
	r.EvidenceStats, err = s.src.EvidenceStats(ctx)
	return err
}

func (s *Service) fillRisk(ctx context.Context, r *Report) error {
	risks, err := s.src.ListRisks(ctx)
	if err != nil {
		return err
	}
	r.Risks = risks
	for _, rk := range risks {
		r.Bands.Add(rk.RiskScore)
	}
	return nil
}

// TodayUploads считает загрузки за календарный день now в его часовом поясе.
func TodayUploads(ev []models.Evidence, now time.Time) int {
	y, m, d := now.Date()
	n := 0
	for _, e := range ev {
		ey, em, ed := e.UploadedAt.In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			n++
		}
	}
	return n
}
