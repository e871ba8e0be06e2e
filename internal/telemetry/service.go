package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db/models"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
	"github.com/camarize/camarize-backend/pkg/metrics"
)

type readingRepository interface {
	Insert(ctx context.Context, reading *models.Reading) error
	Latest(ctx context.Context, enclosureID uuid.UUID) (*models.Reading, error)
	History(ctx context.Context, enclosureID uuid.UUID, since time.Time, limit int) ([]models.Reading, error)
	DailyAverages(ctx context.Context, enclosureID uuid.UUID, since time.Time) ([]DailyAverageDTO, error)
}

type enclosureFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error)
}

// Service exposes telemetry operations.
type Service interface {
	Ingest(ctx context.Context, input IngestReadingDTO) (*ReadingDTO, error)
	Latest(ctx context.Context, enclosureID uuid.UUID) (*ReadingDTO, error)
	History(ctx context.Context, enclosureID uuid.UUID, days int) ([]ReadingDTO, error)
	Dashboard(ctx context.Context, enclosureID uuid.UUID) (*DashboardDTO, error)
}

type service struct {
	repo       readingRepository
	enclosures enclosureFinder
	cfg        config.TelemetryConfig
	metrics    *metrics.TelemetryMetrics
	now        func() time.Time
}

// NewService builds a telemetry service with the provided repositories.
func NewService(repo readingRepository, enclosures enclosureFinder, cfg config.TelemetryConfig, m *metrics.TelemetryMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reading repository required")
	}
	if enclosures == nil {
		return nil, fmt.Errorf("enclosure finder required")
	}
	return &service{
		repo:       repo,
		enclosures: enclosures,
		cfg:        cfg,
		metrics:    m,
		now:        time.Now,
	}, nil
}

func (s *service) Ingest(ctx context.Context, input IngestReadingDTO) (*ReadingDTO, error) {
	started := s.now()
	dto, err := s.ingest(ctx, input)
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncIngestFailure(code)
		s.metrics.ObserveIngest("error", s.now().Sub(started))
		return nil, err
	}
	s.metrics.IncIngested(input.EnclosureID.String())
	s.metrics.ObserveIngest("ok", s.now().Sub(started))
	return dto, nil
}

func (s *service) ingest(ctx context.Context, input IngestReadingDTO) (*ReadingDTO, error) {
	if input.EnclosureID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enclosure id is required")
	}
	if input.Temperature == nil && input.PH == nil && input.Ammonia == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one parameter is required")
	}
	if _, err := s.enclosures.FindByID(ctx, input.EnclosureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enclosure not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find enclosure")
	}

	recordedAt := s.now().UTC()
	if input.RecordedAt != nil {
		recordedAt = input.RecordedAt.UTC()
	}
	reading := &models.Reading{
		EnclosureID: input.EnclosureID,
		Temperature: input.Temperature,
		PH:          input.PH,
		Ammonia:     input.Ammonia,
		RecordedAt:  recordedAt,
	}
	if err := s.repo.Insert(ctx, reading); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist reading")
	}
	return FromModel(reading), nil
}

func (s *service) Latest(ctx context.Context, enclosureID uuid.UUID) (*ReadingDTO, error) {
	reading, err := s.repo.Latest(ctx, enclosureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no readings for enclosure")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest reading")
	}
	return FromModel(reading), nil
}

func (s *service) History(ctx context.Context, enclosureID uuid.UUID, days int) ([]ReadingDTO, error) {
	if days <= 0 || days > s.cfg.HistoryMaxDays {
		days = s.cfg.HistoryMaxDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)

	rows, err := s.repo.History(ctx, enclosureID, since, s.cfg.HistoryMaxRows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reading history")
	}
	out := make([]ReadingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Dashboard(ctx context.Context, enclosureID uuid.UUID) (*DashboardDTO, error) {
	dashboard := &DashboardDTO{DailyAverages: []DailyAverageDTO{}}

	latest, err := s.repo.Latest(ctx, enclosureID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest reading")
	}
	if latest != nil {
		dashboard.Latest = FromModel(latest)
	}

	since := s.now().UTC().AddDate(0, 0, -s.cfg.DashboardDays)
	averages, err := s.repo.DailyAverages(ctx, enclosureID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily averages")
	}
	dashboard.DailyAverages = averages
	return dashboard, nil
}
