package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camarize/camarize-backend/pkg/config"
	"github.com/camarize/camarize-backend/pkg/db/models"
	pkgerrors "github.com/camarize/camarize-backend/pkg/errors"
)

type stubReadingRepo struct {
	inserted []*models.Reading
	latest   *models.Reading
	history  []models.Reading
	averages []DailyAverageDTO
	err      error

	historySince time.Time
	historyLimit int
}

func (s *stubReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	if s.err != nil {
		return s.err
	}
	reading.ID = uuid.New()
	s.inserted = append(s.inserted, reading)
	return nil
}

func (s *stubReadingRepo) Latest(ctx context.Context, enclosureID uuid.UUID) (*models.Reading, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.latest, nil
}

func (s *stubReadingRepo) History(ctx context.Context, enclosureID uuid.UUID, since time.Time, limit int) ([]models.Reading, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.historySince = since
	s.historyLimit = limit
	return s.history, nil
}

func (s *stubReadingRepo) DailyAverages(ctx context.Context, enclosureID uuid.UUID, since time.Time) ([]DailyAverageDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.averages, nil
}

type stubEnclosureFinder struct {
	err error
}

func (s *stubEnclosureFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Enclosure, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Enclosure{ID: id, Name: "Tanque 1"}, nil
}

func testTelemetryConfig() config.TelemetryConfig {
	return config.TelemetryConfig{
		HistoryMaxRows: 1000,
		HistoryMaxDays: 90,
		DashboardDays:  7,
	}
}

func newTestService(repo *stubReadingRepo, finder *stubEnclosureFinder) Service {
	svc, err := NewService(repo, finder, testTelemetryConfig(), nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestIngestPersistsReading(t *testing.T) {
	repo := &stubReadingRepo{}
	svc := newTestService(repo, &stubEnclosureFinder{})
	temp := 27.4

	dto, err := svc.Ingest(context.Background(), IngestReadingDTO{
		EnclosureID: uuid.New(),
		Temperature: &temp,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatal("expected insert call")
	}
	if dto.Temperature == nil || *dto.Temperature != temp {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.RecordedAt.IsZero() {
		t.Fatal("expected recorded_at stamped")
	}
}

func TestIngestRejectsEmptySample(t *testing.T) {
	svc := newTestService(&stubReadingRepo{}, &stubEnclosureFinder{})

	_, err := svc.Ingest(context.Background(), IngestReadingDTO{EnclosureID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIngestUnknownEnclosure(t *testing.T) {
	svc := newTestService(&stubReadingRepo{}, &stubEnclosureFinder{err: gorm.ErrRecordNotFound})
	ph := 7.1

	_, err := svc.Ingest(context.Background(), IngestReadingDTO{EnclosureID: uuid.New(), PH: &ph})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryClampsDaysAndRows(t *testing.T) {
	repo := &stubReadingRepo{}
	svc := newTestService(repo, &stubEnclosureFinder{})

	if _, err := svc.History(context.Background(), uuid.New(), 3650); err != nil {
		t.Fatalf("history: %v", err)
	}
	if repo.historyLimit != 1000 {
		t.Fatalf("expected row cap 1000, got %d", repo.historyLimit)
	}
	maxCutoff := time.Now().UTC().AddDate(0, 0, -90)
	if repo.historySince.Before(maxCutoff.Add(-time.Minute)) {
		t.Fatalf("expected cutoff clamped to 90 days, got %v", repo.historySince)
	}
}

func TestLatestNotFound(t *testing.T) {
	svc := newTestService(&stubReadingRepo{}, &stubEnclosureFinder{})

	_, err := svc.Latest(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDashboardCombinesLatestAndAverages(t *testing.T) {
	temp := 26.0
	repo := &stubReadingRepo{
		latest: &models.Reading{
			ID:          uuid.New(),
			EnclosureID: uuid.New(),
			Temperature: &temp,
			RecordedAt:  time.Now().UTC(),
		},
		averages: []DailyAverageDTO{
			{Day: time.Now().UTC().Truncate(24 * time.Hour), Temperature: &temp},
		},
	}
	svc := newTestService(repo, &stubEnclosureFinder{})

	dashboard, err := svc.Dashboard(context.Background(), repo.latest.EnclosureID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Latest == nil {
		t.Fatal("expected latest reading")
	}
	if len(dashboard.DailyAverages) != 1 {
		t.Fatalf("expected 1 daily average, got %d", len(dashboard.DailyAverages))
	}
}

func TestDashboardWithoutReadings(t *testing.T) {
	svc := newTestService(&stubReadingRepo{}, &stubEnclosureFinder{})

	dashboard, err := svc.Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Latest != nil {
		t.Fatal("expected no latest reading")
	}
}
