// Package export writes submission-log reports as Excel workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"staybook/internal/store"
)

// SubmissionSource lists logged submissions for a period.
type SubmissionSource interface {
	ListSubmissions(ctx context.Context, from, to time.Time) ([]store.Submission, error)
	DeleteOldSubmissions(ctx context.Context, olderThan time.Duration) (int64, error)
}

var reportColumns = []string{
	"id", "session_id", "property_id", "check_in", "check_out",
	"guests", "outcome", "booking_id", "detail", "created_at",
}

// WriteReport renders the submissions for [from, to) into an xlsx workbook.
func WriteReport(ctx context.Context, source SubmissionSource, from, to time.Time, w io.Writer) error {
	rows, err := source.ListSubmissions(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Submissions"
	file.SetSheetName("Sheet1", sheet)

	for i, col := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(reportColumns), 1)
		_ = file.SetCellStyle(sheet, startCell, endCell, style)
	}

	for i, row := range rows {
		values := []any{
			row.ID, row.SessionID, row.PropertyID, row.CheckIn, row.CheckOut,
			row.Guests, row.Outcome, row.BookingID, row.Detail,
			row.CreatedAt.Format(time.RFC3339),
		}
		for j, val := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}

// Filename returns the report filename for the month containing t.
func Filename(t time.Time) string {
	return fmt.Sprintf("staybook_submissions_%s.xlsx", t.Format("2006-01"))
}

// Service exports the previous month's submissions on the 1st of each month
// and trims log entries past the retention window.
type Service struct {
	source    SubmissionSource
	sink      func(filename string, write func(io.Writer) error) error
	retention time.Duration
	logger    *zerolog.Logger
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewService creates the monthly export service. sink receives the report
// filename and a callback that writes the workbook.
func NewService(source SubmissionSource, sink func(string, func(io.Writer) error) error, retention time.Duration, logger *zerolog.Logger) *Service {
	if retention <= 0 {
		retention = 31 * 24 * time.Hour
	}
	return &Service{
		source:    source,
		sink:      sink,
		retention: retention,
		logger:    logger,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the export scheduler.
func (s *Service) Start() {
	go s.loop()
}

// Stop shuts the scheduler down.
func (s *Service) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Service) loop() {
	defer close(s.doneCh)

	next := nextFirstOfMonth(time.Now())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	s.logger.Info().Time("next_run", next).Msg("export scheduled")

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
			s.RunOnce()
			next = nextFirstOfMonth(time.Now())
			timer.Reset(time.Until(next))
			s.logger.Info().Time("next_run", next).Msg("export scheduled")
		}
	}
}

// RunOnce exports the previous month and trims old log entries.
func (s *Service) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	err := s.sink(Filename(prevStart), func(w io.Writer) error {
		return WriteReport(ctx, s.source, prevStart, monthStart, w)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}

	deleted, err := s.source.DeleteOldSubmissions(ctx, s.retention)
	if err != nil {
		s.logger.Error().Err(err).Msg("submission cleanup failed")
		return
	}
	s.logger.Info().Int64("deleted", deleted).Msg("old submissions cleaned up")
}

func nextFirstOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 1, 0, 0, now.Location())
}
