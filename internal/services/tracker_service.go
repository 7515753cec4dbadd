package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apptrack/apptrack/internal/dtos"
	"github.com/apptrack/apptrack/internal/sheet"
)

// Extractor turns free text into a structured update. *LLMService is the
// production implementation; tests substitute a fake.
type Extractor interface {
	ExtractUpdate(ctx context.Context, text string) (*dtos.ExtractedUpdate, error)
}

// Recorder receives the outcome of each sheet write. *MirrorService is the
// production implementation. The company argument is the row's canonical
// name as the sheet spells it, not whatever the model extracted.
type Recorder interface {
	RecordUpdate(company string, extracted *dtos.ExtractedUpdate, now time.Time, eventType string)
}

// keyToHeader maps extraction JSON keys onto the sheet's column names.
// Headers present in the sheet but absent here are left blank on create
// and untouched on update.
var keyToHeader = map[string]string{
	"company":           "Company",
	"job_title":         "Job Title",
	"contact":           "Contact",
	"status":            "Status",
	"notes":             "Notes",
	"link":              "Link to Application",
	"salary":            "Salary",
	"location":          "Location",
	"next_step_date":    "Next Step Date",
	"recruiter_contact": "Recruiter Contact",
}

var headerToKey = func() map[string]string {
	m := make(map[string]string, len(keyToHeader))
	for k, h := range keyToHeader {
		m[h] = k
	}
	return m
}()

const (
	headerCompany     = "Company"
	headerDateApplied = "Date Applied"
	headerLastUpdated = "Last Updated"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// User-facing failure conditions; the handler maps these onto statuses.
var (
	ErrNoCompany       = errors.New("could not identify a company name")
	ErrNoHeaderRow     = errors.New("sheet has no header row")
	ErrNoCompanyColumn = errors.New(`sheet has no "Company" column`)
	ErrUndecidable     = errors.New("could not determine whether to create or update")
)

// TrackerService runs the whole pipeline for one update: extract, match,
// reconcile against the live header row, write, refresh.
type TrackerService struct {
	Extractor Extractor
	Sheet     sheet.Worksheet
	Cache     *sheet.Cache
	Matcher   *MatcherService
	Mirror    Recorder // optional

	now func() time.Time
}

func NewTrackerService(extractor Extractor, ws sheet.Worksheet, cache *sheet.Cache, matcher *MatcherService, mirror Recorder) *TrackerService {
	return &TrackerService{
		Extractor: extractor,
		Sheet:     ws,
		Cache:     cache,
		Matcher:   matcher,
		Mirror:    mirror,
		now:       time.Now,
	}
}

// ProcessUpdate handles one free-text update end to end.
func (s *TrackerService) ProcessUpdate(ctx context.Context, text string) (*dtos.UpdateResult, error) {
	extracted, err := s.Extractor.ExtractUpdate(ctx, text)
	if err != nil {
		return nil, err
	}

	company := strings.TrimSpace(extracted.Company)
	if company == "" {
		return nil, ErrNoCompany
	}

	headers, err := s.Sheet.Headers(ctx)
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if !hasAnyHeader(headers) {
		return nil, ErrNoHeaderRow
	}
	companyCol := indexOfHeader(headers, headerCompany)
	if companyCol == -1 {
		return nil, ErrNoCompanyColumn
	}

	rows, err := s.Sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	matchIdx := s.Matcher.FindCompanyRow(rows, companyCol, company)
	now := s.now()

	switch {
	case extracted.Action == "CREATE" && matchIdx == -1:
		return s.createRow(ctx, headers, extracted, company, now)

	case extracted.Action == "UPDATE" || matchIdx != -1:
		if matchIdx == -1 {
			return &dtos.UpdateResult{
				Outcome: dtos.OutcomeNotFound,
				Company: company,
				Message: fmt.Sprintf("Could not find %s to update", company),
			}, nil
		}
		// The matched cell is the canonical spelling; a substring or
		// case-insensitive match must not introduce a second identity.
		canonical := company
		if companyCol < len(rows[matchIdx]) {
			if cell := strings.TrimSpace(rows[matchIdx][companyCol]); cell != "" {
				canonical = cell
			}
		}
		return s.updateRow(ctx, headers, extracted, canonical, matchIdx, now)

	default:
		return nil, ErrUndecidable
	}
}

func (s *TrackerService) createRow(ctx context.Context, headers []string, extracted *dtos.ExtractedUpdate, company string, now time.Time) (*dtos.UpdateResult, error) {
	row := buildRow(headers, extracted.Fields(), now)
	if err := s.Sheet.AppendRow(ctx, row); err != nil {
		return nil, fmt.Errorf("append row: %w", err)
	}
	s.Cache.Invalidate()
	if s.Mirror != nil {
		s.Mirror.RecordUpdate(company, extracted, now, EventRowCreated)
	}

	return &dtos.UpdateResult{
		Outcome: dtos.OutcomeCreated,
		Company: company,
		Message: fmt.Sprintf("Successfully added %s to your sheet", company),
	}, nil
}

func (s *TrackerService) updateRow(ctx context.Context, headers []string, extracted *dtos.ExtractedUpdate, company string, matchIdx int, now time.Time) (*dtos.UpdateResult, error) {
	// +1 for the header row, +1 because sheet rows are 1-based.
	sheetRow := matchIdx + 2

	updates := buildCellUpdates(headers, extracted.Fields(), sheetRow)
	if len(updates) == 0 {
		return &dtos.UpdateResult{
			Outcome: dtos.OutcomeNoop,
			Company: company,
			Message: "No new information was found to update",
			Row:     sheetRow,
		}, nil
	}

	if col := indexOfHeader(headers, headerLastUpdated); col != -1 {
		updates = append(updates, sheet.CellUpdate{
			Row:   sheetRow,
			Col:   col + 1,
			Value: now.Format(dateTimeLayout),
		})
	}

	if err := s.Sheet.UpdateCells(ctx, updates); err != nil {
		return nil, fmt.Errorf("update cells: %w", err)
	}
	s.Cache.Invalidate()
	if s.Mirror != nil {
		s.Mirror.RecordUpdate(company, extracted, now, EventRowUpdated)
	}

	return &dtos.UpdateResult{
		Outcome: dtos.OutcomeUpdated,
		Company: company,
		Message: fmt.Sprintf("Successfully updated %s in your sheet", company),
		Row:     sheetRow,
	}, nil
}

// buildRow lays out one new row in live header order. Mapped fields are
// filled from the extraction, unknown headers stay blank, and the two
// server-managed columns are stamped.
func buildRow(headers []string, fields map[string]string, now time.Time) []string {
	byHeader := make(map[string]string, len(keyToHeader)+2)
	for key, header := range keyToHeader {
		byHeader[header] = fields[key]
	}
	byHeader[headerDateApplied] = now.Format(dateLayout)
	byHeader[headerLastUpdated] = now.Format(dateTimeLayout)

	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = byHeader[strings.TrimSpace(h)]
	}
	return row
}

// buildCellUpdates collects one cell per non-empty extracted field that
// has a column in the live headers. The company cell is skipped so a
// partial-name match never overwrites the sheet's canonical name.
func buildCellUpdates(headers []string, fields map[string]string, sheetRow int) []sheet.CellUpdate {
	var updates []sheet.CellUpdate
	for i, h := range headers {
		key, ok := headerToKey[strings.TrimSpace(h)]
		if !ok || key == "company" {
			continue
		}
		value := fields[key]
		if value == "" {
			continue
		}
		updates = append(updates, sheet.CellUpdate{
			Row:   sheetRow,
			Col:   i + 1,
			Value: value,
		})
	}
	return updates
}

func hasAnyHeader(headers []string) bool {
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	return false
}

func indexOfHeader(headers []string, name string) int {
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
