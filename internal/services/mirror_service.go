package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/apptrack/apptrack/internal/dtos"
	"github.com/apptrack/apptrack/internal/models"
	"gorm.io/gorm"
)

// Event types recorded against mirror rows.
const (
	EventRowCreated = "ROW_CREATED"
	EventRowUpdated = "ROW_UPDATED"
	EventSheetSync  = "SHEET_SYNC"
)

// MirrorService keeps a local copy of the sheet in Postgres. Every method
// is nil-tolerant so the tracker works sheet-only when no DSN is set.
type MirrorService struct {
	DB *gorm.DB
}

func NewMirrorService(db *gorm.DB) *MirrorService {
	return &MirrorService{DB: db}
}

func (m *MirrorService) enabled() bool {
	return m != nil && m.DB != nil
}

// RecordUpdate upserts the mirror row for company and logs an event.
// The caller passes the sheet's canonical spelling so an update matched
// by substring keys the same mirror row the sync reconciles. Mirror
// failures are logged, never surfaced: the sheet write already succeeded.
func (m *MirrorService) RecordUpdate(company string, extracted *dtos.ExtractedUpdate, now time.Time, eventType string) {
	if !m.enabled() {
		return
	}

	var app models.Application
	err := m.DB.Where(models.Application{Company: company}).
		FirstOrCreate(&app).Error
	if err != nil {
		log.Printf("Mirror: upsert %q failed: %v", company, err)
		return
	}

	changes := map[string]interface{}{
		"last_updated": now.Format(dateTimeLayout),
	}
	for column, value := range mirrorColumns(extracted) {
		if value != "" {
			changes[column] = value
		}
	}
	if eventType == EventRowCreated && app.DateApplied == "" {
		changes["date_applied"] = now.Format(dateLayout)
	}

	if err := m.DB.Model(&app).Updates(changes).Error; err != nil {
		log.Printf("Mirror: update %q failed: %v", company, err)
		return
	}

	event := models.ApplicationEvent{
		ApplicationID: app.ID,
		EventType:     eventType,
		Details:       eventDetails(extracted),
	}
	if err := m.DB.Create(&event).Error; err != nil {
		log.Printf("Mirror: event log failed: %v", err)
	}
}

// ReconcileRows rebuilds mirror rows from a full sheet snapshot. Used by
// the background sync so the dashboard fallback stays close to the sheet.
func (m *MirrorService) ReconcileRows(headers []string, rows [][]string) (int, error) {
	if !m.enabled() {
		return 0, nil
	}

	companyCol := indexOfHeader(headers, headerCompany)
	if companyCol == -1 {
		return 0, ErrNoCompanyColumn
	}

	reconciled := 0
	for _, row := range rows {
		if companyCol >= len(row) {
			continue
		}
		company := strings.TrimSpace(row[companyCol])
		if company == "" {
			continue
		}

		var app models.Application
		err := m.DB.Where(models.Application{Company: company}).
			FirstOrCreate(&app).Error
		if err != nil {
			return reconciled, fmt.Errorf("reconcile %q: %w", company, err)
		}

		changes := map[string]interface{}{}
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			column, ok := sheetHeaderToColumn[strings.TrimSpace(h)]
			if !ok || row[i] == "" {
				continue
			}
			changes[column] = row[i]
		}
		if len(changes) == 0 {
			continue
		}
		if err := m.DB.Model(&app).Updates(changes).Error; err != nil {
			return reconciled, fmt.Errorf("reconcile %q: %w", company, err)
		}
		reconciled++
	}
	return reconciled, nil
}

// Applications returns mirror rows for the dashboard fallback.
func (m *MirrorService) Applications() ([]models.Application, error) {
	if !m.enabled() {
		return nil, nil
	}
	var apps []models.Application
	err := m.DB.Order("company ASC").Find(&apps).Error
	return apps, err
}

// RecentEvents returns the newest events first.
func (m *MirrorService) RecentEvents(limit int) ([]models.ApplicationEvent, error) {
	if !m.enabled() {
		return nil, nil
	}
	var events []models.ApplicationEvent
	err := m.DB.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// sheetHeaderToColumn maps sheet column names onto mirror columns.
var sheetHeaderToColumn = map[string]string{
	"Job Title":           "job_title",
	"Contact":             "contact",
	"Status":              "status",
	"Notes":               "notes",
	"Link to Application": "link",
	"Salary":              "salary",
	"Location":            "location",
	"Next Step Date":      "next_step_date",
	"Recruiter Contact":   "recruiter_contact",
	"Date Applied":        "date_applied",
	"Last Updated":        "last_updated",
}

func mirrorColumns(e *dtos.ExtractedUpdate) map[string]string {
	status := e.Status
	if status != "" && !models.KnownStatus(status) {
		// Written to the sheet as-is, but the mirror keeps the filterable
		// vocabulary clean.
		log.Printf("Mirror: status %q outside vocabulary, keeping previous", status)
		status = ""
	}
	return map[string]string{
		"job_title":         e.JobTitle,
		"contact":           e.Contact,
		"status":            status,
		"notes":             e.Notes,
		"link":              e.Link,
		"salary":            e.Salary,
		"location":          e.Location,
		"next_step_date":    e.NextStepDate,
		"recruiter_contact": e.RecruiterContact,
	}
}

func eventDetails(e *dtos.ExtractedUpdate) string {
	parts := []string{}
	if e.Status != "" {
		parts = append(parts, "status="+e.Status)
	}
	if e.JobTitle != "" {
		parts = append(parts, "title="+e.JobTitle)
	}
	if e.NextStepDate != "" {
		parts = append(parts, "next="+e.NextStepDate)
	}
	if len(parts) == 0 {
		return "fields updated"
	}
	return strings.Join(parts, " ")
}
