package dtos

type UpdateRequest struct {
	Text string `json:"text" binding:"required"`
}

// ExtractedUpdate is the fixed key set the extraction prompt demands.
// CompanyName is an alias some model replies use instead of "company".
type ExtractedUpdate struct {
	Action           string `json:"action"`
	Company          string `json:"company"`
	CompanyName      string `json:"company_name,omitempty"`
	JobTitle         string `json:"job_title"`
	Contact          string `json:"contact"`
	Status           string `json:"status"`
	Notes            string `json:"notes"`
	Link             string `json:"link"`
	Salary           string `json:"salary"`
	Location         string `json:"location"`
	NextStepDate     string `json:"next_step_date"`
	RecruiterContact string `json:"recruiter_contact"`
}

// Fields returns the extraction values keyed by their JSON names.
func (e *ExtractedUpdate) Fields() map[string]string {
	return map[string]string{
		"company":           e.Company,
		"job_title":         e.JobTitle,
		"contact":           e.Contact,
		"status":            e.Status,
		"notes":             e.Notes,
		"link":              e.Link,
		"salary":            e.Salary,
		"location":          e.Location,
		"next_step_date":    e.NextStepDate,
		"recruiter_contact": e.RecruiterContact,
	}
}

// Outcome values for UpdateResult.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeNoop     = "noop"
	OutcomeNotFound = "not_found"
)

type UpdateResult struct {
	Outcome string `json:"outcome"`
	Company string `json:"company"`
	Message string `json:"message"`
	// Row is the 1-based sheet row that was touched (0 for created rows,
	// since the append position is owned by the backend).
	Row int `json:"row,omitempty"`
}
