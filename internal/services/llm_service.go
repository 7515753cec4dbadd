package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/apptrack/apptrack/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/googleapi"
)

const extractionPrompt = `You are a precise data extraction robot. Your only task is to analyze user text and respond with a valid JSON object. Do not add any conversational text or explanations.

Your JSON output MUST use these exact keys: "action", "company", "job_title", "contact", "status", "notes", "link", "salary", "location", "next_step_date", "recruiter_contact".

**Rules:**
- "action": 'CREATE' or 'UPDATE'.
- "status": Must be one of: 'Applied', 'Assessment', 'Interview Scheduled', 'Offer Received', 'Rejected', 'Followed Up', 'Withdrew'.
- For any unmentioned field, the value must be an empty string "".

**Examples:**
1. User text: 'Just applied for a 'Senior Data Engineer' role at Databricks. Recruiter is Jessica Miller.'
Correct JSON output: { "action": "CREATE", "company": "Databricks", "job_title": "Senior Data Engineer", "status": "Applied", "recruiter_contact": "Jessica Miller", "contact": "", "notes": "", "link": "", "salary": "", "location": "", "next_step_date": "" }

2. User text: 'Update on Vercel: interview scheduled for next Tuesday for the Senior Frontend Engineer role.'
Correct JSON output: { "action": "UPDATE", "company": "Vercel", "job_title": "Senior Frontend Engineer", "status": "Interview Scheduled", "next_step_date": "next Tuesday", "contact": "", "notes": "", "link": "", "salary": "", "location": "", "recruiter_contact": "" }

User text: '%s'`

const (
	extractionAttempts  = 3
	extractionBaseDelay = 2 * time.Second
)

type LLMService struct {
	Client llms.Model

	// retryDelay is the first backoff step; it doubles per attempt.
	retryDelay time.Duration
}

// NewLLMService initializes the Gemini client.
func NewLLMService(apiKey, model string) *LLMService {
	ctx := context.Background()

	if apiKey == "" {
		log.Fatal("CRITICAL ERROR: GEMINI_API_KEY is empty. Did you load the .env file?")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}

	return &LLMService{
		Client:     llm,
		retryDelay: extractionBaseDelay,
	}
}

// ExtractUpdate sends one free-text application update through Gemini and
// decodes the fixed-key JSON reply. Rate-limited attempts back off with a
// doubling delay; any other error fails immediately.
func (s *LLMService) ExtractUpdate(ctx context.Context, text string) (*dtos.ExtractedUpdate, error) {
	prompt := fmt.Sprintf(extractionPrompt, text)

	delay := s.retryDelay
	if delay == 0 {
		delay = extractionBaseDelay
	}
	var lastErr error
	for i := 0; i < extractionAttempts; i++ {
		resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, llms.WithJSONMode())
		if err == nil {
			return ParseExtraction(resp)
		}
		if !isRateLimited(err) {
			return nil, fmt.Errorf("extraction request: %w", err)
		}
		lastErr = err

		log.Printf("Rate limit hit. Retrying in %v...", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}

	return nil, fmt.Errorf("rate limit still exceeded after %d attempts: %w", extractionAttempts, lastErr)
}

// ParseExtraction strips any markdown fences the model added despite the
// prompt and decodes the extraction JSON. The company_name alias is folded
// into Company and the action is normalized to upper case.
func ParseExtraction(raw string) (*dtos.ExtractedUpdate, error) {
	cleaned := stripJSONFences(raw)

	var out dtos.ExtractedUpdate
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("decode extraction JSON: %w", err)
	}

	out.Action = strings.ToUpper(strings.TrimSpace(out.Action))
	if strings.TrimSpace(out.Company) == "" {
		out.Company = out.CompanyName
	}
	out.Company = strings.TrimSpace(out.Company)
	return &out, nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func isRateLimited(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusTooManyRequests
	}
	// The langchaingo googleai backend does not always surface a typed
	// error, so fall back to the status text.
	return strings.Contains(err.Error(), "429")
}
