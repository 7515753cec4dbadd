package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient builds an authorized HTTP client from a service-account
// credential file. Service accounts skip the browser consent dance: the
// sheet just has to be shared with the account's email address.
func SheetsClient(ctx context.Context, credFile string) (*http.Client, error) {
	b, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file %q: %w", credFile, err)
	}

	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account file: %w", err)
	}

	return config.Client(ctx), nil
}
