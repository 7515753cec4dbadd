package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/apptrack/apptrack/internal/sheet"
)

// SyncService reconciles the mirror store with the sheet in the
// background, so the dashboard fallback stays fresh even when nobody is
// posting updates.
type SyncService struct {
	Sheet    sheet.Worksheet
	Mirror   *MirrorService
	Interval time.Duration
}

func NewSyncService(ws sheet.Worksheet, mirror *MirrorService, interval time.Duration) *SyncService {
	return &SyncService{
		Sheet:    ws,
		Mirror:   mirror,
		Interval: interval,
	}
}

// StartWatcher starts the background polling.
func (s *SyncService) StartWatcher() {
	if !s.Mirror.enabled() {
		log.Println("Sheet sync disabled (no mirror store).")
		return
	}

	ticker := time.NewTicker(s.Interval)

	// Run immediately on startup
	go s.SyncSheet()

	go func() {
		for range ticker.C {
			s.SyncSheet()
		}
	}()
}

// SyncSheet runs one reconcile cycle with a hard time limit.
func (s *SyncService) SyncSheet() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Println("Sheet sync: starting cycle...")

	var headers []string
	var rows [][]string
	err := retry(3, 1*time.Second, func() error {
		var e error
		if headers, e = s.Sheet.Headers(ctx); e != nil {
			return e
		}
		rows, e = s.Sheet.Rows(ctx)
		return e
	})
	if err != nil {
		log.Printf("Sheet sync: fetch failed: %v", err)
		return
	}

	n, err := s.Mirror.ReconcileRows(headers, rows)
	if err != nil {
		log.Printf("Sheet sync: reconcile failed: %v", err)
		return
	}
	log.Printf("Sheet sync: reconciled %d of %d rows", n, len(rows))
}

// retry executes a function with a doubling delay between attempts.
func retry(attempts int, sleep time.Duration, f func() error) error {
	for i := 0; i < attempts; i++ {
		err := f()
		if err == nil {
			return nil
		}
		log.Printf("Sheet sync: error: %v. Retrying in %v...", err, sleep)
		time.Sleep(sleep)
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts", attempts)
}
