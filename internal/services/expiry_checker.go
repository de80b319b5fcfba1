package services

import (
	"context"
	"log"
	"time"

	"github.com/xamad/smartfridge/internal/database"
)

// ExpiryChecker runs the daily expiry sweep the way the household expects:
// once a day at a fixed local hour, alerting on products close to expiry.
type ExpiryChecker struct {
	db        *database.DB
	email     *EmailService
	alertDays int
	checkHour int
}

// NewExpiryChecker creates the daily expiry check job
func NewExpiryChecker(db *database.DB, email *EmailService, alertDays, checkHour int) *ExpiryChecker {
	return &ExpiryChecker{
		db:        db,
		email:     email,
		alertDays: alertDays,
		checkHour: checkHour,
	}
}

// Run blocks until ctx is cancelled, firing once per day at the configured
// hour. Call it in a goroutine from main.
func (e *ExpiryChecker) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(e.nextRun(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			e.CheckOnce(ctx)
		}
	}
}

// CheckOnce performs a single expiry sweep
func (e *ExpiryChecker) CheckOnce(ctx context.Context) {
	products, err := e.db.ListExpiringProducts(ctx, e.alertDays)
	if err != nil {
		log.Printf("Warning: expiry check failed: %v", err)
		return
	}

	if len(products) == 0 {
		return
	}

	log.Printf("Expiry check: %d product(s) expiring within %d days", len(products), e.alertDays)

	if e.email != nil && e.email.IsConfigured() {
		if err := e.email.SendExpiryAlert(products); err != nil {
			log.Printf("Warning: failed to send expiry alert email: %v", err)
		}
	}
}

func (e *ExpiryChecker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), e.checkHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
