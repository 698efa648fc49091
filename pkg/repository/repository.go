package repository

import (
	"context"
	"errors"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrNotFound is returned when an update targets an id or email that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

type ContactRepo interface {
	CreateContact(ctx context.Context, c *models.ContactSubmission) error
	ListContacts(ctx context.Context, limit int) ([]models.ContactSubmission, error)
	UpdateContactStatus(ctx context.Context, id string, status models.ContactStatus) error
	// CountContacts counts submissions; an empty status counts all of them.
	CountContacts(ctx context.Context, status models.ContactStatus) (int64, error)
}

type NewsletterRepo interface {
	// Subscribe creates, reactivates or leaves untouched the subscription for
	// email in a single statement and reports which of the three happened.
	Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, models.SubscribeOutcome, error)
	Unsubscribe(ctx context.Context, email string) error
	// ListSubscribers lists subscriptions; an empty status lists all of them.
	ListSubscribers(ctx context.Context, status models.SubscriptionStatus, limit int) ([]models.NewsletterSubscription, error)
	CountSubscribers(ctx context.Context, status models.SubscriptionStatus) (int64, error)
}

type RegistrationRepo interface {
	// CreateRegistration returns ErrConflict when (eventId, email) is taken.
	CreateRegistration(ctx context.Context, reg *models.EventRegistration) error
	// ListRegistrations lists registrations; an empty eventID lists every event.
	ListRegistrations(ctx context.Context, eventID string, limit int) ([]models.EventRegistration, error)
	CountRegistrations(ctx context.Context) (int64, error)
}

type DonationRepo interface {
	CreateDonation(ctx context.Context, d *models.Donation) error
	CompleteDonation(ctx context.Context, id, paymentID string) error
	ListDonations(ctx context.Context, limit int) ([]models.Donation, error)
	// CompletedTotals sums completed donations; an empty donationType sums all types.
	CompletedTotals(ctx context.Context, donationType models.DonationType) (models.Totals, error)
	CompletedTotalsByCause(ctx context.Context) ([]models.CauseTotals, error)
}

type PrayerRepo interface {
	CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) error
	ListPrayerRequests(ctx context.Context, includePrivate bool, limit int) ([]models.PrayerRequest, error)
	UpdatePrayerStatus(ctx context.Context, id string, status models.PrayerStatus) error
	CountPrayerRequests(ctx context.Context) (int64, error)
}

type SermonRepo interface {
	CreateSermon(ctx context.Context, s *models.Sermon) error
	ListSermons(ctx context.Context, limit int) ([]models.Sermon, error)
}

type StatusCheckRepo interface {
	CreateStatusCheck(ctx context.Context, s *models.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error)
}
