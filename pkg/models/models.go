package models

import "time"

// Domain records matching the database schema in db/migrations/0001_init.sql.
// Field names on the wire are camelCase; the website front end depends on them.

type RequestType string

const (
	RequestGeneral     RequestType = "general"
	RequestPrayer      RequestType = "prayer"
	RequestPartnership RequestType = "partnership"
	RequestMissions    RequestType = "missions"
	RequestEducation   RequestType = "education"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestGeneral, RequestPrayer, RequestPartnership, RequestMissions, RequestEducation:
		return true
	}
	return false
}

type ContactStatus string

const (
	ContactNew       ContactStatus = "new"
	ContactRead      ContactStatus = "read"
	ContactResponded ContactStatus = "responded"
)

func (s ContactStatus) Valid() bool {
	return s == ContactNew || s == ContactRead || s == ContactResponded
}

type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

func (s SubscriptionStatus) Valid() bool {
	return s == SubscriptionActive || s == SubscriptionUnsubscribed
}

type DonationType string

const (
	DonationOneTime DonationType = "one-time"
	DonationMonthly DonationType = "monthly"
)

func (t DonationType) Valid() bool {
	return t == DonationOneTime || t == DonationMonthly
}

type Cause string

const (
	CauseGeneral        Cause = "general"
	CauseMissions       Cause = "missions"
	CauseChurchPlanting Cause = "church-planting"
	CauseEducation      Cause = "education"
	CauseYouth          Cause = "youth"
)

func (c Cause) Valid() bool {
	switch c {
	case CauseGeneral, CauseMissions, CauseChurchPlanting, CauseEducation, CauseYouth:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentFailed
}

type PrayerStatus string

const (
	PrayerPending  PrayerStatus = "pending"
	PrayerPraying  PrayerStatus = "praying"
	PrayerAnswered PrayerStatus = "answered"
)

func (s PrayerStatus) Valid() bool {
	return s == PrayerPending || s == PrayerPraying || s == PrayerAnswered
}

// Contact form

type ContactSubmissionCreate struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Subject     string      `json:"subject"`
	Message     string      `json:"message"`
	RequestType RequestType `json:"requestType"`
}

type ContactSubmission struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Subject     string        `json:"subject"`
	Message     string        `json:"message"`
	RequestType RequestType   `json:"requestType"`
	Status      ContactStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Newsletter

type NewsletterSubscriptionCreate struct {
	Email string `json:"email"`
}

type NewsletterSubscription struct {
	ID             string             `json:"id"`
	Email          string             `json:"email"`
	Status         SubscriptionStatus `json:"status"`
	SubscribedAt   time.Time          `json:"subscribedAt"`
	UnsubscribedAt *time.Time         `json:"unsubscribedAt"`
}

// SubscribeOutcome tells which branch an idempotent subscribe took.
type SubscribeOutcome int

const (
	SubscribeCreated SubscribeOutcome = iota
	SubscribeReactivated
	SubscribeAlreadyActive
)

// Events

// Event is a catalog entry; events are not persisted.
type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	Time        string `json:"time" yaml:"time"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
}

type EventRegistrationCreate struct {
	EventID       string  `json:"eventId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone,omitempty"`
	AttendeeCount *int    `json:"attendeeCount,omitempty"`
}

type EventRegistration struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	AttendeeCount int       `json:"attendeeCount"`
	RegisteredAt  time.Time `json:"registeredAt"`
}

// Donations

type DonationCreate struct {
	DonorName    string       `json:"donorName"`
	Email        string       `json:"email"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	DonationType DonationType `json:"donationType"`
	Cause        Cause        `json:"cause"`
}

type Donation struct {
	ID            string        `json:"id"`
	DonorName     string        `json:"donorName"`
	Email         string        `json:"email"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	DonationType  DonationType  `json:"donationType"`
	Cause         Cause         `json:"cause"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentID     *string       `json:"paymentId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// Totals is a sum/count pair; the zero value is the answer for no rows.
type Totals struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type CauseTotals struct {
	Cause Cause   `json:"cause"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type DonationStats struct {
	TotalDonations   Totals        `json:"totalDonations"`
	MonthlyDonations Totals        `json:"monthlyDonations"`
	DonationsByCause []CauseTotals `json:"donationsByCause"`
}

// Prayer requests

type PrayerRequestCreate struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Request   string  `json:"request"`
	IsPrivate bool    `json:"isPrivate"`
}

type PrayerRequest struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     *string      `json:"email,omitempty"`
	Request   string       `json:"request"`
	IsPrivate bool         `json:"isPrivate"`
	Status    PrayerStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
}

// Sermons created from the admin console.
type Sermon struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Speaker     string    `json:"speaker"`
	Scripture   string    `json:"scripture"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"videoUrl"`
	AudioURL    *string   `json:"audioUrl"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Dashboard is the admin overview across every collection.
type Dashboard struct {
	Contacts struct {
		Total int64 `json:"total"`
		New   int64 `json:"new"`
	} `json:"contacts"`
	Subscribers    int64  `json:"subscribers"`
	Donations      Totals `json:"donations"`
	Registrations  int64  `json:"registrations"`
	PrayerRequests int64  `json:"prayerRequests"`
}
