package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

// Mocks bundles in-memory repositories for handler tests. Setting Err on any
// of them makes every call fail with that error.
type Mocks struct {
	Contacts      *ContactRepo
	Newsletter    *NewsletterRepo
	Registrations *RegistrationRepo
	Donations     *DonationRepo
	Prayers       *PrayerRepo
	Sermons       *SermonRepo
	StatusChecks  *StatusCheckRepo
}

var _ repository.ContactRepo = (*ContactRepo)(nil)
var _ repository.NewsletterRepo = (*NewsletterRepo)(nil)
var _ repository.RegistrationRepo = (*RegistrationRepo)(nil)
var _ repository.DonationRepo = (*DonationRepo)(nil)
var _ repository.PrayerRepo = (*PrayerRepo)(nil)
var _ repository.SermonRepo = (*SermonRepo)(nil)
var _ repository.StatusCheckRepo = (*StatusCheckRepo)(nil)

func NewMocks() *Mocks {
	return &Mocks{
		Contacts:      &ContactRepo{},
		Newsletter:    &NewsletterRepo{},
		Registrations: &RegistrationRepo{},
		Donations:     &DonationRepo{},
		Prayers:       &PrayerRepo{},
		Sermons:       &SermonRepo{},
		StatusChecks:  &StatusCheckRepo{},
	}
}

type seq struct {
	n int
}

func (s *seq) next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

func limitOf[T any](in []T, limit int) []T {
	out := make([]T, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, in[i])
	}
	return out
}

type ContactRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.ContactSubmission
	Err    error
}

func (m *ContactRepo) CreateContact(ctx context.Context, c *models.ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c.ID = m.ids.next("contact")
	if c.RequestType == "" {
		c.RequestType = models.RequestGeneral
	}
	c.Status = models.ContactNew
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.Stored = append(m.Stored, *c)
	return nil
}

func (m *ContactRepo) ListContacts(ctx context.Context, limit int) ([]models.ContactSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return limitOf(m.Stored, limit), nil
}

func (m *ContactRepo) UpdateContactStatus(ctx context.Context, id string, status models.ContactStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].Status = status
			m.Stored[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *ContactRepo) CountContacts(ctx context.Context, status models.ContactStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, c := range m.Stored {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

type NewsletterRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.NewsletterSubscription
	Err    error
}

func (m *NewsletterRepo) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, models.SubscribeOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	for i := range m.Stored {
		s := &m.Stored[i]
		if s.Email != email {
			continue
		}
		if s.Status == models.SubscriptionActive {
			out := *s
			return &out, models.SubscribeAlreadyActive, nil
		}
		s.Status = models.SubscriptionActive
		s.SubscribedAt = time.Now().UTC()
		s.UnsubscribedAt = nil
		out := *s
		return &out, models.SubscribeReactivated, nil
	}
	s := models.NewsletterSubscription{
		ID:           m.ids.next("sub"),
		Email:        email,
		Status:       models.SubscriptionActive,
		SubscribedAt: time.Now().UTC(),
	}
	m.Stored = append(m.Stored, s)
	return &s, models.SubscribeCreated, nil
}

func (m *NewsletterRepo) Unsubscribe(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].Email == email {
			now := time.Now().UTC()
			m.Stored[i].Status = models.SubscriptionUnsubscribed
			m.Stored[i].UnsubscribedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *NewsletterRepo) ListSubscribers(ctx context.Context, status models.SubscriptionStatus, limit int) ([]models.NewsletterSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []models.NewsletterSubscription
	for _, s := range m.Stored {
		if status == "" || s.Status == status {
			matched = append(matched, s)
		}
	}
	return limitOf(matched, limit), nil
}

func (m *NewsletterRepo) CountSubscribers(ctx context.Context, status models.SubscriptionStatus) (int64, error) {
	subs, err := m.ListSubscribers(ctx, status, 0)
	return int64(len(subs)), err
}

type RegistrationRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.EventRegistration
	Err    error
}

func (m *RegistrationRepo) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, r := range m.Stored {
		if r.EventID == reg.EventID && r.Email == reg.Email {
			return repository.ErrConflict
		}
	}
	reg.ID = m.ids.next("reg")
	if reg.AttendeeCount <= 0 {
		reg.AttendeeCount = 1
	}
	reg.RegisteredAt = time.Now().UTC()
	m.Stored = append(m.Stored, *reg)
	return nil
}

func (m *RegistrationRepo) ListRegistrations(ctx context.Context, eventID string, limit int) ([]models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []models.EventRegistration
	for _, r := range m.Stored {
		if eventID == "" || r.EventID == eventID {
			matched = append(matched, r)
		}
	}
	return limitOf(matched, limit), nil
}

func (m *RegistrationRepo) CountRegistrations(ctx context.Context) (int64, error) {
	regs, err := m.ListRegistrations(ctx, "", 0)
	return int64(len(regs)), err
}

type DonationRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.Donation
	Err    error
}

func (m *DonationRepo) CreateDonation(ctx context.Context, d *models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if d.ID == "" {
		d.ID = m.ids.next("don")
	}
	if d.Currency == "" {
		d.Currency = "CAD"
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = models.PaymentPending
	}
	d.CreatedAt = time.Now().UTC()
	m.Stored = append(m.Stored, *d)
	return nil
}

func (m *DonationRepo) CompleteDonation(ctx context.Context, id, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			now := time.Now().UTC()
			m.Stored[i].PaymentStatus = models.PaymentCompleted
			m.Stored[i].PaymentID = &paymentID
			m.Stored[i].UpdatedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *DonationRepo) ListDonations(ctx context.Context, limit int) ([]models.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return limitOf(m.Stored, limit), nil
}

func (m *DonationRepo) CompletedTotals(ctx context.Context, donationType models.DonationType) (models.Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Totals{}, m.Err
	}
	var t models.Totals
	for _, d := range m.Stored {
		if d.PaymentStatus != models.PaymentCompleted {
			continue
		}
		if donationType != "" && d.DonationType != donationType {
			continue
		}
		t.Total += d.Amount
		t.Count++
	}
	return t, nil
}

func (m *DonationRepo) CompletedTotalsByCause(ctx context.Context) ([]models.CauseTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	idx := map[models.Cause]int{}
	out := []models.CauseTotals{}
	for _, d := range m.Stored {
		if d.PaymentStatus != models.PaymentCompleted {
			continue
		}
		i, ok := idx[d.Cause]
		if !ok {
			i = len(out)
			idx[d.Cause] = i
			out = append(out, models.CauseTotals{Cause: d.Cause})
		}
		out[i].Total += d.Amount
		out[i].Count++
	}
	return out, nil
}

type PrayerRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.PrayerRequest
	Err    error
}

func (m *PrayerRepo) CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p.ID = m.ids.next("prayer")
	p.Status = models.PrayerPending
	p.CreatedAt = time.Now().UTC()
	m.Stored = append(m.Stored, *p)
	return nil
}

func (m *PrayerRepo) ListPrayerRequests(ctx context.Context, includePrivate bool, limit int) ([]models.PrayerRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []models.PrayerRequest
	for _, p := range m.Stored {
		if includePrivate || !p.IsPrivate {
			matched = append(matched, p)
		}
	}
	return limitOf(matched, limit), nil
}

func (m *PrayerRepo) UpdatePrayerStatus(ctx context.Context, id string, status models.PrayerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			now := time.Now().UTC()
			m.Stored[i].Status = status
			m.Stored[i].UpdatedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *PrayerRepo) CountPrayerRequests(ctx context.Context) (int64, error) {
	ps, err := m.ListPrayerRequests(ctx, true, 0)
	return int64(len(ps)), err
}

type SermonRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.Sermon
	Err    error
}

func (m *SermonRepo) CreateSermon(ctx context.Context, s *models.Sermon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	s.ID = m.ids.next("sermon")
	s.CreatedAt = time.Now().UTC()
	if s.Date.IsZero() {
		s.Date = s.CreatedAt
	}
	m.Stored = append(m.Stored, *s)
	return nil
}

func (m *SermonRepo) ListSermons(ctx context.Context, limit int) ([]models.Sermon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return limitOf(m.Stored, limit), nil
}

type StatusCheckRepo struct {
	mu     sync.Mutex
	ids    seq
	Stored []models.StatusCheck
	Err    error
}

func (m *StatusCheckRepo) CreateStatusCheck(ctx context.Context, s *models.StatusCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	s.ID = m.ids.next("status")
	s.Timestamp = time.Now().UTC()
	m.Stored = append(m.Stored, *s)
	return nil
}

func (m *StatusCheckRepo) ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return limitOf(m.Stored, limit), nil
}
