package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/goleak"

	dbfs "github.com/xceptionalbae23/word-of-hope-ministries/db"
	dbpkg "github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
	sqlite "github.com/xceptionalbae23/word-of-hope-ministries/internal/repository/sqlite"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "repo.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	d, err := dbpkg.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return sqlite.New(d, nil)
}

func strPtr(s string) *string { return &s }

func TestContacts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateContact(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil contact")
	}

	first := &models.ContactSubmission{Name: "John", Email: "john@example.com", Subject: "Hi", Message: "Hello"}
	if err := repo.CreateContact(ctx, first); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if first.ID == "" || first.Status != models.ContactNew || first.RequestType != models.RequestGeneral {
		t.Fatalf("defaults not applied: %#v", first)
	}
	if first.CreatedAt.IsZero() || !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("timestamps not set: %#v", first)
	}

	second := &models.ContactSubmission{Name: "Jane", Email: "jane@example.com", Subject: "Missions", Message: "Go", RequestType: models.RequestMissions}
	if err := repo.CreateContact(ctx, second); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	list, err := repo.ListContacts(ctx, 0)
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first, got %#v", list)
	}

	if err := repo.UpdateContactStatus(ctx, first.ID, models.ContactRead); err != nil {
		t.Fatalf("UpdateContactStatus: %v", err)
	}
	// setting the same status again still matches the row
	if err := repo.UpdateContactStatus(ctx, first.ID, models.ContactRead); err != nil {
		t.Fatalf("UpdateContactStatus repeat: %v", err)
	}
	if err := repo.UpdateContactStatus(ctx, "missing", models.ContactRead); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.CountContacts(ctx, "")
	if err != nil {
		t.Fatalf("CountContacts: %v", err)
	}
	fresh, err := repo.CountContacts(ctx, models.ContactNew)
	if err != nil {
		t.Fatalf("CountContacts new: %v", err)
	}
	if all != 2 || fresh != 1 {
		t.Fatalf("unexpected counts all=%d new=%d", all, fresh)
	}
}

func TestNewsletterLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	email := "reader@example.com"

	sub, outcome, err := repo.Subscribe(ctx, email)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if outcome != models.SubscribeCreated || sub.Status != models.SubscriptionActive {
		t.Fatalf("expected created active subscription, got %v %#v", outcome, sub)
	}

	again, outcome, err := repo.Subscribe(ctx, email)
	if err != nil {
		t.Fatalf("Subscribe again: %v", err)
	}
	if outcome != models.SubscribeAlreadyActive || again.ID != sub.ID {
		t.Fatalf("expected already active for same record, got %v %#v", outcome, again)
	}

	if err := repo.Unsubscribe(ctx, email); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := repo.Unsubscribe(ctx, email); err != nil {
		t.Fatalf("repeat Unsubscribe should succeed: %v", err)
	}
	if err := repo.Unsubscribe(ctx, "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	unsubs, err := repo.ListSubscribers(ctx, models.SubscriptionUnsubscribed, 0)
	if err != nil {
		t.Fatalf("ListSubscribers: %v", err)
	}
	if len(unsubs) != 1 || unsubs[0].UnsubscribedAt == nil {
		t.Fatalf("expected one unsubscribed record with timestamp, got %#v", unsubs)
	}

	back, outcome, err := repo.Subscribe(ctx, email)
	if err != nil {
		t.Fatalf("Subscribe after unsubscribe: %v", err)
	}
	if outcome != models.SubscribeReactivated || back.ID != sub.ID || back.UnsubscribedAt != nil {
		t.Fatalf("expected reactivation of same record, got %v %#v", outcome, back)
	}

	active, err := repo.CountSubscribers(ctx, models.SubscriptionActive)
	if err != nil {
		t.Fatalf("CountSubscribers: %v", err)
	}
	if active != 1 {
		t.Fatalf("expected 1 active subscriber, got %d", active)
	}
}

func TestNewsletter_ConcurrentSubscribe(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	const n = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[models.SubscribeOutcome]int{}
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, outcome, err := repo.Subscribe(ctx, "race@example.com")
			if err != nil {
				t.Errorf("Subscribe: %v", err)
				return
			}
			mu.Lock()
			outcomes[outcome]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if outcomes[models.SubscribeCreated] != 1 || outcomes[models.SubscribeAlreadyActive] != n-1 {
		t.Fatalf("expected exactly one create, got %v", outcomes)
	}
	total, err := repo.CountSubscribers(ctx, "")
	if err != nil {
		t.Fatalf("CountSubscribers: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected a single row, got %d", total)
	}
}

func TestRegistrations(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	reg := &models.EventRegistration{EventID: "1", Name: "A", Email: "a@example.com"}
	if err := repo.CreateRegistration(ctx, reg); err != nil {
		t.Fatalf("CreateRegistration: %v", err)
	}
	if reg.AttendeeCount != 1 || reg.ID == "" {
		t.Fatalf("defaults not applied: %#v", reg)
	}

	dup := &models.EventRegistration{EventID: "1", Name: "A again", Email: "a@example.com"}
	if err := repo.CreateRegistration(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	other := &models.EventRegistration{EventID: "2", Name: "A", Email: "a@example.com", Phone: strPtr("555"), AttendeeCount: 3}
	if err := repo.CreateRegistration(ctx, other); err != nil {
		t.Fatalf("same email on another event should succeed: %v", err)
	}

	forEvent, err := repo.ListRegistrations(ctx, "2", 0)
	if err != nil {
		t.Fatalf("ListRegistrations: %v", err)
	}
	if len(forEvent) != 1 || forEvent[0].Phone == nil || *forEvent[0].Phone != "555" || forEvent[0].AttendeeCount != 3 {
		t.Fatalf("unexpected registrations for event 2: %#v", forEvent)
	}

	all, err := repo.ListRegistrations(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListRegistrations all: %v", err)
	}
	cnt, err := repo.CountRegistrations(ctx)
	if err != nil {
		t.Fatalf("CountRegistrations: %v", err)
	}
	if len(all) != 2 || cnt != 2 {
		t.Fatalf("expected 2 registrations, got list=%d count=%d", len(all), cnt)
	}
}

func TestDonationsAndStats(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	totals, err := repo.CompletedTotals(ctx, "")
	if err != nil {
		t.Fatalf("CompletedTotals empty: %v", err)
	}
	if totals.Total != 0 || totals.Count != 0 {
		t.Fatalf("expected zero totals, got %#v", totals)
	}

	mk := func(amount float64, dt models.DonationType, cause models.Cause) *models.Donation {
		d := &models.Donation{DonorName: "D", Email: "d@example.com", Amount: amount, DonationType: dt, Cause: cause}
		if err := repo.CreateDonation(ctx, d); err != nil {
			t.Fatalf("CreateDonation: %v", err)
		}
		return d
	}

	a := mk(50, models.DonationOneTime, models.CauseMissions)
	b := mk(25, models.DonationMonthly, models.CauseMissions)
	c := mk(10, models.DonationMonthly, models.CauseYouth)
	mk(999, models.DonationOneTime, models.CauseGeneral) // stays pending

	if a.Currency != "CAD" || a.PaymentStatus != models.PaymentPending || a.PaymentID != nil {
		t.Fatalf("defaults not applied: %#v", a)
	}

	bad := &models.Donation{DonorName: "D", Email: "d@example.com", Amount: 5, DonationType: models.DonationOneTime, Cause: models.CauseGeneral, PaymentStatus: "refunded"}
	if err := repo.CreateDonation(ctx, bad); err == nil {
		t.Fatalf("expected error for unknown payment status")
	}

	for _, d := range []*models.Donation{a, b, c} {
		if err := repo.CompleteDonation(ctx, d.ID, "pay_"+d.ID); err != nil {
			t.Fatalf("CompleteDonation: %v", err)
		}
	}
	if err := repo.CompleteDonation(ctx, "missing", "pay"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	totals, err = repo.CompletedTotals(ctx, "")
	if err != nil {
		t.Fatalf("CompletedTotals: %v", err)
	}
	if totals.Total != 85 || totals.Count != 3 {
		t.Fatalf("unexpected totals %#v", totals)
	}

	monthly, err := repo.CompletedTotals(ctx, models.DonationMonthly)
	if err != nil {
		t.Fatalf("CompletedTotals monthly: %v", err)
	}
	if monthly.Total != 35 || monthly.Count != 2 {
		t.Fatalf("unexpected monthly totals %#v", monthly)
	}

	byCause, err := repo.CompletedTotalsByCause(ctx)
	if err != nil {
		t.Fatalf("CompletedTotalsByCause: %v", err)
	}
	want := []models.CauseTotals{
		{Cause: models.CauseMissions, Total: 75, Count: 2},
		{Cause: models.CauseYouth, Total: 10, Count: 1},
	}
	if len(byCause) != len(want) {
		t.Fatalf("unexpected by-cause totals %#v", byCause)
	}
	for i := range want {
		if byCause[i] != want[i] {
			t.Fatalf("by-cause[%d] = %#v, want %#v", i, byCause[i], want[i])
		}
	}

	list, err := repo.ListDonations(ctx, 0)
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 donations, got %d", len(list))
	}
	for _, d := range list {
		if d.ID == a.ID {
			if d.PaymentStatus != models.PaymentCompleted || d.PaymentID == nil || *d.PaymentID != "pay_"+a.ID || d.UpdatedAt == nil {
				t.Fatalf("completed donation not updated: %#v", d)
			}
		}
	}

	if err := repo.CreateDonation(ctx, &models.Donation{DonorName: "Z", Email: "z@example.com", Amount: 0, DonationType: models.DonationOneTime, Cause: models.CauseGeneral}); err == nil {
		t.Fatalf("expected check constraint to reject zero amount")
	}
}

func TestPrayerRequests(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	public := &models.PrayerRequest{Name: "Pub", Email: strPtr("pub@example.com"), Request: "healing"}
	private := &models.PrayerRequest{Name: "Priv", Request: "family", IsPrivate: true}
	for _, p := range []*models.PrayerRequest{public, private} {
		if err := repo.CreatePrayerRequest(ctx, p); err != nil {
			t.Fatalf("CreatePrayerRequest: %v", err)
		}
	}
	if public.Status != models.PrayerPending {
		t.Fatalf("expected pending status, got %q", public.Status)
	}

	visible, err := repo.ListPrayerRequests(ctx, false, 0)
	if err != nil {
		t.Fatalf("ListPrayerRequests: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != public.ID {
		t.Fatalf("expected only the public request, got %#v", visible)
	}

	all, err := repo.ListPrayerRequests(ctx, true, 0)
	if err != nil {
		t.Fatalf("ListPrayerRequests private: %v", err)
	}
	if len(all) != 2 || all[0].ID != private.ID || all[0].Email != nil {
		t.Fatalf("unexpected full list %#v", all)
	}

	if err := repo.UpdatePrayerStatus(ctx, public.ID, models.PrayerAnswered); err != nil {
		t.Fatalf("UpdatePrayerStatus: %v", err)
	}
	if err := repo.UpdatePrayerStatus(ctx, "missing", models.PrayerAnswered); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cnt, err := repo.CountPrayerRequests(ctx)
	if err != nil {
		t.Fatalf("CountPrayerRequests: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 prayer requests, got %d", cnt)
	}
}

func TestSermonsAndStatusChecks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s := &models.Sermon{Title: "Faith", Speaker: "Pastor", Scripture: "Hebrews 11:1", VideoURL: strPtr("/uploads/videos/x.mp4")}
	if err := repo.CreateSermon(ctx, s); err != nil {
		t.Fatalf("CreateSermon: %v", err)
	}
	sermons, err := repo.ListSermons(ctx, 0)
	if err != nil {
		t.Fatalf("ListSermons: %v", err)
	}
	if len(sermons) != 1 || sermons[0].VideoURL == nil || sermons[0].AudioURL != nil || sermons[0].Date.IsZero() {
		t.Fatalf("unexpected sermons %#v", sermons)
	}

	for _, name := range []string{"first", "second"} {
		if err := repo.CreateStatusCheck(ctx, &models.StatusCheck{ClientName: name}); err != nil {
			t.Fatalf("CreateStatusCheck: %v", err)
		}
	}
	checks, err := repo.ListStatusChecks(ctx, 0)
	if err != nil {
		t.Fatalf("ListStatusChecks: %v", err)
	}
	if len(checks) != 2 || checks[0].ClientName != "second" {
		t.Fatalf("expected newest status check first, got %#v", checks)
	}
}
