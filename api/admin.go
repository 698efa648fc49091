package api

import (
	"mime/multipart"
	"net/http"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

// AdminRepos groups the collections the admin console reads.
type AdminRepos struct {
	Contacts      repository.ContactRepo
	Newsletter    repository.NewsletterRepo
	Registrations repository.RegistrationRepo
	Donations     repository.DonationRepo
	Prayers       repository.PrayerRepo
	Sermons       repository.SermonRepo
}

type AdminHandler struct {
	repos AdminRepos
	media *MediaHandler
}

func NewAdminHandler(repos AdminRepos, media *MediaHandler) *AdminHandler {
	return &AdminHandler{repos: repos, media: media}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		d   models.Dashboard
		err error
	)

	if d.Contacts.Total, err = h.repos.Contacts.CountContacts(ctx, ""); err != nil {
		internalError(w, r, "dashboard: count contacts", err)
		return
	}
	if d.Contacts.New, err = h.repos.Contacts.CountContacts(ctx, models.ContactNew); err != nil {
		internalError(w, r, "dashboard: count new contacts", err)
		return
	}
	if d.Subscribers, err = h.repos.Newsletter.CountSubscribers(ctx, models.SubscriptionActive); err != nil {
		internalError(w, r, "dashboard: count subscribers", err)
		return
	}
	if d.Donations, err = h.repos.Donations.CompletedTotals(ctx, ""); err != nil {
		internalError(w, r, "dashboard: donation totals", err)
		return
	}
	if d.Registrations, err = h.repos.Registrations.CountRegistrations(ctx); err != nil {
		internalError(w, r, "dashboard: count registrations", err)
		return
	}
	if d.PrayerRequests, err = h.repos.Prayers.CountPrayerRequests(ctx); err != nil {
		internalError(w, r, "dashboard: count prayer requests", err)
		return
	}

	writeJSON(w, d, http.StatusOK)
}

func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Contacts.ListContacts(r.Context(), adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list contacts", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AdminHandler) Donations(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Donations.ListDonations(r.Context(), adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list donations", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

// Subscribers lists every subscription, unsubscribed ones included.
func (h *AdminHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Newsletter.ListSubscribers(r.Context(), "", adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list subscribers", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AdminHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Registrations.ListRegistrations(r.Context(), "", adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list registrations", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AdminHandler) PrayerRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Prayers.ListPrayerRequests(r.Context(), true, adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list prayer requests", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AdminHandler) Sermons(w http.ResponseWriter, r *http.Request) {
	out, err := h.repos.Sermons.ListSermons(r.Context(), adminListLimit)
	if err != nil {
		internalError(w, r, "admin: list sermons", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

type sermonResponse struct {
	Message  string         `json:"message"`
	SermonID string         `json:"sermonId"`
	Sermon   *models.Sermon `json:"sermon"`
}

// CreateSermon stores a sermon with optional video and audio attachments.
func (h *AdminHandler) CreateSermon(w http.ResponseWriter, r *http.Request) {
	video, audio := h.media.kinds["video"], h.media.kinds["audio"]
	form, err := parseMultipart(w, r, video.maxBytes+audio.maxBytes+formOverhead)
	if err != nil {
		writeUploadError(w, r, "parse sermon form", err)
		return
	}
	defer form.RemoveAll()

	s := &models.Sermon{
		Title:       formValue(form, "title"),
		Speaker:     formValue(form, "speaker"),
		Scripture:   formValue(form, "scripture"),
		Description: optionalFormValue(form, "description"),
	}
	if s.Title == "" || s.Speaker == "" || s.Scripture == "" {
		writeError(w, http.StatusBadRequest, "title, speaker and scripture are required")
		return
	}

	// validate every attachment before any of them is stored
	type attachment struct {
		kind mediaKind
		fh   *multipart.FileHeader
		url  **string
	}
	var atts []attachment
	for _, a := range []attachment{
		{kind: video, url: &s.VideoURL},
		{kind: audio, url: &s.AudioURL},
	} {
		files := form.File[a.kind.name+"_file"]
		if len(files) == 0 {
			continue
		}
		a.fh = files[0]
		if _, err := h.media.check(a.kind, a.fh); err != nil {
			writeUploadError(w, r, "sermon: check "+a.kind.name, err)
			return
		}
		atts = append(atts, a)
	}

	for _, a := range atts {
		res, err := h.media.save(r.Context(), a.kind, a.fh)
		if err != nil {
			writeUploadError(w, r, "sermon: upload "+a.kind.name, err)
			return
		}
		*a.url = &res.URL
	}

	if err := h.repos.Sermons.CreateSermon(r.Context(), s); err != nil {
		internalError(w, r, "create sermon", err)
		return
	}

	logger.Info("sermon created", "id", s.ID, "video", s.VideoURL != nil, "audio", s.AudioURL != nil, "admin", adminUser(r.Context()))
	writeJSON(w, sermonResponse{Message: "Sermon created successfully", SermonID: s.ID, Sermon: s}, http.StatusOK)
}
