package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ethidata/internal/config"
	"ethidata/internal/database"
	"ethidata/internal/domain"
	"ethidata/internal/notify"
	"ethidata/internal/ratelimit"
	"ethidata/internal/rules"
	"ethidata/internal/services"
	"ethidata/internal/store"
	"ethidata/internal/upload"
)

type testEnv struct {
	db      *gorm.DB
	handler http.Handler
}

type nopSender struct{}

func (nopSender) Send(to, subject, htmlBody, textBody string) error { return nil }

func newTestServer(t *testing.T, rateLimitEnabled bool) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///" + path})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := &config.Config{
		App: config.AppConfig{Name: "Ethidata API Test"},
		Upload: config.UploadConfig{
			Dir:         t.TempDir(),
			MaxFileSize: 5 * 1024 * 1024,
		},
		RateLimit: config.RateLimitConfig{Enabled: rateLimitEnabled},
	}

	uploads, err := upload.NewService(&cfg.Upload)
	require.NoError(t, err)

	notifier := notify.NewNotifier(nopSender{}, "team@example.com")
	st := store.New(db)
	engine := rules.NewEngine(db)
	limiter := ratelimit.New(ratelimit.NewMemoryStore())

	server := New(cfg, Deps{
		Limiter:      limiter,
		Health:       services.NewHealthService(db),
		Contacts:     services.NewContactService(db, st, notifier),
		Applications: services.NewApplicationService(db, engine, st, uploads, notifier),
		Events:       services.NewEventService(db, engine, st, notifier),
		Resources:    services.NewResourceService(db, engine, st, notifier),
		Jobs:         services.NewJobService(db),
		Blog:         services.NewBlogService(db),
	})

	return &testEnv{db: db, handler: server.Handler()}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type responseEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestContactEndpoint(t *testing.T) {
	env := newTestServer(t, false)

	t.Run("successful submission", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "Jane Doe",
			"email":   "jane@example.com",
			"subject": "Partnership inquiry",
			"message": "We would like to discuss a partnership.",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		got := decodeEnvelope(t, rec)
		assert.True(t, got.Success)
		assert.Nil(t, got.Error)

		var data struct {
			ID      uint   `json:"id"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(got.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, "Thank you for contacting us. We will get back to you soon!", data.Message)
	})

	t.Run("validation failure lists every field", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "J",
			"email":   "not-an-email",
			"subject": "Hi",
			"message": "short",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		got := decodeEnvelope(t, rec)
		assert.False(t, got.Success)
		require.NotNil(t, got.Error)
		assert.Equal(t, "Validation failed", got.Error.Message)
		assert.Len(t, got.Error.Details, 4)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("operator status update", func(t *testing.T) {
		contact := &domain.Contact{Name: "Jane", Email: "jane@example.com", Subject: "Hello", Message: "A message.", Status: domain.ContactStatusNew}
		require.NoError(t, env.db.Create(contact).Error)

		rec := env.do(t, http.MethodPatch, fmt.Sprintf("/api/contact/%d/status", contact.ID), map[string]string{"status": "read"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/contact/%d/status", contact.ID), map[string]string{"status": "archived"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid status", got.Error.Message)
	})
}

func TestApplicationEndpoint(t *testing.T) {
	env := newTestServer(t, false)
	job := &domain.Job{
		Title: "Data Engineer", Slug: "data-engineer", Department: "Engineering",
		Location: "Remote", Type: "full-time", Description: "Build pipelines.", IsActive: true,
	}
	require.NoError(t, env.db.Create(job).Error)

	postApplication := func(t *testing.T, withResume bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("jobId", fmt.Sprintf("%d", job.ID)))
		require.NoError(t, w.WriteField("name", "Jane Doe"))
		require.NoError(t, w.WriteField("email", "jane@example.com"))
		require.NoError(t, w.WriteField("phone", "+1234567890"))
		if withResume {
			fw, err := w.CreateFormFile("resume", "resume.pdf")
			require.NoError(t, err)
			_, err = fw.Write([]byte("%PDF-1.4 test resume"))
			require.NoError(t, err)
		}
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/applications", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("successful submission with resume", func(t *testing.T) {
		rec := postApplication(t, true)
		require.Equal(t, http.StatusCreated, rec.Code)

		got := decodeEnvelope(t, rec)
		assert.True(t, got.Success)

		var data struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(got.Data, &data))
		assert.Equal(t, "Your application has been submitted successfully!", data.Message)

		var app domain.Application
		require.NoError(t, env.db.Where("job_id = ?", job.ID).First(&app).Error)
		assert.Contains(t, app.ResumeURL, "/uploads/resumes/")
	})

	t.Run("missing resume", func(t *testing.T) {
		rec := postApplication(t, false)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decodeEnvelope(t, rec)
		assert.Equal(t, "Resume is required", got.Error.Message)
	})
}

func TestEventEndpoints(t *testing.T) {
	env := newTestServer(t, false)
	max := 1
	event := &domain.Event{
		Title: "Data Ethics Webinar", Slug: "data-ethics-webinar",
		Description: "An hour on responsible data.", Type: "webinar",
		Date: time.Now().Add(48 * time.Hour), Time: "10:00 AM EST", Duration: "1 hour",
		MaxAttendees: &max, IsActive: true,
	}
	require.NoError(t, env.db.Create(event).Error)

	t.Run("register", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/events/%d/register", event.ID), map[string]string{
			"name": "Jane Doe", "email": "jane@example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var data struct {
			Message    string `json:"message"`
			EventTitle string `json:"eventTitle"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.Equal(t, "Successfully registered for the event!", data.Message)
		assert.Equal(t, event.Title, data.EventTitle)
	})

	t.Run("full event", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/events/%d/register", event.ID), map[string]string{
			"name": "John Doe", "email": "john@example.com",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "This event is at full capacity", decodeEnvelope(t, rec).Error.Message)
	})

	t.Run("unknown event reads as not found", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/events/9999/register", map[string]string{
			"name": "Jane Doe", "email": "jane@example.com",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Event not found or no longer accepting registrations", decodeEnvelope(t, rec).Error.Message)
	})

	t.Run("get by slug", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/events/data-ethics-webinar", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/events/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("operator registrations list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d/registrations", event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.Equal(t, 1, data.Total)
	})
}

func TestResourceEndpoints(t *testing.T) {
	env := newTestServer(t, false)
	gated := &domain.Resource{
		Title: "Data Governance Guide", Slug: "data-governance-guide",
		Description: "A practical guide.", Type: "guide",
		FileURL: "/files/data-governance-guide.pdf", IsGated: true,
	}
	open := &domain.Resource{
		Title: "Quick Checklist", Slug: "quick-checklist",
		Description: "A one pager.", Type: "template",
		FileURL: "/files/quick-checklist.pdf",
	}
	require.NoError(t, env.db.Create(gated).Error)
	require.NoError(t, env.db.Create(open).Error)

	t.Run("gated download without email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/resources/%d/download", gated.ID), map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email is required for this download", decodeEnvelope(t, rec).Error.Message)
	})

	t.Run("gated download with email hides the url", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/resources/%d/download", gated.ID), map[string]string{
			"email": "jane@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			DownloadURL *string `json:"downloadUrl"`
			Message     string  `json:"message"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.Nil(t, data.DownloadURL)
		assert.Equal(t, "Download link has been sent to your email", data.Message)
	})

	t.Run("ungated download with empty body", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/resources/%d/download", open.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			DownloadURL *string `json:"downloadUrl"`
			Message     string  `json:"message"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		require.NotNil(t, data.DownloadURL)
		assert.Equal(t, open.FileURL, *data.DownloadURL)
		assert.Equal(t, "Download ready", data.Message)
	})

	t.Run("operator stats", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/resources/%d/stats", gated.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			TotalDownloads int `json:"totalDownloads"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
		assert.Equal(t, 1, data.TotalDownloads)
	})
}

func TestJobAndBlogEndpoints(t *testing.T) {
	env := newTestServer(t, false)
	require.NoError(t, env.db.Create(&domain.Job{
		Title: "Data Engineer", Slug: "data-engineer", Department: "Engineering",
		Location: "Remote", Type: "full-time", Description: "Build pipelines.", IsActive: true,
	}).Error)
	require.NoError(t, env.db.Create(&domain.BlogPost{
		Title: "Why Data Ethics Matters", Slug: "why-data-ethics-matters",
		Excerpt: "A short take.", Content: "Full body.", AuthorName: "Jane Doe",
		Category: "ethics", IsPublished: true,
	}).Error)

	rec := env.do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = env.do(t, http.MethodGet, "/api/jobs/data-engineer", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/blog?category=ethics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/blog/why-data-ethics-matters", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/blog/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t, false)

	rec := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "healthy", data.Status)
	assert.Equal(t, "Ethidata API Test", data.Service)
}

func TestFormTierRateLimit(t *testing.T) {
	env := newTestServer(t, true)

	submit := func() *httptest.ResponseRecorder {
		return env.do(t, http.MethodPost, "/api/contact", map[string]string{
			"name":    "Jane Doe",
			"email":   "jane@example.com",
			"subject": "Partnership inquiry",
			"message": "We would like to discuss a partnership.",
		})
	}

	// The form tier allows 10 submissions per window.
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusCreated, submit().Code, "submission %d", i+1)
	}

	rec := submit()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many form submissions, please try again later.", decodeEnvelope(t, rec).Error.Message)

	// Reads under the general tier still pass.
	rec = env.do(t, http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
