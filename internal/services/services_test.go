package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ethidata/internal/config"
	"ethidata/internal/database"
	"ethidata/internal/domain"
	"ethidata/internal/notify"
	"ethidata/internal/rules"
	"ethidata/internal/store"
	"ethidata/internal/upload"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///" + path})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

// recordingSender captures outbound mail in place of SMTP. With fail set it
// rejects every delivery, standing in for a broken transport.
type recordingSender struct {
	mu   sync.Mutex
	fail bool
	sent []sentEmail
}

type sentEmail struct {
	to      string
	subject string
}

func (s *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errSMTPDown
	}
	s.sent = append(s.sent, sentEmail{to: to, subject: subject})
	return nil
}

var errSMTPDown = &smtpDownError{}

type smtpDownError struct{}

func (*smtpDownError) Error() string { return "smtp connection refused" }

func testNotifier(sender notify.Sender) *notify.Notifier {
	return notify.NewNotifier(sender, "team@example.com")
}

func testUploads(t *testing.T) *upload.Service {
	t.Helper()
	uploads, err := upload.NewService(&config.UploadConfig{
		Dir:         t.TempDir(),
		MaxFileSize: 5 * 1024 * 1024,
	})
	require.NoError(t, err)
	return uploads
}

// resumeFileHeader builds a real multipart file header the way it arrives from
// a form post.
func resumeFileHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 test resume"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["resume"][0]
}

func seedJob(t *testing.T, db *gorm.DB, slug string, active bool) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:       "Data Engineer",
		Slug:        slug,
		Department:  "Engineering",
		Location:    "Remote",
		Type:        "full-time",
		Description: "Build pipelines.",
		IsActive:    active,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func seedEvent(t *testing.T, db *gorm.DB, slug string, maxAttendees *int) *domain.Event {
	t.Helper()
	event := &domain.Event{
		Title:       "Data Ethics Webinar",
		Slug:        slug,
		Description: "An hour on responsible data.",
		Type:        "webinar",
		Date:        time.Now().Add(48 * time.Hour),
		Time:        "10:00 AM EST",
		Duration:    "1 hour",
		IsActive:    true,
	}
	if maxAttendees != nil {
		event.MaxAttendees = maxAttendees
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedResource(t *testing.T, db *gorm.DB, slug string, gated bool) *domain.Resource {
	t.Helper()
	resource := &domain.Resource{
		Title:       "Data Governance Guide",
		Slug:        slug,
		Description: "A practical guide.",
		Type:        "guide",
		FileURL:     "/files/" + slug + ".pdf",
		IsGated:     gated,
	}
	require.NoError(t, db.Create(resource).Error)
	return resource
}

func newTestEnv(t *testing.T, sender notify.Sender) (*gorm.DB, *store.Store, *rules.Engine, *notify.Notifier) {
	t.Helper()
	db := testDB(t)
	return db, store.New(db), rules.NewEngine(db), testNotifier(sender)
}
