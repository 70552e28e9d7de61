package controller_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/mailblast-backend/internal/campaign"
	"github.com/unclebandit/mailblast-backend/internal/controller"
	"github.com/unclebandit/mailblast-backend/internal/handler"
	"github.com/unclebandit/mailblast-backend/internal/mailer"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

type okMailer struct {
	mu    sync.Mutex
	calls int
}

func (m *okMailer) Ping() error { return nil }

func (m *okMailer) Send(mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return nil
}

func newTestRouter(m mailer.Mailer) (*chi.Mux, *service.CampaignService) {
	svc := &service.CampaignService{
		Store:  campaign.NewStore(),
		Mailer: m,
	}
	cc := &controller.CampaignController{CampaignService: svc}
	ph := &handler.ProgressHandler{CampaignService: svc}

	r := chi.NewRouter()
	r.Post("/campaigns", cc.StartCampaign)
	r.Post("/campaigns/preview", cc.Preview)
	r.Get("/campaigns/{id}", ph.GetSnapshot)
	r.Get("/campaigns/{id}/events", ph.StreamProgress)
	r.Post("/campaigns/{id}/pause", cc.PauseCampaign)
	r.Post("/campaigns/{id}/resume", cc.ResumeCampaign)
	r.Post("/campaigns/{id}/stop", cc.StopCampaign)
	r.Get("/campaigns/{id}/log", cc.DownloadLog)
	return r, svc
}

func startJSON(t *testing.T, r http.Handler, n int) string {
	t.Helper()

	recipients := make([]map[string]string, n)
	for i := range recipients {
		recipients[i] = map[string]string{
			"email": fmt.Sprintf("user%d@example.com", i+1),
			"name":  fmt.Sprintf("User %d", i+1),
		}
	}
	body, _ := json.Marshal(map[string]any{
		"recipients":   recipients,
		"subject":      "Hi {name}",
		"body":         "<p>Hello {name}</p>",
		"sender_name":  "Ops",
		"sender_email": "ops@example.com",
		"batch_size":   10,
	})

	req := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		CampaignID string `json:"campaign_id"`
		Total      int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, n, resp.Total)
	require.NotEmpty(t, resp.CampaignID)
	return resp.CampaignID
}

func waitCompleted(t *testing.T, r http.Handler, id string) model.Snapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		req := httptest.NewRequest(http.MethodGet, "/campaigns/"+id, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap model.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		if model.IsTerminal(snap.Status) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("campaign stuck in status %s", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartCampaignJSONAndDownloadLog(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})
	id := startJSON(t, r, 2)

	snap := waitCompleted(t, r, id)
	require.Equal(t, model.StatusCompleted, snap.Status)
	require.Equal(t, 2, snap.Sent)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+id+"/log", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), id)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3) // header + 2 entries
}

func TestStartCampaignValidationError(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})

	body := `{"recipients":[{"email":"a@b.com"}],"subject":"s","body":"b","sender_email":""}`
	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "sender email")
}

func TestControlEndpointsUnknownID(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})

	for _, path := range []string{"/campaigns/missing/pause", "/campaigns/missing/resume", "/campaigns/missing/stop"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/campaigns/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestControlOnTerminalCampaignConflicts(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})
	id := startJSON(t, r, 1)
	waitCompleted(t, r, id)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/"+id+"/pause", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func csvUpload(t *testing.T, fields map[string]string, csvBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "recipients.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestStartCampaignMultipartUpload(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})

	body, contentType := csvUpload(t, map[string]string{
		"subject":         "Hi {name}",
		"body":            "<p>Hello {name}</p>",
		"sender_email":    "ops@example.com",
		"sender_name":     "Ops",
		"per_email_delay": "0",
		"batch_size":      "10",
		"batch_delay":     "0",
	}, "email,name\nalice@example.com,Alice\nbob@example.com,Bob\n")

	req := httptest.NewRequest(http.MethodPost, "/campaigns", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		CampaignID string `json:"campaign_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	snap := waitCompleted(t, r, resp.CampaignID)
	require.Equal(t, 2, snap.Total)
}

func TestPreviewRendersFirstRow(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})

	body, contentType := csvUpload(t, map[string]string{
		"subject": "Hi {name}",
		"body":    "<p>{name} from {city}</p>",
	}, "email,name,city\nalice@example.com,Alice,Nairobi\n")

	req := httptest.NewRequest(http.MethodPost, "/campaigns/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Hi Alice", resp.Subject)
	require.Equal(t, "<p>Alice from Nairobi</p>", resp.Body)
}

func TestProgressStreamDeliversCompleteEvent(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&okMailer{})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	id := startJSON(t, r, 2)

	resp, err := http.Get(srv.URL + "/campaigns/" + id + "/events")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sawProgress := false
	sawComplete := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: progress" {
			sawProgress = true
		}
		if line == "event: complete" {
			sawComplete = true
			break
		}
	}
	require.True(t, sawProgress)
	require.True(t, sawComplete)
}
