// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailblast-backend/internal/csvsource"
    appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
    "github.com/unclebandit/mailblast-backend/internal/model"
    "github.com/unclebandit/mailblast-backend/internal/render"
    "github.com/unclebandit/mailblast-backend/internal/service"
)

const maxUploadBytes = 16 << 20 // 16MB CSV cap

type CampaignController struct {
    CampaignService *service.CampaignService
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
    var validation *appErrors.ValidationError
    var notFound *appErrors.ErrCampaignNotFound
    var terminal *appErrors.ErrCampaignTerminal

    switch {
    case errors.As(err, &validation):
        http.Error(w, err.Error(), http.StatusBadRequest)
    case errors.As(err, &notFound):
        http.Error(w, err.Error(), http.StatusNotFound)
    case errors.As(err, &terminal):
        http.Error(w, err.Error(), http.StatusConflict)
    default:
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}

func writeJSON(w http.ResponseWriter, v any) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(v)
}

// StartCampaign accepts either a multipart form with a CSV upload (the
// browser path) or a JSON body with inline recipient rows, and launches the
// campaign in the background.
func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
    var req service.StartCampaignRequest
    var err error

    if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
        req, err = parseJSONStart(r)
    } else {
        req, err = parseMultipartStart(r)
    }
    if err != nil {
        writeError(w, err)
        return
    }

    id, err := c.CampaignService.StartCampaign(req)
    if err != nil {
        writeError(w, err)
        return
    }

    writeJSON(w, map[string]any{
        "campaign_id": id,
        "total":       len(req.Recipients),
    })
}

type startCampaignBody struct {
    Recipients    []map[string]string `json:"recipients"`
    EmailColumn   string              `json:"email_column"`
    Subject       string              `json:"subject"`
    Body          string              `json:"body"`
    SenderName    string              `json:"sender_name"`
    SenderEmail   string              `json:"sender_email"`
    PerEmailDelay float64             `json:"per_email_delay"` // seconds
    BatchSize     int                 `json:"batch_size"`
    BatchDelay    float64             `json:"batch_delay"` // seconds
}

func parseJSONStart(r *http.Request) (service.StartCampaignRequest, error) {
    var body startCampaignBody
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        return service.StartCampaignRequest{}, appErrors.NewValidation("body", "invalid JSON: "+err.Error())
    }

    rows := make([]model.RecipientRow, len(body.Recipients))
    for i, m := range body.Recipients {
        rows[i] = model.RecipientRow(m)
    }

    emailColumn := body.EmailColumn
    if emailColumn == "" && len(rows) > 0 {
        emailColumn = detectEmailColumn(rows[0])
    }

    return service.StartCampaignRequest{
        Recipients:  rows,
        EmailColumn: emailColumn,
        Template: model.Template{
            Subject:     body.Subject,
            Body:        body.Body,
            SenderName:  body.SenderName,
            SenderEmail: body.SenderEmail,
        },
        Rate: rateFromSeconds(body.PerEmailDelay, body.BatchSize, body.BatchDelay),
    }, nil
}

func parseMultipartStart(r *http.Request) (service.StartCampaignRequest, error) {
    if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
        return service.StartCampaignRequest{}, appErrors.NewValidation("file", "invalid upload: "+err.Error())
    }

    file, _, err := r.FormFile("file")
    if err != nil {
        return service.StartCampaignRequest{}, appErrors.NewValidation("file", "CSV file is required")
    }
    defer file.Close()

    rows, _, detected, err := csvsource.ReadRecipients(file)
    if err != nil {
        return service.StartCampaignRequest{}, appErrors.NewValidation("file", err.Error())
    }

    emailColumn := r.FormValue("email_column")
    if emailColumn == "" {
        emailColumn = detected
    }

    delay := parseSeconds(r.FormValue("per_email_delay"), 1)
    batchSize := parseInt(r.FormValue("batch_size"), 50)
    batchDelay := parseSeconds(r.FormValue("batch_delay"), 30)

    return service.StartCampaignRequest{
        Recipients:  rows,
        EmailColumn: emailColumn,
        Template: model.Template{
            Subject:     r.FormValue("subject"),
            Body:        r.FormValue("body"),
            SenderName:  r.FormValue("sender_name"),
            SenderEmail: r.FormValue("sender_email"),
        },
        Rate: model.RateConfig{
            PerEmailDelay: delay,
            BatchSize:     batchSize,
            BatchDelay:    batchDelay,
        },
    }, nil
}

func detectEmailColumn(row model.RecipientRow) string {
    for k := range row {
        if strings.Contains(strings.ToLower(k), "email") {
            return k
        }
    }
    return ""
}

func rateFromSeconds(delay float64, batchSize int, batchDelay float64) model.RateConfig {
    if batchSize == 0 {
        batchSize = 50
    }
    return model.RateConfig{
        PerEmailDelay: time.Duration(delay * float64(time.Second)),
        BatchSize:     batchSize,
        BatchDelay:    time.Duration(batchDelay * float64(time.Second)),
    }
}

func parseSeconds(s string, def float64) time.Duration {
    if s == "" {
        return time.Duration(def * float64(time.Second))
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return time.Duration(def * float64(time.Second))
    }
    return time.Duration(v * float64(time.Second))
}

func parseInt(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// Preview renders subject and body against the first CSV row without sending
// anything.
func (c *CampaignController) Preview(w http.ResponseWriter, r *http.Request) {
    if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
        writeError(w, appErrors.NewValidation("file", "invalid upload: "+err.Error()))
        return
    }

    file, _, err := r.FormFile("file")
    if err != nil {
        writeError(w, appErrors.NewValidation("file", "CSV file is required"))
        return
    }
    defer file.Close()

    rows, _, _, err := csvsource.ReadRecipients(file)
    if err != nil {
        writeError(w, appErrors.NewValidation("file", err.Error()))
        return
    }
    if len(rows) == 0 {
        writeError(w, appErrors.NewValidation("file", "no data rows in CSV file"))
        return
    }

    first := rows[0]
    writeJSON(w, map[string]any{
        "subject":     render.Render(r.FormValue("subject"), first),
        "body":        render.Render(r.FormValue("body"), first),
        "sample_data": first,
    })
}

func (c *CampaignController) PauseCampaign(w http.ResponseWriter, r *http.Request) {
    c.control(w, r, c.CampaignService.Pause, "paused")
}

func (c *CampaignController) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
    c.control(w, r, c.CampaignService.Resume, "resumed")
}

func (c *CampaignController) StopCampaign(w http.ResponseWriter, r *http.Request) {
    c.control(w, r, c.CampaignService.Stop, "stop requested")
}

func (c *CampaignController) control(w http.ResponseWriter, r *http.Request, action func(string) error, result string) {
    id := chi.URLParam(r, "id")
    if err := action(id); err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, map[string]any{"campaign_id": id, "result": result})
}

// DownloadLog streams the audit log as a CSV attachment.
func (c *CampaignController) DownloadLog(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    data, err := c.CampaignService.ExportLog(id)
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "text/csv")
    w.Header().Set("Content-Disposition",
        fmt.Sprintf("attachment; filename=email_campaign_log_%s.csv", id))
    w.Write(data)
}
