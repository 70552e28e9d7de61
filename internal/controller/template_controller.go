// internal/controller/template_controller.go
package controller

import (
    "encoding/json"
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/mailblast-backend/internal/service"
)

type TemplateController struct {
    TemplateService *service.TemplateService
}

func (c *TemplateController) SaveTemplate(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Name       string `json:"name"`
        Subject    string `json:"subject"`
        Body       string `json:"body"`
        SenderName string `json:"sender_name"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    t, err := c.TemplateService.Save(body.Name, body.Subject, body.Body, body.SenderName)
    if err != nil {
        writeError(w, err)
        return
    }

    writeJSON(w, t)
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
    templates, err := c.TemplateService.List()
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, map[string]any{"templates": templates})
}

func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
    name := chi.URLParam(r, "name")

    t, err := c.TemplateService.Get(name)
    if err != nil {
        writeError(w, err)
        return
    }
    if t == nil {
        http.Error(w, "template not found", http.StatusNotFound)
        return
    }
    writeJSON(w, t)
}

func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
    name := chi.URLParam(r, "name")

    deleted, err := c.TemplateService.Delete(name)
    if err != nil {
        writeError(w, err)
        return
    }
    if !deleted {
        http.Error(w, "template not found", http.StatusNotFound)
        return
    }
    writeJSON(w, map[string]any{"deleted": name})
}
