// internal/service/template_service.go
package service

import (
    "strings"

    appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
    "github.com/unclebandit/mailblast-backend/internal/model"
    "github.com/unclebandit/mailblast-backend/internal/repository"
)

type TemplateService struct {
    Repo repository.TemplateRepositoryInterface
}

// Save validates and upserts a named template.
func (s *TemplateService) Save(name, subject, body, senderName string) (*model.EmailTemplate, error) {
    if strings.TrimSpace(name) == "" {
        return nil, appErrors.NewValidation("name", "template name is required")
    }
    if strings.TrimSpace(subject) == "" {
        return nil, appErrors.NewValidation("subject", "subject is required")
    }
    if strings.TrimSpace(body) == "" {
        return nil, appErrors.NewValidation("body", "body is required")
    }

    t := &model.EmailTemplate{
        Name:       name,
        Subject:    subject,
        Body:       body,
        SenderName: senderName,
    }
    if err := s.Repo.Save(t); err != nil {
        return nil, err
    }
    return t, nil
}

func (s *TemplateService) Get(name string) (*model.EmailTemplate, error) {
    return s.Repo.GetByName(name)
}

func (s *TemplateService) List() ([]model.EmailTemplate, error) {
    return s.Repo.List()
}

func (s *TemplateService) Delete(name string) (bool, error) {
    return s.Repo.Delete(name)
}
