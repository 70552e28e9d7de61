package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

// memTemplateRepo is an in-memory stand-in for the Postgres repository.
type memTemplateRepo struct {
	templates map[string]*model.EmailTemplate
	nextID    int
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{templates: map[string]*model.EmailTemplate{}}
}

func (m *memTemplateRepo) Save(t *model.EmailTemplate) error {
	now := time.Now()
	if existing, ok := m.templates[t.Name]; ok {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
	} else {
		m.nextID++
		t.ID = m.nextID
		t.CreatedAt = now
	}
	t.UpdatedAt = &now
	cp := *t
	m.templates[t.Name] = &cp
	return nil
}

func (m *memTemplateRepo) GetByName(name string) (*model.EmailTemplate, error) {
	t, ok := m.templates[name]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTemplateRepo) List() ([]model.EmailTemplate, error) {
	out := make([]model.EmailTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTemplateRepo) Delete(name string) (bool, error) {
	if _, ok := m.templates[name]; !ok {
		return false, nil
	}
	delete(m.templates, name)
	return true, nil
}

func TestTemplateServiceSaveAndGet(t *testing.T) {
	t.Parallel()

	svc := &service.TemplateService{Repo: newMemTemplateRepo()}

	saved, err := svc.Save("welcome", "Hi {name}", "<p>Hello {name}</p>", "Ops")
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, err := svc.Get("welcome")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Hi {name}", got.Subject)

	missing, err := svc.Get("nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestTemplateServiceSaveOverwritesByName(t *testing.T) {
	t.Parallel()

	svc := &service.TemplateService{Repo: newMemTemplateRepo()}

	first, err := svc.Save("welcome", "v1", "<p>v1</p>", "")
	require.NoError(t, err)
	second, err := svc.Save("welcome", "v2", "<p>v2</p>", "")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	got, err := svc.Get("welcome")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Subject)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTemplateServiceValidation(t *testing.T) {
	t.Parallel()

	svc := &service.TemplateService{Repo: newMemTemplateRepo()}

	var validation *appErrors.ValidationError
	_, err := svc.Save("", "s", "b", "")
	require.ErrorAs(t, err, &validation)
	_, err = svc.Save("n", "", "b", "")
	require.ErrorAs(t, err, &validation)
	_, err = svc.Save("n", "s", " ", "")
	require.ErrorAs(t, err, &validation)
}

func TestTemplateServiceDelete(t *testing.T) {
	t.Parallel()

	svc := &service.TemplateService{Repo: newMemTemplateRepo()}
	_, err := svc.Save("welcome", "s", "b", "")
	require.NoError(t, err)

	deleted, err := svc.Delete("welcome")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Delete("welcome")
	require.NoError(t, err)
	require.False(t, deleted)
}
