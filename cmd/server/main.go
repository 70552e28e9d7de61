// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/mailblast-backend/internal/campaign"
	"github.com/unclebandit/mailblast-backend/internal/controller"
	"github.com/unclebandit/mailblast-backend/internal/db"
	"github.com/unclebandit/mailblast-backend/internal/events"
	"github.com/unclebandit/mailblast-backend/internal/handler"
	"github.com/unclebandit/mailblast-backend/internal/mailer"
	"github.com/unclebandit/mailblast-backend/internal/observability"
	"github.com/unclebandit/mailblast-backend/internal/repository"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	smtpHost := envOr("SMTP_HOST", "localhost")
	smtpPort := envInt("SMTP_PORT", 25)
	smtpTimeout := time.Duration(envInt("SMTP_TIMEOUT_SECONDS", 30)) * time.Second

	smtpMailer := mailer.NewSMTPMailer(smtpHost, smtpPort, smtpTimeout)

	// Optional RabbitMQ event bridge
	var publisher events.Publisher = events.Noop{}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		p, err := events.NewAMQPPublisher(url)
		if err != nil {
			log.Println("⚠️ RabbitMQ unavailable, campaign events disabled:", err)
		} else {
			defer p.Close()
			publisher = p
			log.Println("✅ Publishing campaign events to RabbitMQ")
		}
	}

	campaignService := &service.CampaignService{
		Store:  campaign.NewStore(),
		Mailer: smtpMailer,
		Events: publisher,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
	}

	progressHandler := &handler.ProgressHandler{
		CampaignService: campaignService,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.StartCampaign)
	r.Post("/campaigns/preview", campaignController.Preview)
	r.Get("/campaigns/{id}", progressHandler.GetSnapshot)
	r.Get("/campaigns/{id}/events", progressHandler.StreamProgress)
	r.Post("/campaigns/{id}/pause", campaignController.PauseCampaign)
	r.Post("/campaigns/{id}/resume", campaignController.ResumeCampaign)
	r.Post("/campaigns/{id}/stop", campaignController.StopCampaign)
	r.Get("/campaigns/{id}/log", campaignController.DownloadLog)

	// Template storage needs Postgres; the dispatcher itself does not.
	if os.Getenv("DB_HOST") != "" {
		conn, err := db.Connect()
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		templateController := &controller.TemplateController{
			TemplateService: &service.TemplateService{
				Repo: &repository.TemplateRepository{DB: conn},
			},
		}
		r.Post("/templates", templateController.SaveTemplate)
		r.Get("/templates", templateController.ListTemplates)
		r.Get("/templates/{name}", templateController.GetTemplate)
		r.Delete("/templates/{name}", templateController.DeleteTemplate)
		log.Println("✅ Connected to database, template storage enabled")
	} else {
		log.Println("⚠️ DB_HOST not set, template storage disabled")
	}

	r.Handle("/metrics", observability.Handler())

	addr := ":" + envOr("PORT", "8080")
	log.Println("🚀 Server running on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
