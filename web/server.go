// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the engagement dashboard, tables, and task views
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/models"
	"github.com/harperreed/engage/pipeline"
	"github.com/harperreed/engage/store"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	store     *store.Store
	cfg       *config.Config
	templates *template.Template
}

func NewServer(s *store.Store, cfg *config.Config) (*Server, error) {
	funcMap := template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format(models.DateFormat)
		},
		"month": func(t time.Time) string {
			return t.Format("Jan 2006")
		},
		"join": strings.Join,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		store:     s,
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

func (s *Server) Start(port int) error {
	http.HandleFunc("/", s.handleDashboard)
	http.HandleFunc("/engagements", s.handleEngagements)
	http.HandleFunc("/engagements/", s.handleEngagementDetail)
	http.HandleFunc("/tasks", s.handleTasks)
	http.HandleFunc("/download", s.handleDownload)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) derived() ([]pipeline.Engagement, store.Choices, error) {
	records, choices, err := s.store.Load()
	if err != nil {
		return nil, nil, err
	}
	derived := pipeline.Derive(records, time.Now(), pipeline.DeriveConfig{
		UrgentDays: s.cfg.UrgentDays,
		Complete:   s.cfg.CompleteMilestones,
	})
	return derived, choices, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	derived, _, err := s.derived()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := pipeline.Analyze(derived, pipeline.AnalyticsConfig{
		Success:      s.cfg.SuccessMilestones,
		Complete:     s.cfg.CompleteMilestones,
		Failed:       s.cfg.FailedMilestones,
		Inactive:     s.cfg.InactiveMilestones,
		DensifyTrend: s.cfg.DensifyTrend,
	})

	data := map[string]interface{}{
		"Stats":           stats,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleEngagements(w http.ResponseWriter, r *http.Request) {
	derived, choices, err := s.derived()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	spec := pipeline.FilterSpec{
		Regions:      q["region"],
		Countries:    q["country"],
		Sectors:      q["sector"],
		Programs:     q["program"],
		Milestones:   q["milestone"],
		Statuses:     q["status"],
		ESG:          q["esg"],
		Urgent:       q.Get("urgent") == "1",
		Upcoming:     q.Get("upcoming") == "1",
		UpcomingDays: s.cfg.UpcomingDays,
	}
	filtered := pipeline.Filter(derived, spec, time.Now())

	data := map[string]interface{}{
		"Engagements":     filtered,
		"Regions":         choices.Get(models.FieldRegion),
		"Sectors":         choices.Get(models.FieldSector),
		"Programs":        choices.Get(models.FieldProgram),
		"Milestones":      choices.Get(models.FieldMilestone),
		"Query":           q,
		"Title":           "Engagements",
		"ContentTemplate": "engagements-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleEngagementDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/engagements/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rec, err := s.store.GetByID(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data := map[string]interface{}{
		"Engagement":      rec,
		"ESG":             esgLabels(rec),
		"Interactions":    rec.SortedInteractions(),
		"Title":           rec.CompanyName,
		"ContentTemplate": "engagement-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	derived, _, err := s.derived()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	tasks := pipeline.UpcomingTasks(derived, time.Now(), pipeline.TaskConfig{
		UrgentDays:   s.cfg.UrgentDays,
		WarningDays:  s.cfg.WarningDays,
		UpcomingDays: s.cfg.UpcomingDays,
	})

	data := map[string]interface{}{
		"Tasks":           tasks,
		"Window":          s.cfg.UpcomingDays,
		"Title":           "Tasks",
		"ContentTemplate": "tasks-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// handleDownload streams the engagement CSV as stored on disk.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	records, _, err := s.store.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="engagements.csv"`)
	if err := store.WriteCSV(w, records); err != nil {
		log.Printf("CSV download error: %v", err)
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func esgLabels(rec *models.Engagement) []string {
	var labels []string
	if rec.Environmental {
		labels = append(labels, "Environmental")
	}
	if rec.Social {
		labels = append(labels, "Social")
	}
	if rec.Governance {
		labels = append(labels, "Governance")
	}
	return labels
}
