// Package main initializes and starts the stub SmartCareer API server,
// setting up configuration, logging, repositories, services and handlers.
package main

import (
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/config"
	"github.com/smartcareer/smartcareer-go/internal/db"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/repository"
	"github.com/smartcareer/smartcareer-go/internal/server/handler/http"
	"github.com/smartcareer/smartcareer-go/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, .env and environment configuration.
	options := config.Parse()

	if version != "" {
		fmt.Printf("Build version: %s (%s)\n", version, buildDate)
	}

	// Initialize structured logging.
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// The in-memory repository backs the whole dataset; with a DSN the
	// user records move to Postgres while jobs, resumes and applications
	// stay in memory.
	memory := repository.NewMemory()
	var users service.UserRepository = memory
	if options.DatabaseDSN != "" {
		postgres, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		users = repository.NewPostgresUserRepository(postgres)
	}

	// Token bookkeeping and its background cleaner.
	tokens := service.NewTokenTable(15*time.Minute, 7*24*time.Hour)
	service.StartExpiredTokenCleaner(context.Background(), tokens, time.Hour, zapLogger)

	authService := service.NewAuthService(users, tokens, zapLogger)

	if options.DatabaseDSN == "" {
		seed(authService, memory, zapLogger)
	}

	// Create HTTP handlers and build the router.
	authHandler := &http.AuthHandler{Auth: authService}
	jobsHandler := &http.JobsHandler{Repo: memory}
	resumesHandler := &http.ResumesHandler{Repo: memory}
	applicationsHandler := &http.ApplicationsHandler{Repo: memory}

	router := http.NewRouter(authHandler, jobsHandler, resumesHandler, applicationsHandler, zapLogger)

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := nethttp.ListenAndServe(options.Addr, router); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

// seed fills the in-memory repository with demo accounts and postings so
// the client has something to log into out of the box.
func seed(auth *service.AuthService, memory *repository.Memory, log *zap.Logger) {
	ctx := context.Background()

	student, err := auth.Register(ctx, service.RegisterInput{
		Email:    "demo@smartcareer.uz",
		Password: "demo123",
		FullName: "Demo Student",
		Phone:    "+998901234567",
		Role:     models.RoleStudent,
	})
	if err != nil {
		log.Warn("seed student failed", zap.Error(err))
		return
	}

	company, err := auth.Register(ctx, service.RegisterInput{
		Email:       "hr@techcorp.uz",
		Password:    "demo123",
		FullName:    "TechCorp HR",
		Phone:       "+998901234568",
		Role:        models.RoleCompany,
		CompanyName: "TechCorp",
	})
	if err != nil {
		log.Warn("seed company failed", zap.Error(err))
		return
	}

	jobs := []models.Job{
		{Title: "Junior Go Developer", Company: "TechCorp", Location: "Tashkent",
			Description: "Build backend services in Go with Postgres.",
			Skills:      []string{"go", "postgresql", "docker"},
			SalaryMin:   800, SalaryMax: 1500, JobType: "full-time"},
		{Title: "Frontend Engineer", Company: "TechCorp", Location: "Tashkent",
			Description: "React dashboards for the hiring pipeline.",
			Skills:      []string{"javascript", "react", "css"},
			SalaryMin:   700, SalaryMax: 1400, JobType: "full-time", Remote: true},
		{Title: "Data Analyst Intern", Company: "TechCorp", Location: "Samarkand",
			Description: "SQL reporting and spreadsheets.",
			Skills:      []string{"sql", "excel"},
			JobType:     "internship"},
	}
	for _, j := range jobs {
		created := memory.CreateJob(company.ID, j)
		if _, err := memory.TransitionJob(created.ID, models.JobPublished); err != nil {
			log.Warn("seed publish failed", zap.Error(err))
		}
	}

	memory.CreateResume(student.ID, models.Resume{
		Title:    "My first resume",
		Headline: "Aspiring Go developer",
		Skills:   []string{"go", "sql"},
		Status:   models.ResumeReady,
	})

	log.Info("seeded demo data",
		zap.String("student", student.Email),
		zap.String("company", company.Email),
		zap.Int("jobs", len(jobs)),
	)
}
