// Package main is the interactive SmartCareer client shell. It wires the
// API client, session store, resource stores and wizards together the
// same way a UI layer would, and drives them from a small REPL.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/api"
	"github.com/smartcareer/smartcareer-go/internal/config"
	"github.com/smartcareer/smartcareer-go/internal/guard"
	"github.com/smartcareer/smartcareer-go/internal/models"
	"github.com/smartcareer/smartcareer-go/internal/session"
	"github.com/smartcareer/smartcareer-go/internal/store"
	"github.com/smartcareer/smartcareer-go/internal/wizard"
)

var (
	version   string
	buildDate string
)

// app bundles the stores a UI would observe.
type app struct {
	session      *session.Store
	jobs         *store.JobsStore
	resumes      *store.ResumesStore
	applications *store.ApplicationsStore
	guard        *guard.Guard
	log          *zap.Logger
}

func newApp(baseURL, vaultPath string, log *zap.Logger) (*app, error) {
	vault, err := session.OpenFileVault(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	client := api.New(baseURL, nil, log)
	sess := session.New(client, vault, log)
	client.WithTokenSource(sess)

	rules := []guard.Rule{
		{Prefix: "/admin", Roles: []models.Role{models.RoleAdmin}},
		{Prefix: "/company", Roles: []models.Role{models.RoleCompany}},
		{Prefix: "/dashboard"},
	}

	return &app{
		session:      sess,
		jobs:         store.NewJobs(client, sess, log),
		resumes:      store.NewResumes(client, sess, log),
		applications: store.NewApplications(client, sess, log),
		guard:        guard.New(sess, rules),
		log:          log,
	}, nil
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("smartcareer> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login <email> <password>, register, logout, whoami,")
			fmt.Println("  jobs [query], job <id>, match <resumeId>, resumes, generate,")
			fmt.Println("  apply <jobId> <resumeId>, applications, exit")
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <email> <password>")
				continue
			}
			user, err := a.session.Login(ctx, args[1], args[2])
			if err != nil {
				fmt.Println("Login failed:", a.session.Err().Message)
				continue
			}
			fmt.Printf("Welcome %s! Landing page: %s\n", user.FullName, guard.HomeRoute(user.Role))
		case "register":
			a.runRegistration(ctx, scanner)
		case "logout":
			a.session.Logout()
			fmt.Println("Logged out")
		case "whoami":
			if user := a.session.User(); user != nil {
				printJSON(user)
			} else {
				fmt.Println("Anonymous")
			}
		case "jobs":
			filters := models.JobFilters{}
			if len(args) > 1 {
				filters.Query = strings.Join(args[1:], " ")
			}
			if err := a.jobs.Search(ctx, filters, 1, 10); err != nil {
				fmt.Println("Search failed:", a.jobs.Err().Message)
				continue
			}
			state := a.jobs.SearchState()
			fmt.Printf("Page %d/%d (%d total)\n", state.Page, state.TotalPages, state.TotalCount)
			for _, j := range a.jobs.Items() {
				fmt.Printf("  %s  %-28s %s\n", j.ID, j.Title, j.Location)
			}
		case "job":
			if len(args) < 2 {
				fmt.Println("Usage: job <id>")
				continue
			}
			if err := a.jobs.Fetch(ctx, args[1]); err != nil {
				fmt.Println("Fetch failed:", a.jobs.Err().Message)
				continue
			}
			printJSON(a.jobs.Current())
		case "match":
			if len(args) < 2 {
				fmt.Println("Usage: match <resumeId>")
				continue
			}
			if err := a.jobs.MatchAgainstResume(ctx, args[1]); err != nil {
				fmt.Println("Match failed:", a.jobs.Err().Message)
				continue
			}
			for _, m := range a.jobs.Matches() {
				fmt.Printf("  %3d%%  %s\n", m.Score, m.JobID)
			}
		case "resumes":
			if err := a.resumes.List(ctx, nil); err != nil {
				fmt.Println("List failed:", a.resumes.Err().Message)
				continue
			}
			for _, r := range a.resumes.Items() {
				fmt.Printf("  %s  %-28s ats=%d\n", r.ID, r.Title, r.ATSScore)
			}
		case "generate":
			a.runResumeGeneration(ctx, scanner)
		case "apply":
			if len(args) < 3 {
				fmt.Println("Usage: apply <jobId> <resumeId>")
				continue
			}
			if err := a.applications.Apply(ctx, args[1], args[2], ""); err != nil {
				fmt.Println("Apply failed:", a.applications.Err().Message)
				continue
			}
			fmt.Println("Application submitted")
		case "applications":
			if err := a.applications.List(ctx, nil); err != nil {
				fmt.Println("List failed:", a.applications.Err().Message)
				continue
			}
			for _, ap := range a.applications.Items() {
				fmt.Printf("  %s  job=%s status=%s\n", ap.ID, ap.JobID, ap.Status)
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// runRegistration walks the three-step signup wizard on the terminal.
func (a *app) runRegistration(ctx context.Context, scanner *bufio.Scanner) {
	w, err := wizard.NewRegistration(a.session, a.log)
	if err != nil {
		fmt.Println("wizard error:", err)
		return
	}

	prompts := map[string][]string{
		"credentials": {"Email", "Password", "Confirm password"},
		"personal":    {"Full name", "Phone (+998...)", "Birth date (YYYY-MM-DD, optional)", "Region (optional)"},
		"role":        {"Role (student/company/admin)", "Company name (optional)"},
	}

	for {
		step := w.StepName()
		fmt.Printf("-- step %d/%d: %s --\n", w.StepIndex()+1, w.StepCount(), step)
		answers := ask(scanner, prompts[step])
		w.Update(func(f *session.RegisterPayload) {
			switch step {
			case "credentials":
				f.Email, f.Password, f.ConfirmPassword = answers[0], answers[1], answers[2]
			case "personal":
				f.FullName, f.Phone, f.BirthDate, f.Region = answers[0], answers[1], answers[2], answers[3]
			case "role":
				f.Role = models.Role(answers[0])
				f.CompanyName = answers[1]
			}
		})

		if w.StepIndex() == w.StepCount()-1 {
			if err := w.Submit(ctx); err != nil {
				printStepErrors(w.Errors(w.StepIndex()))
				if w.Err() != nil {
					fmt.Println("Registration failed:", w.Err().Message)
				}
				return
			}
			fmt.Println("Registered! Please log in.")
			return
		}
		if !w.Next() {
			printStepErrors(w.Errors(w.StepIndex()))
		}
	}
}

// runResumeGeneration walks the AI resume wizard.
func (a *app) runResumeGeneration(ctx context.Context, scanner *bufio.Scanner) {
	w, err := wizard.NewResumeGeneration(a.resumes, a.log)
	if err != nil {
		fmt.Println("wizard error:", err)
		return
	}

	for {
		step := w.StepName()
		fmt.Printf("-- step %d/%d: %s --\n", w.StepIndex()+1, w.StepCount(), step)
		switch step {
		case "basics":
			answers := ask(scanner, []string{"Resume title", "Full name", "Headline"})
			w.Update(func(f *store.GeneratePayload) {
				f.Title, f.FullName, f.Headline = answers[0], answers[1], answers[2]
			})
		case "target":
			answers := ask(scanner, []string{"Skills (comma separated)", "Target role"})
			w.Update(func(f *store.GeneratePayload) {
				f.Skills = splitList(answers[0])
				f.TargetRole = answers[1]
			})
		case "background":
			answers := ask(scanner, []string{"Summary (optional)", "Experience (comma separated, optional)"})
			w.Update(func(f *store.GeneratePayload) {
				f.Summary = answers[0]
				f.Experience = splitList(answers[1])
			})
		}

		if w.StepIndex() == w.StepCount()-1 {
			if err := w.Submit(ctx); err != nil {
				printStepErrors(w.Errors(w.StepIndex()))
				if w.Err() != nil {
					fmt.Println("Generation failed:", w.Err().Message)
				}
				return
			}
			fmt.Println("Resume generated:")
			printJSON(a.resumes.Current())
			return
		}
		if !w.Next() {
			printStepErrors(w.Errors(w.StepIndex()))
		}
	}
}

func ask(scanner *bufio.Scanner, prompts []string) []string {
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		fmt.Printf("%s: ", p)
		if !scanner.Scan() {
			break
		}
		answers[i] = strings.TrimSpace(scanner.Text())
	}
	return answers
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printStepErrors(errs map[string]string) {
	for field, msg := range errs {
		fmt.Printf("  %s: %s\n", field, msg)
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// main parses flags, restores any persisted session and starts the shell.
func main() {
	options := config.Parse()

	if version != "" {
		fmt.Printf("SmartCareer Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(options.APIBaseURL, options.VaultPath, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	if err := a.session.Restore(context.Background()); err == nil {
		if user := a.session.User(); user != nil {
			fmt.Printf("Welcome back, %s\n", user.FullName)
		}
	}

	a.repl()
}
