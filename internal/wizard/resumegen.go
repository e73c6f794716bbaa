package wizard

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartcareer/smartcareer-go/internal/store"
)

type resumeBasicsView struct {
	Title    string `validate:"required"`
	FullName string `validate:"required"`
	Headline string `validate:"required"`
}

type resumeTargetView struct {
	Skills     []string `validate:"required,min=1,dive,required"`
	TargetRole string   `validate:"required"`
}

type resumeBackgroundView struct {
	Summary    string   `validate:"omitempty,max=2000"`
	Experience []string `validate:"omitempty,dive,required"`
	Education  []string `validate:"omitempty,dive,required"`
}

// NewResumeGeneration builds the AI resume wizard. The final submission
// calls the resumes store's Generate action once with the accumulated
// payload; the generation backend returns the finished document.
func NewResumeGeneration(resumes *store.ResumesStore, log *zap.Logger) (*Wizard[store.GeneratePayload], error) {
	steps := []Step[store.GeneratePayload]{
		{
			Name: "basics",
			Validate: func(f store.GeneratePayload) map[string]string {
				return Check(resumeBasicsView{Title: f.Title, FullName: f.FullName, Headline: f.Headline})
			},
		},
		{
			Name: "target",
			Validate: func(f store.GeneratePayload) map[string]string {
				return Check(resumeTargetView{Skills: f.Skills, TargetRole: f.TargetRole})
			},
		},
		{
			Name: "background",
			Validate: func(f store.GeneratePayload) map[string]string {
				return Check(resumeBackgroundView{Summary: f.Summary, Experience: f.Experience, Education: f.Education})
			},
		},
	}

	submit := func(ctx context.Context, f store.GeneratePayload) error {
		return resumes.Generate(ctx, f)
	}
	return New(steps, store.GeneratePayload{}, submit, log)
}
