package models

// Patch types for partial updates. Nil fields are left untouched. The
// server always responds with the full canonical record, which is what
// clients adopt, never the patch itself.

// JobPatch is a partial update of a job posting.
type JobPatch struct {
	Title       *string   `json:"title,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Description *string   `json:"description,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	SalaryMin   *int      `json:"salaryMin,omitempty"`
	SalaryMax   *int      `json:"salaryMax,omitempty"`
	JobType     *string   `json:"jobType,omitempty"`
	Remote      *bool     `json:"remote,omitempty"`
}

// Apply merges the patch into j.
func (p JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Skills != nil {
		j.Skills = *p.Skills
	}
	if p.SalaryMin != nil {
		j.SalaryMin = *p.SalaryMin
	}
	if p.SalaryMax != nil {
		j.SalaryMax = *p.SalaryMax
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.Remote != nil {
		j.Remote = *p.Remote
	}
}

// ResumePatch is a partial update of a resume document.
type ResumePatch struct {
	Title    *string          `json:"title,omitempty"`
	Headline *string          `json:"headline,omitempty"`
	Summary  *string          `json:"summary,omitempty"`
	Skills   *[]string        `json:"skills,omitempty"`
	Sections *[]ResumeSection `json:"sections,omitempty"`
}

// Apply merges the patch into r.
func (p ResumePatch) Apply(r *Resume) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Headline != nil {
		r.Headline = *p.Headline
	}
	if p.Summary != nil {
		r.Summary = *p.Summary
	}
	if p.Skills != nil {
		r.Skills = *p.Skills
	}
	if p.Sections != nil {
		r.Sections = *p.Sections
	}
}
