// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Phase is the pipeline stage bucket: 1 covers sourcing and screening, 2 interviewing and closing.
type Phase int

const (
	PhaseScreening    Phase = 1
	PhaseInterviewing Phase = 2
)

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	return p == PhaseScreening || p == PhaseInterviewing
}

// CandidateStatus is a candidate's position within its phase.
type CandidateStatus string

const (
	StatusNew                CandidateStatus = "New"
	StatusScreened           CandidateStatus = "Screened"
	StatusPhoneInterview     CandidateStatus = "Phone Interview"
	StatusRejected           CandidateStatus = "Rejected"
	StatusTechnicalInterview CandidateStatus = "Technical Interview"
	StatusFinalInterview     CandidateStatus = "Final Interview"
	StatusOfferExtended      CandidateStatus = "Offer Extended"
	StatusHired              CandidateStatus = "Hired"
)

var phaseStatuses = map[Phase][]CandidateStatus{ //nolint:gochecknoglobals // fixed status table
	PhaseScreening:    {StatusNew, StatusScreened, StatusPhoneInterview, StatusRejected},
	PhaseInterviewing: {StatusTechnicalInterview, StatusFinalInterview, StatusOfferExtended, StatusHired},
}

// StatusesFor returns the statuses allowed in phase p, in pipeline order.
func StatusesFor(p Phase) []CandidateStatus {
	return append([]CandidateStatus(nil), phaseStatuses[p]...)
}

// Phase returns the phase s belongs to, or 0 for an unknown status.
func (s CandidateStatus) Phase() Phase {
	for p, list := range phaseStatuses {
		for _, v := range list {
			if v == s {
				return p
			}
		}
	}
	return 0
}

// IsValid reports whether s is a known status in any phase.
func (s CandidateStatus) IsValid() bool { return s.Phase() != 0 }

// Allows reports whether status s may be held by a candidate in phase p.
func (p Phase) Allows(s CandidateStatus) bool {
	return s.Phase() == p
}

// Source is where a candidate came from.
type Source string

const (
	SourceLinkedIn Source = "LinkedIn"
	SourceIndeed   Source = "Indeed"
	SourceReferral Source = "Referral"
	SourceWebsite  Source = "Website"
)

// IsValid reports whether s is a known source.
func (s Source) IsValid() bool {
	switch s {
	case SourceLinkedIn, SourceIndeed, SourceReferral, SourceWebsite:
		return true
	}
	return false
}

// Candidate is an applicant tracked through the hiring pipeline.
type Candidate struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"firstName" validate:"required,max=100"`
	LastName    string          `json:"lastName" validate:"required,max=100"`
	Email       string          `json:"email" validate:"required,email,max=254"`
	Phone       string          `json:"phone,omitempty" validate:"omitempty,max=40"`
	Position    string          `json:"position" validate:"required,max=200"`
	Phase       Phase           `json:"phase" validate:"oneof=1 2"`
	Status      CandidateStatus `json:"status" validate:"candidate_status"`
	Source      Source          `json:"source" validate:"candidate_source"`
	AppliedDate time.Time       `json:"appliedDate"`
	LastUpdated time.Time       `json:"lastUpdated"`
	ResumeURL   string          `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL string          `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Skills      string          `json:"skills,omitempty"`
	Experience  *int            `json:"experience,omitempty" validate:"omitempty,min=0,max=70"`
	Notes       string          `json:"notes,omitempty"`
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ApplyDefaults fills omitted fields the way a fresh application starts out and
// stamps both timestamps with now.
func (c *Candidate) ApplyDefaults(now time.Time) {
	if c.Phase == 0 {
		c.Phase = PhaseScreening
	}
	if c.Status == "" {
		if list := phaseStatuses[c.Phase]; len(list) > 0 {
			c.Status = list[0]
		} else {
			c.Status = StatusNew
		}
	}
	if c.Source == "" {
		c.Source = SourceLinkedIn
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.AppliedDate.IsZero() {
		c.AppliedDate = now
	}
	c.LastUpdated = now
}

// CandidatePatch carries a partial candidate update. Nil fields are left untouched.
type CandidatePatch struct {
	FirstName   *string          `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string          `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email       *string          `json:"email" validate:"omitempty,email,max=254"`
	Phone       *string          `json:"phone" validate:"omitempty,max=40"`
	Position    *string          `json:"position" validate:"omitempty,min=1,max=200"`
	Phase       *Phase           `json:"phase" validate:"omitempty,oneof=1 2"`
	Status      *CandidateStatus `json:"status" validate:"omitempty,candidate_status"`
	Source      *Source          `json:"source" validate:"omitempty,candidate_source"`
	ResumeURL   *string          `json:"resumeUrl" validate:"omitempty,url"`
	LinkedInURL *string          `json:"linkedinUrl" validate:"omitempty,url"`
	Skills      *string          `json:"skills"`
	Experience  *int             `json:"experience" validate:"omitempty,min=0,max=70"`
	Notes       *string          `json:"notes"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CandidatePatch) IsEmpty() bool {
	return p == CandidatePatch{}
}

// Apply merges p into c and refreshes LastUpdated.
func (c *Candidate) Apply(p CandidatePatch, now time.Time) {
	setString(&c.FirstName, p.FirstName)
	setString(&c.LastName, p.LastName)
	if p.Email != nil {
		c.Email = strings.TrimSpace(*p.Email)
	}
	setString(&c.Phone, p.Phone)
	setString(&c.Position, p.Position)
	if p.Phase != nil {
		c.Phase = *p.Phase
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Source != nil {
		c.Source = *p.Source
	}
	setString(&c.ResumeURL, p.ResumeURL)
	setString(&c.LinkedInURL, p.LinkedInURL)
	setString(&c.Skills, p.Skills)
	if p.Experience != nil {
		v := *p.Experience
		c.Experience = &v
	}
	setString(&c.Notes, p.Notes)
	c.LastUpdated = now
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// CandidateFilter narrows candidate listings. Zero values match everything.
type CandidateFilter struct {
	Phase  Phase
	Status CandidateStatus
	Source Source
	Search string
}

// Matches reports whether c passes every set criterion. Search is a
// case-insensitive substring match over first name, last name, email and position.
func (f CandidateFilter) Matches(c Candidate) bool {
	if f.Phase != 0 && c.Phase != f.Phase {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Source != "" && c.Source != f.Source {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{c.FirstName, c.LastName, c.Email, c.Position} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
