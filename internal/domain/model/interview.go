package model

import "time"

// InterviewType is the interview format.
type InterviewType string

const (
	InterviewPhone     InterviewType = "Phone"
	InterviewVideo     InterviewType = "Video"
	InterviewInPerson  InterviewType = "In-Person"
	InterviewTechnical InterviewType = "Technical"
)

// IsValid reports whether t is a known interview type.
func (t InterviewType) IsValid() bool {
	switch t {
	case InterviewPhone, InterviewVideo, InterviewInPerson, InterviewTechnical:
		return true
	}
	return false
}

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "Scheduled"
	InterviewCompleted InterviewStatus = "Completed"
	InterviewCancelled InterviewStatus = "Cancelled"
)

// IsValid reports whether s is a known interview status.
func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	}
	return false
}

// Default interview length in minutes.
const DefaultInterviewDuration = 60

// Interview is a scheduled conversation with a candidate.
type Interview struct {
	ID            int64           `json:"id"`
	CandidateID   int64           `json:"candidateId" validate:"required,gt=0"`
	Type          InterviewType   `json:"type" validate:"interview_type"`
	ScheduledDate time.Time       `json:"scheduledDate" validate:"required"`
	Duration      int             `json:"duration" validate:"min=15,max=480"`
	Interviewer   string          `json:"interviewer" validate:"required,max=100"`
	Status        InterviewStatus `json:"status" validate:"interview_status"`
	Notes         string          `json:"notes,omitempty"`
	Rating        *int            `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// ApplyDefaults fills omitted type, duration and status.
func (i *Interview) ApplyDefaults() {
	if i.Type == "" {
		i.Type = InterviewPhone
	}
	if i.Duration == 0 {
		i.Duration = DefaultInterviewDuration
	}
	if i.Status == "" {
		i.Status = InterviewScheduled
	}
}

// InterviewPatch carries a partial interview update.
type InterviewPatch struct {
	CandidateID   *int64           `json:"candidateId" validate:"omitempty,gt=0"`
	Type          *InterviewType   `json:"type" validate:"omitempty,interview_type"`
	ScheduledDate *time.Time       `json:"scheduledDate"`
	Duration      *int             `json:"duration" validate:"omitempty,min=15,max=480"`
	Interviewer   *string          `json:"interviewer" validate:"omitempty,min=1,max=100"`
	Status        *InterviewStatus `json:"status" validate:"omitempty,interview_status"`
	Notes         *string          `json:"notes"`
	Rating        *int             `json:"rating" validate:"omitempty,min=1,max=5"`
}

// IsEmpty reports whether the patch changes nothing.
func (p InterviewPatch) IsEmpty() bool {
	return p == InterviewPatch{}
}

// Apply merges p into i.
func (i *Interview) Apply(p InterviewPatch) {
	if p.CandidateID != nil {
		i.CandidateID = *p.CandidateID
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.ScheduledDate != nil {
		i.ScheduledDate = *p.ScheduledDate
	}
	if p.Duration != nil {
		i.Duration = *p.Duration
	}
	setString(&i.Interviewer, p.Interviewer)
	if p.Status != nil {
		i.Status = *p.Status
	}
	setString(&i.Notes, p.Notes)
	if p.Rating != nil {
		v := *p.Rating
		i.Rating = &v
	}
}

// InterviewFilter narrows interview listings. From/To bound ScheduledDate as [From, To).
type InterviewFilter struct {
	CandidateID int64
	Status      InterviewStatus
	From        time.Time
	To          time.Time
}

// Matches reports whether i passes every set criterion.
func (f InterviewFilter) Matches(i Interview) bool {
	if f.CandidateID != 0 && i.CandidateID != f.CandidateID {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && i.ScheduledDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !i.ScheduledDate.Before(f.To) {
		return false
	}
	return true
}
