package seeder

import (
	"fmt"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
)

//nolint:gochecknoglobals // demo data tables
var (
	positions    = []string{"Software Engineer", "Data Scientist", "Product Manager", "QA Engineer"}
	sources      = []model.Source{model.SourceLinkedIn, model.SourceIndeed, model.SourceReferral, model.SourceWebsite}
	interviewers = []string{"John Smith", "Jane Doe", "Bob Wilson", "Alice Brown"}
	types        = []model.InterviewType{model.InterviewPhone, model.InterviewVideo, model.InterviewTechnical, model.InterviewInPerson}
	durations    = []int{30, 45, 60, 90}
	ivStatuses   = []model.InterviewStatus{model.InterviewScheduled, model.InterviewCompleted, model.InterviewCancelled}
)

func intp(v int) *int { return &v }

// NamedCandidates returns the five hand-written demo candidates.
func NamedCandidates() []model.Candidate {
	return []model.Candidate{
		{
			FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@email.com", Phone: "+1-555-0101",
			Position: "Frontend Developer", Phase: model.PhaseScreening, Status: model.StatusNew,
			Source: model.SourceLinkedIn, Skills: "React, TypeScript, CSS", Experience: intp(3),
			Notes: "Strong React skills, excellent portfolio",
		},
		{
			FirstName: "Michael", LastName: "Chen", Email: "michael.chen@email.com", Phone: "+1-555-0102",
			Position: "Backend Developer", Phase: model.PhaseScreening, Status: model.StatusScreened,
			Source: model.SourceIndeed, Skills: "Node.js, Python, PostgreSQL", Experience: intp(5),
			Notes: "Solid backend experience",
		},
		{
			FirstName: "Emma", LastName: "Wilson", Email: "emma.wilson@email.com", Phone: "+1-555-0103",
			Position: "Full Stack Developer", Phase: model.PhaseInterviewing, Status: model.StatusTechnicalInterview,
			Source: model.SourceReferral, Skills: "React, Node.js, AWS", Experience: intp(4),
			Notes: "Referred by senior engineer",
		},
		{
			FirstName: "David", LastName: "Park", Email: "david.park@email.com", Phone: "+1-555-0104",
			Position: "DevOps Engineer", Phase: model.PhaseInterviewing, Status: model.StatusFinalInterview,
			Source: model.SourceWebsite, Skills: "Docker, Kubernetes, AWS", Experience: intp(6),
			Notes: "Great cultural fit",
		},
		{
			FirstName: "Lisa", LastName: "Zhang", Email: "lisa.zhang@email.com", Phone: "+1-555-0105",
			Position: "UI/UX Designer", Phase: model.PhaseScreening, Status: model.StatusPhoneInterview,
			Source: model.SourceLinkedIn, Skills: "Figma, Adobe Creative Suite", Experience: intp(4),
			Notes: "Impressive design portfolio",
		},
	}
}

// GeneratedCandidates returns n synthetic candidates numbered after the named
// ones. Phases alternate and each status is valid for its phase. suffix keeps
// emails unique across runs; empty means the plain candidateN@email.com form.
func GeneratedCandidates(n int, suffix string) []model.Candidate {
	out := make([]model.Candidate, 0, max(n, 0))
	for i := 0; i < n; i++ {
		num := i + 6
		phase := model.PhaseScreening
		if i%2 == 1 {
			phase = model.PhaseInterviewing
		}
		statuses := model.StatusesFor(phase)
		local := fmt.Sprintf("candidate%d", num)
		if suffix != "" {
			local += "+" + suffix
		}
		out = append(out, model.Candidate{
			FirstName:  fmt.Sprintf("Candidate%d", num),
			LastName:   fmt.Sprintf("LastName%d", num),
			Email:      local + "@email.com",
			Phone:      fmt.Sprintf("+1-555-%04d", num),
			Position:   positions[i%len(positions)],
			Phase:      phase,
			Status:     statuses[(i/2)%len(statuses)],
			Source:     sources[i%len(sources)],
			Skills:     "Various technical skills",
			Experience: intp(i%10 + 1),
		})
	}
	return out
}

// Interviews builds demo interviews for candidateIDs relative to now: three
// fixed ones on the first candidates, then extra spread over the next week.
func Interviews(candidateIDs []int64, now time.Time, extra int) []model.Interview {
	if len(candidateIDs) == 0 {
		return nil
	}
	pick := func(i int) int64 { return candidateIDs[i%len(candidateIDs)] }

	out := []model.Interview{
		{
			CandidateID: pick(0), Type: model.InterviewPhone, ScheduledDate: now.Add(time.Hour),
			Duration: 30, Interviewer: "John Smith", Status: model.InterviewScheduled,
		},
		{
			CandidateID: pick(1), Type: model.InterviewTechnical, ScheduledDate: now.Add(-2 * time.Hour),
			Duration: 60, Interviewer: "Jane Doe", Status: model.InterviewCompleted,
			Rating: intp(4), Notes: "Strong technical skills",
		},
		{
			CandidateID: pick(2), Type: model.InterviewVideo, ScheduledDate: now.Add(24 * time.Hour),
			Duration: 45, Interviewer: "Bob Wilson", Status: model.InterviewScheduled,
		},
	}
	for i := 0; i < extra; i++ {
		out = append(out, model.Interview{
			CandidateID:   pick(i + 3),
			Type:          types[i%len(types)],
			ScheduledDate: now.Add(time.Duration((i*13)%(7*24)+1) * time.Hour).Truncate(15 * time.Minute),
			Duration:      durations[i%len(durations)],
			Interviewer:   interviewers[i%len(interviewers)],
			Status:        ivStatuses[i%len(ivStatuses)],
		})
	}
	return out
}
