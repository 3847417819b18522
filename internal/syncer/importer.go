package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/talentflow/internal/domain/model"
)

// Importer fetches candidate records from an external source.
type Importer interface {
	Fetch(ctx context.Context) ([]model.Candidate, error)
}

// NoopImporter reports a successful sync with nothing to import.
type NoopImporter struct{}

// Fetch returns no records.
func (NoopImporter) Fetch(context.Context) ([]model.Candidate, error) { return nil, nil }

// FileImporter reads a YAML or JSON list of candidates from Path.
type FileImporter struct {
	Path string
}

// importRecord is the on-disk shape of one candidate.
type importRecord struct {
	FirstName   string    `json:"firstName" yaml:"firstName"`
	LastName    string    `json:"lastName" yaml:"lastName"`
	Email       string    `json:"email" yaml:"email"`
	Phone       string    `json:"phone" yaml:"phone"`
	Position    string    `json:"position" yaml:"position"`
	Phase       int       `json:"phase" yaml:"phase"`
	Status      string    `json:"status" yaml:"status"`
	Source      string    `json:"source" yaml:"source"`
	AppliedDate time.Time `json:"appliedDate" yaml:"appliedDate"`
	ResumeURL   string    `json:"resumeUrl" yaml:"resumeUrl"`
	LinkedInURL string    `json:"linkedinUrl" yaml:"linkedinUrl"`
	Skills      string    `json:"skills" yaml:"skills"`
	Experience  *int      `json:"experience" yaml:"experience"`
	Notes       string    `json:"notes" yaml:"notes"`
}

func (r importRecord) candidate() model.Candidate {
	return model.Candidate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Position:    r.Position,
		Phase:       model.Phase(r.Phase),
		Status:      model.CandidateStatus(r.Status),
		Source:      model.Source(r.Source),
		AppliedDate: r.AppliedDate,
		ResumeURL:   r.ResumeURL,
		LinkedInURL: r.LinkedInURL,
		Skills:      r.Skills,
		Experience:  r.Experience,
		Notes:       r.Notes,
	}
}

// Fetch reads and decodes the file. The format is chosen by extension.
func (f FileImporter) Fetch(ctx context.Context) ([]model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	var records []importRecord
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	case ".json":
		err = json.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode import file %s: %w", f.Path, err)
	}

	out := make([]model.Candidate, 0, len(records))
	for _, r := range records {
		out = append(out, r.candidate())
	}
	return out, nil
}
