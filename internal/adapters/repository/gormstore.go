package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/okian/talentflow/internal/domain/model"
)

type candidateRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	FirstName   string    `gorm:"not null"`
	LastName    string    `gorm:"not null"`
	Email       string    `gorm:"not null;uniqueIndex:idx_candidates_email_lower,expression:LOWER(email)"`
	Phone       string
	Position    string    `gorm:"not null"`
	Phase       int       `gorm:"not null;index"`
	Status      string    `gorm:"not null;index"`
	Source      string    `gorm:"not null"`
	AppliedDate time.Time `gorm:"not null"`
	LastUpdated time.Time `gorm:"not null"`
	ResumeURL   string
	LinkedInURL string `gorm:"column:linkedin_url"`
	Skills      string `gorm:"type:text"`
	Experience  *int
	Notes       string `gorm:"type:text"`

	Interviews []interviewRecord `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

func (candidateRecord) TableName() string { return "candidates" }

type interviewRecord struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CandidateID   int64     `gorm:"not null;index"`
	Type          string    `gorm:"not null"`
	ScheduledDate time.Time `gorm:"not null;index"`
	Duration      int       `gorm:"not null"`
	Interviewer   string    `gorm:"not null"`
	Status        string    `gorm:"not null;index"`
	Notes         string    `gorm:"type:text"`
	Rating        *int
}

func (interviewRecord) TableName() string { return "interviews" }

func toCandidateRecord(c model.Candidate) candidateRecord {
	return candidateRecord{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Position:    c.Position,
		Phase:       int(c.Phase),
		Status:      string(c.Status),
		Source:      string(c.Source),
		AppliedDate: c.AppliedDate.UTC(),
		LastUpdated: c.LastUpdated.UTC(),
		ResumeURL:   c.ResumeURL,
		LinkedInURL: c.LinkedInURL,
		Skills:      c.Skills,
		Experience:  c.Experience,
		Notes:       c.Notes,
	}
}

func (r candidateRecord) model() model.Candidate {
	return cloneCandidate(model.Candidate{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Position:    r.Position,
		Phase:       model.Phase(r.Phase),
		Status:      model.CandidateStatus(r.Status),
		Source:      model.Source(r.Source),
		AppliedDate: r.AppliedDate,
		LastUpdated: r.LastUpdated,
		ResumeURL:   r.ResumeURL,
		LinkedInURL: r.LinkedInURL,
		Skills:      r.Skills,
		Experience:  r.Experience,
		Notes:       r.Notes,
	})
}

func toInterviewRecord(i model.Interview) interviewRecord {
	return interviewRecord{
		ID:            i.ID,
		CandidateID:   i.CandidateID,
		Type:          string(i.Type),
		ScheduledDate: i.ScheduledDate.UTC(),
		Duration:      i.Duration,
		Interviewer:   i.Interviewer,
		Status:        string(i.Status),
		Notes:         i.Notes,
		Rating:        i.Rating,
	}
}

func (r interviewRecord) model() model.Interview {
	return cloneInterview(model.Interview{
		ID:            r.ID,
		CandidateID:   r.CandidateID,
		Type:          model.InterviewType(r.Type),
		ScheduledDate: r.ScheduledDate,
		Duration:      r.Duration,
		Interviewer:   r.Interviewer,
		Status:        model.InterviewStatus(r.Status),
		Notes:         r.Notes,
		Rating:        r.Rating,
	})
}

// GormStore is a relational Store. Emails are unique ignoring case.
type GormStore struct {
	db      *gorm.DB
	backend string
	opts    options
}

// OpenPostgres connects to PostgreSQL and migrates the schema.
func OpenPostgres(dsn string, cfg *gorm.Config, opts ...Option) (*GormStore, error) {
	return openGorm("postgres", postgres.Open(dsn), cfg, opts...)
}

// OpenSQLite opens (or creates) a SQLite database and migrates the schema.
// Use "file:<name>?mode=memory&cache=shared" for an in-memory database.
func OpenSQLite(dsn string, cfg *gorm.Config, opts ...Option) (*GormStore, error) {
	return openGorm("sqlite", sqlite.Open(dsn), cfg, opts...)
}

func openGorm(backend string, dialector gorm.Dialector, cfg *gorm.Config, opts ...Option) (*GormStore, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	cfg.TranslateError = true
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	return NewGormStore(db, backend, opts...)
}

// NewGormStore wraps an open connection and migrates the schema.
func NewGormStore(db *gorm.DB, backend string, opts ...Option) (*GormStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := db.AutoMigrate(&candidateRecord{}, &interviewRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db, backend: backend, opts: o}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`) //nolint:gochecknoglobals // immutable replacer

// emailTaken reports whether another candidate already uses email.
func emailTaken(tx *gorm.DB, email string, skip int64) (bool, error) {
	var n int64
	q := tx.Model(&candidateRecord{}).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if skip != 0 {
		q = q.Where("id <> ?", skip)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) ListCandidates(ctx context.Context, f model.CandidateFilter) (out []model.Candidate, err error) {
	defer func(start time.Time) { observe(s.backend, "list_candidates", start, err) }(time.Now())

	q := s.db.WithContext(ctx).Model(&candidateRecord{})
	if f.Phase != 0 {
		q = q.Where("phase = ?", int(f.Phase))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Source != "" {
		q = q.Where("source = ?", string(f.Source))
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR `+
			`LOWER(email) LIKE ? ESCAPE '\' OR LOWER(position) LIKE ? ESCAPE '\'`,
			like, like, like, like)
	}

	var recs []candidateRecord
	if err := q.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out = make([]model.Candidate, len(recs))
	for i, r := range recs {
		out[i] = r.model()
	}
	return out, nil
}

func (s *GormStore) GetCandidate(ctx context.Context, id int64) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(s.backend, "get_candidate", start, err) }(time.Now())

	var rec candidateRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return model.Candidate{}, notFound(err)
	}
	return rec.model(), nil
}

func (s *GormStore) FindCandidateByEmail(ctx context.Context, email string) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(s.backend, "find_candidate_by_email", start, err) }(time.Now())

	var rec candidateRecord
	err = s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&rec).Error
	if err != nil {
		return model.Candidate{}, notFound(err)
	}
	return rec.model(), nil
}

func (s *GormStore) CreateCandidate(ctx context.Context, c model.Candidate) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(s.backend, "create_candidate", start, err) }(time.Now())

	c.ApplyDefaults(s.opts.now())
	c.ID = 0
	rec := toCandidateRecord(c)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, c.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
		return duplicate(tx.Create(&rec).Error)
	})
	if err != nil {
		return model.Candidate{}, err
	}
	return rec.model(), nil
}

func (s *GormStore) UpdateCandidate(ctx context.Context, id int64, p model.CandidatePatch) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(s.backend, "update_candidate", start, err) }(time.Now())

	var out model.Candidate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec candidateRecord
		if err := tx.First(&rec, id).Error; err != nil {
			return notFound(err)
		}
		if p.Email != nil {
			taken, err := emailTaken(tx, *p.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateEmail
			}
		}
		c := rec.model()
		c.Apply(p, s.opts.now())
		rec = toCandidateRecord(c)
		if err := tx.Save(&rec).Error; err != nil {
			return duplicate(err)
		}
		out = rec.model()
		return nil
	})
	if err != nil {
		return model.Candidate{}, err
	}
	return out, nil
}

func (s *GormStore) DeleteCandidate(ctx context.Context, id int64) (existed bool, err error) {
	defer func(start time.Time) { observe(s.backend, "delete_candidate", start, err) }(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", id).Delete(&interviewRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&candidateRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		existed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

func (s *GormStore) CountCandidates(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&candidateRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *GormStore) ListInterviews(ctx context.Context, f model.InterviewFilter) (out []model.Interview, err error) {
	defer func(start time.Time) { observe(s.backend, "list_interviews", start, err) }(time.Now())

	q := s.db.WithContext(ctx).Model(&interviewRecord{})
	if f.CandidateID != 0 {
		q = q.Where("candidate_id = ?", f.CandidateID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if !f.From.IsZero() {
		q = q.Where("scheduled_date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("scheduled_date < ?", f.To.UTC())
	}

	var recs []interviewRecord
	if err := q.Order("scheduled_date ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out = make([]model.Interview, len(recs))
	for i, r := range recs {
		out[i] = r.model()
	}
	return out, nil
}

func (s *GormStore) GetInterview(ctx context.Context, id int64) (_ model.Interview, err error) {
	defer func(start time.Time) { observe(s.backend, "get_interview", start, err) }(time.Now())

	var rec interviewRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return model.Interview{}, notFound(err)
	}
	return rec.model(), nil
}

func candidateExists(tx *gorm.DB, id int64) (bool, error) {
	var n int64
	if err := tx.Model(&candidateRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) CreateInterview(ctx context.Context, i model.Interview) (_ model.Interview, err error) {
	defer func(start time.Time) { observe(s.backend, "create_interview", start, err) }(time.Now())

	i.ApplyDefaults()
	i.ID = 0
	rec := toInterviewRecord(i)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := candidateExists(tx, i.CandidateID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCandidateMissing
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return model.Interview{}, err
	}
	return rec.model(), nil
}

func (s *GormStore) UpdateInterview(ctx context.Context, id int64, p model.InterviewPatch) (_ model.Interview, err error) {
	defer func(start time.Time) { observe(s.backend, "update_interview", start, err) }(time.Now())

	var out model.Interview
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec interviewRecord
		if err := tx.First(&rec, id).Error; err != nil {
			return notFound(err)
		}
		if p.CandidateID != nil {
			ok, err := candidateExists(tx, *p.CandidateID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCandidateMissing
			}
		}
		i := rec.model()
		i.Apply(p)
		rec = toInterviewRecord(i)
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		out = rec.model()
		return nil
	})
	if err != nil {
		return model.Interview{}, err
	}
	return out, nil
}

func (s *GormStore) DeleteInterview(ctx context.Context, id int64) (_ bool, err error) {
	defer func(start time.Time) { observe(s.backend, "delete_interview", start, err) }(time.Now())

	res := s.db.WithContext(ctx).Delete(&interviewRecord{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
