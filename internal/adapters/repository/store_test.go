package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/talentflow/internal/adapters/repository"
	"github.com/okian/talentflow/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeClock advances one minute per call so lastUpdated changes are observable.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type storeFactory struct {
	name string
	open func(t *testing.T, clock *fakeClock) repository.Store
}

func factories() []storeFactory {
	return []storeFactory{
		{name: "MemStore", open: func(_ *testing.T, clock *fakeClock) repository.Store {
			return repository.NewMemStore(repository.WithClock(clock.Now))
		}},
		{name: "GormStore(sqlite)", open: func(t *testing.T, clock *fakeClock) repository.Store {
			t.Helper()
			dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
			s, err := repository.OpenSQLite(dsn, &gorm.Config{Logger: gormlogger.Discard}, repository.WithClock(clock.Now))
			if err != nil {
				t.Fatalf("failed to open sqlite: %v", err)
			}
			return s
		}},
	}
}

func candidate(first, last, email, position string) model.Candidate {
	return model.Candidate{FirstName: first, LastName: last, Email: email, Position: position}
}

func TestStoreCandidates(t *testing.T) {
	ctx := context.Background()
	for _, f := range factories() {
		Convey("Given an empty "+f.name, t, func() {
			clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
			s := f.open(t, clock)
			defer func() { _ = s.Close() }()

			Convey("When a candidate is created with only required fields", func() {
				created, err := s.CreateCandidate(ctx, candidate("Sarah", "Johnson", "sarah.johnson@email.com", "Frontend Developer"))
				So(err, ShouldBeNil)

				Convey("Then it gets an id, defaults and timestamps", func() {
					So(created.ID, ShouldEqual, 1)
					So(created.Phase, ShouldEqual, model.PhaseScreening)
					So(created.Status, ShouldEqual, model.StatusNew)
					So(created.Source, ShouldEqual, model.SourceLinkedIn)
					So(created.AppliedDate.IsZero(), ShouldBeFalse)
					So(created.LastUpdated.Equal(created.AppliedDate), ShouldBeTrue)
				})

				Convey("Then it can be read back", func() {
					got, err := s.GetCandidate(ctx, created.ID)
					So(err, ShouldBeNil)
					So(got.Email, ShouldEqual, "sarah.johnson@email.com")
					So(got.FullName(), ShouldEqual, "Sarah Johnson")
				})

				Convey("Then a second candidate with the same email in another case is rejected", func() {
					_, err := s.CreateCandidate(ctx, candidate("S", "J", "Sarah.Johnson@Email.com", "QA"))
					So(errors.Is(err, repository.ErrDuplicateEmail), ShouldBeTrue)
				})

				Convey("Then it can be found by email", func() {
					got, err := s.FindCandidateByEmail(ctx, "SARAH.JOHNSON@email.com")
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, created.ID)
					_, err = s.FindCandidateByEmail(ctx, "nobody@example.com")
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})

				Convey("And it is updated with a partial patch", func() {
					status := model.StatusScreened
					years := 5
					updated, err := s.UpdateCandidate(ctx, created.ID, model.CandidatePatch{Status: &status, Experience: &years})

					Convey("Then only patched fields change and lastUpdated moves forward", func() {
						So(err, ShouldBeNil)
						So(updated.Status, ShouldEqual, model.StatusScreened)
						So(*updated.Experience, ShouldEqual, 5)
						So(updated.Position, ShouldEqual, "Frontend Developer")
						So(updated.LastUpdated.After(created.LastUpdated), ShouldBeTrue)
						So(updated.AppliedDate.Equal(created.AppliedDate), ShouldBeTrue)
					})
				})

				Convey("And the email is patched to one that another candidate uses", func() {
					_, err := s.CreateCandidate(ctx, candidate("Michael", "Chen", "michael.chen@email.com", "Backend Developer"))
					So(err, ShouldBeNil)
					email := "michael.chen@email.com"
					_, err = s.UpdateCandidate(ctx, created.ID, model.CandidatePatch{Email: &email})

					Convey("Then the update is rejected", func() {
						So(errors.Is(err, repository.ErrDuplicateEmail), ShouldBeTrue)
					})
				})

				Convey("And it is deleted twice", func() {
					first, err1 := s.DeleteCandidate(ctx, created.ID)
					second, err2 := s.DeleteCandidate(ctx, created.ID)

					Convey("Then only the first delete reports existence", func() {
						So(err1, ShouldBeNil)
						So(err2, ShouldBeNil)
						So(first, ShouldBeTrue)
						So(second, ShouldBeFalse)
						_, err := s.GetCandidate(ctx, created.ID)
						So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					})
				})
			})

			Convey("When records carry times in another zone", func() {
				zone := time.FixedZone("UTC+5", 5*60*60)
				applied := time.Date(2026, 3, 30, 14, 0, 0, 0, zone)
				in := candidate("Lisa", "Zhang", "lisa.zhang@email.com", "Data Scientist")
				in.AppliedDate = applied
				created, err := s.CreateCandidate(ctx, in)
				So(err, ShouldBeNil)
				when := time.Date(2026, 4, 2, 16, 30, 0, 0, zone)
				iv, err := s.CreateInterview(ctx, model.Interview{CandidateID: created.ID, ScheduledDate: when, Interviewer: "Dana"})
				So(err, ShouldBeNil)

				Convey("Then they come back as the same instants in UTC", func() {
					got, err := s.GetCandidate(ctx, created.ID)
					So(err, ShouldBeNil)
					So(got.AppliedDate.Location(), ShouldEqual, time.UTC)
					So(got.LastUpdated.Location(), ShouldEqual, time.UTC)
					So(got.AppliedDate.Equal(applied), ShouldBeTrue)
					So(created.AppliedDate.Location(), ShouldEqual, time.UTC)

					gotIV, err := s.GetInterview(ctx, iv.ID)
					So(err, ShouldBeNil)
					So(gotIV.ScheduledDate.Location(), ShouldEqual, time.UTC)
					So(gotIV.ScheduledDate.Equal(when), ShouldBeTrue)
					So(iv.ScheduledDate.Location(), ShouldEqual, time.UTC)
				})
			})

			Convey("When unknown ids are used", func() {
				_, errGet := s.GetCandidate(ctx, 42)
				name := "x"
				_, errUpd := s.UpdateCandidate(ctx, 42, model.CandidatePatch{FirstName: &name})

				Convey("Then ErrNotFound is returned", func() {
					So(errors.Is(errGet, repository.ErrNotFound), ShouldBeTrue)
					So(errors.Is(errUpd, repository.ErrNotFound), ShouldBeTrue)
				})
			})

			Convey("When several candidates exist", func() {
				seed := []model.Candidate{
					candidate("Sarah", "Johnson", "sarah.johnson@email.com", "Frontend Developer"),
					candidate("Michael", "Chen", "michael.chen@email.com", "Backend Developer"),
					candidate("Emma", "Wilson", "emma.wilson@email.com", "Product Manager"),
				}
				seed[1].Phase, seed[1].Status, seed[1].Source = model.PhaseInterviewing, model.StatusHired, model.SourceReferral
				for _, c := range seed {
					_, err := s.CreateCandidate(ctx, c)
					So(err, ShouldBeNil)
				}

				Convey("Then listing is ordered by id and filters apply", func() {
					all, err := s.ListCandidates(ctx, model.CandidateFilter{})
					So(err, ShouldBeNil)
					So(len(all), ShouldEqual, 3)
					So(all[0].FirstName, ShouldEqual, "Sarah")
					So(all[2].FirstName, ShouldEqual, "Emma")

					phase2, _ := s.ListCandidates(ctx, model.CandidateFilter{Phase: model.PhaseInterviewing})
					So(len(phase2), ShouldEqual, 1)
					So(phase2[0].LastName, ShouldEqual, "Chen")

					referral, _ := s.ListCandidates(ctx, model.CandidateFilter{Source: model.SourceReferral, Status: model.StatusHired})
					So(len(referral), ShouldEqual, 1)

					n, err := s.CountCandidates(ctx)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 3)
				})

				Convey("Then search is case-insensitive over name, email and position", func() {
					byName, _ := s.ListCandidates(ctx, model.CandidateFilter{Search: "WILSON"})
					So(len(byName), ShouldEqual, 1)
					byPosition, _ := s.ListCandidates(ctx, model.CandidateFilter{Search: "developer"})
					So(len(byPosition), ShouldEqual, 2)
					byEmail, _ := s.ListCandidates(ctx, model.CandidateFilter{Search: "chen@"})
					So(len(byEmail), ShouldEqual, 1)
					none, _ := s.ListCandidates(ctx, model.CandidateFilter{Search: "zzz"})
					So(none, ShouldBeEmpty)
				})

				Convey("Then LIKE wildcards in a search term match literally", func() {
					_, err := s.CreateCandidate(ctx, candidate("John", "Doe", "john_doe@example.com", "QA Engineer"))
					So(err, ShouldBeNil)
					_, err = s.CreateCandidate(ctx, candidate("Johnny", "Xdoe", "johnxdoe@example.com", "QA Engineer"))
					So(err, ShouldBeNil)

					for _, term := range []string{"%", "_", "s_rah", `\`} {
						got, err := s.ListCandidates(ctx, model.CandidateFilter{Search: term})
						So(err, ShouldBeNil)
						So(got, ShouldBeEmpty)
					}
					underscore, _ := s.ListCandidates(ctx, model.CandidateFilter{Search: "john_doe"})
					So(len(underscore), ShouldEqual, 1)
					So(underscore[0].Email, ShouldEqual, "john_doe@example.com")
				})
			})
		})
	}
}

func TestStoreInterviews(t *testing.T) {
	ctx := context.Background()
	for _, f := range factories() {
		Convey("Given a "+f.name+" with one candidate", t, func() {
			clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
			s := f.open(t, clock)
			defer func() { _ = s.Close() }()
			c, err := s.CreateCandidate(ctx, candidate("David", "Park", "david.park@email.com", "DevOps Engineer"))
			So(err, ShouldBeNil)
			day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

			Convey("When an interview is created with required fields only", func() {
				iv, err := s.CreateInterview(ctx, model.Interview{CandidateID: c.ID, ScheduledDate: day.Add(14 * time.Hour), Interviewer: "John Smith"})
				So(err, ShouldBeNil)

				Convey("Then defaults are filled", func() {
					So(iv.ID, ShouldEqual, 1)
					So(iv.Type, ShouldEqual, model.InterviewPhone)
					So(iv.Duration, ShouldEqual, 60)
					So(iv.Status, ShouldEqual, model.InterviewScheduled)
				})

				Convey("And it is completed with a rating", func() {
					status := model.InterviewCompleted
					rating := 4
					updated, err := s.UpdateInterview(ctx, iv.ID, model.InterviewPatch{Status: &status, Rating: &rating})

					Convey("Then the change persists", func() {
						So(err, ShouldBeNil)
						So(updated.Status, ShouldEqual, model.InterviewCompleted)
						got, err := s.GetInterview(ctx, iv.ID)
						So(err, ShouldBeNil)
						So(*got.Rating, ShouldEqual, 4)
						So(got.ScheduledDate.Equal(iv.ScheduledDate), ShouldBeTrue)
					})
				})

				Convey("And its candidate is deleted", func() {
					existed, err := s.DeleteCandidate(ctx, c.ID)
					So(err, ShouldBeNil)
					So(existed, ShouldBeTrue)

					Convey("Then the interview is gone too", func() {
						_, err := s.GetInterview(ctx, iv.ID)
						So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					})
				})

				Convey("And it is deleted", func() {
					first, _ := s.DeleteInterview(ctx, iv.ID)
					second, _ := s.DeleteInterview(ctx, iv.ID)

					Convey("Then the second delete reports it missing", func() {
						So(first, ShouldBeTrue)
						So(second, ShouldBeFalse)
					})
				})
			})

			Convey("When an interview references a missing candidate", func() {
				_, err := s.CreateInterview(ctx, model.Interview{CandidateID: 99, ScheduledDate: day, Interviewer: "X"})
				other := int64(99)
				_, errUpd := s.UpdateInterview(ctx, 1, model.InterviewPatch{CandidateID: &other})

				Convey("Then it is rejected", func() {
					So(errors.Is(err, repository.ErrCandidateMissing), ShouldBeTrue)
					So(errors.Is(errUpd, repository.ErrNotFound), ShouldBeTrue)
				})
			})

			Convey("When interviews span several days", func() {
				times := []time.Time{
					day.Add(16 * time.Hour),
					day.Add(9 * time.Hour),
					day.Add(-time.Hour),
					day.Add(24 * time.Hour),
				}
				for _, at := range times {
					_, err := s.CreateInterview(ctx, model.Interview{CandidateID: c.ID, ScheduledDate: at, Interviewer: "Jane Doe"})
					So(err, ShouldBeNil)
				}

				Convey("Then the day window is half-open and ordered by time", func() {
					list, err := s.ListInterviews(ctx, model.InterviewFilter{From: day, To: day.AddDate(0, 0, 1)})
					So(err, ShouldBeNil)
					So(len(list), ShouldEqual, 2)
					So(list[0].ScheduledDate.Equal(day.Add(9*time.Hour)), ShouldBeTrue)
					So(list[1].ScheduledDate.Equal(day.Add(16*time.Hour)), ShouldBeTrue)
				})

				Convey("Then a window in another zone selects by instant", func() {
					loc := time.FixedZone("UTC+2", 2*3600)
					from := time.Date(2026, 4, 2, 0, 0, 0, 0, loc) // 22:00 UTC on the 1st
					list, err := s.ListInterviews(ctx, model.InterviewFilter{From: from, To: from.AddDate(0, 0, 1)})
					So(err, ShouldBeNil)
					So(len(list), ShouldEqual, 3)
				})

				Convey("Then candidate and status filters apply", func() {
					byCandidate, _ := s.ListInterviews(ctx, model.InterviewFilter{CandidateID: c.ID})
					So(len(byCandidate), ShouldEqual, 4)
					cancelled, _ := s.ListInterviews(ctx, model.InterviewFilter{Status: model.InterviewCancelled})
					So(cancelled, ShouldBeEmpty)
				})
			})
		})
	}
}

func TestGormStoreEmailIndexIgnoresCase(t *testing.T) {
	Convey("Given a GormStore over sqlite", t, func() {
		ctx := context.Background()
		dsn := fmt.Sprintf("file:email-index-%d?mode=memory&cache=shared", time.Now().UnixNano())
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
		So(err, ShouldBeNil)
		s, err := repository.NewGormStore(db, "sqlite")
		So(err, ShouldBeNil)
		defer func() { _ = s.Close() }()

		_, err = s.CreateCandidate(ctx, candidate("Ann", "Lee", "ann.lee@example.com", "Go Engineer"))
		So(err, ShouldBeNil)

		Convey("When a row with the same email in another case bypasses the store", func() {
			now := time.Now().UTC()
			err := db.Exec(`INSERT INTO candidates
				(first_name, last_name, email, position, phase, status, source, applied_date, last_updated)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				"Ann", "Lee", "ANN.LEE@example.com", "Go Engineer", 1, "New", "LinkedIn", now, now).Error

			Convey("Then the unique index rejects it", func() {
				So(err, ShouldNotBeNil)
				n, err := s.CountCandidates(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}

func TestMemStoreConcurrentCreates(t *testing.T) {
	Convey("Given a MemStore under concurrent writers", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = s.CreateCandidate(ctx, candidate("C", fmt.Sprint(i), fmt.Sprintf("c%d@example.com", i), "Engineer"))
			}(i)
		}
		wg.Wait()

		Convey("Then every candidate gets a distinct id", func() {
			all, err := s.ListCandidates(ctx, model.CandidateFilter{})
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 50)
			seen := map[int64]bool{}
			for _, c := range all {
				seen[c.ID] = true
			}
			So(len(seen), ShouldEqual, 50)
			So(all[49].ID, ShouldEqual, 50)
		})
	})
}
