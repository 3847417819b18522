package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/talentflow/internal/adapters/repository"
	service "github.com/okian/talentflow/internal/app"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/validation"
	"github.com/okian/talentflow/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newService(opts ...service.Option) (*service.Service, *clock) {
	clk := &clock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	store := repository.NewMemStore(repository.WithClock(clk.Now))
	opts = append([]service.Option{
		service.WithClock(clk.Now),
		service.WithLocation(time.UTC),
		service.WithWorkerCount(2),
	}, opts...)
	return service.New(store, opts...), clk
}

func candidate(first, email string) model.Candidate {
	return model.Candidate{FirstName: first, LastName: "Tester", Email: email, Position: "Backend Engineer"}
}

func ptr[T any](v T) *T { return &v }

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc, _ := newService()

		Convey("When it is started twice and stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			h, err := svc.Health(ctx)
			So(err, ShouldBeNil)
			So(h.Status, ShouldEqual, "ok")
			So(h.Workers, ShouldEqual, 2)

			So(svc.Stop(ctx), ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)
		})

		Convey("When the start context is cancelled before events are published", func() {
			startCtx, cancel := context.WithCancel(ctx)
			So(svc.Start(startCtx), ShouldBeNil)
			cancel()

			_, err := svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
			So(err, ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then stopping still delivers the queued notification", func() {
				list, unread := svc.Notifications(ctx, false)
				So(len(list), ShouldEqual, 1)
				So(unread, ShouldEqual, 1)
				So(list[0].Title, ShouldEqual, "New Candidate Application")
			})
		})

		Convey("When stats are read before any data exists", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			stats, err := svc.Stats(ctx)
			So(err, ShouldBeNil)
			So(stats.TotalCandidates, ShouldEqual, 0)
			So(stats.SyncStatus, ShouldEqual, model.SyncSynced)
			So(stats.LastSync, ShouldBeNil)
		})
	})
}

func TestService_Candidates(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, clk := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When a candidate is created with only required fields", func() {
			c, err := svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
			So(err, ShouldBeNil)

			Convey("Then defaults and an id are filled in", func() {
				So(c.ID, ShouldEqual, 1)
				So(c.Phase, ShouldEqual, model.PhaseScreening)
				So(c.Status, ShouldEqual, model.StatusNew)
				So(c.Source, ShouldEqual, model.SourceLinkedIn)
				So(c.AppliedDate.Equal(clk.Now()), ShouldBeTrue)
			})

			Convey("Then stats count it immediately", func() {
				stats, err := svc.Stats(ctx)
				So(err, ShouldBeNil)
				So(stats.TotalCandidates, ShouldEqual, 1)
				So(stats.Phase1Count, ShouldEqual, 1)
			})

			Convey("Then a second candidate with the same email in another case is rejected", func() {
				_, err := svc.CreateCandidate(ctx, candidate("Ada", "ADA@example.com"))
				So(errors.Is(err, service.ErrDuplicateEmail), ShouldBeTrue)
			})

			Convey("Then moving it to phase 2 with a matching status updates stats", func() {
				clk.Advance(time.Minute)
				u, err := svc.UpdateCandidate(ctx, c.ID, model.CandidatePatch{
					Phase:  ptr(model.PhaseInterviewing),
					Status: ptr(model.StatusHired),
				})
				So(err, ShouldBeNil)
				So(u.LastUpdated.After(c.LastUpdated), ShouldBeTrue)

				stats, _ := svc.Stats(ctx)
				So(stats.Phase1Count, ShouldEqual, 0)
				So(stats.Phase2Count, ShouldEqual, 1)
				So(stats.HiredCount, ShouldEqual, 1)
			})

			Convey("Then changing only the phase is rejected", func() {
				_, err := svc.UpdateCandidate(ctx, c.ID, model.CandidatePatch{Phase: ptr(model.PhaseInterviewing)})
				So(errors.Is(err, service.ErrPhaseStatusMismatch), ShouldBeTrue)
				So(validation.Fields(err), ShouldContainKey, "status")
			})

			Convey("Then an empty patch is rejected", func() {
				_, err := svc.UpdateCandidate(ctx, c.ID, model.CandidatePatch{})
				So(err, ShouldEqual, service.ErrEmptyPatch)
			})

			Convey("Then deleting it twice reports not found the second time", func() {
				So(svc.DeleteCandidate(ctx, c.ID), ShouldBeNil)
				So(errors.Is(svc.DeleteCandidate(ctx, c.ID), service.ErrNotFound), ShouldBeTrue)
				stats, _ := svc.Stats(ctx)
				So(stats.TotalCandidates, ShouldEqual, 0)
			})
		})

		Convey("When a candidate has a status from the wrong phase", func() {
			c := candidate("Bob", "bob@example.com")
			c.Status = model.StatusHired
			_, err := svc.CreateCandidate(ctx, c)
			So(errors.Is(err, service.ErrPhaseStatusMismatch), ShouldBeTrue)
		})

		Convey("When required fields are missing", func() {
			_, err := svc.CreateCandidate(ctx, model.Candidate{Email: "not-an-email"})
			So(errors.Is(err, validation.ErrInvalid), ShouldBeTrue)
			fields := validation.Fields(err)
			So(fields, ShouldContainKey, "firstName")
			So(fields, ShouldContainKey, "email")
			So(fields, ShouldContainKey, "position")
		})

		Convey("When an unknown candidate is updated", func() {
			_, err := svc.UpdateCandidate(ctx, 99, model.CandidatePatch{Notes: ptr("x")})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When candidates are searched", func() {
			_, _ = svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
			_, _ = svc.CreateCandidate(ctx, candidate("Grace", "grace@navy.mil"))

			list, err := svc.ListCandidates(ctx, model.CandidateFilter{Search: "GRACE"})
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].FirstName, ShouldEqual, "Grace")
		})
	})

	Convey("Given a service without phase enforcement", t, func() {
		ctx := context.Background()
		svc, _ := newService(service.WithPhaseEnforcement(false))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		c := candidate("Bob", "bob@example.com")
		c.Status = model.StatusHired
		created, err := svc.CreateCandidate(ctx, c)
		So(err, ShouldBeNil)
		So(created.Phase, ShouldEqual, model.PhaseScreening)
		So(created.Status, ShouldEqual, model.StatusHired)
	})
}

func TestService_Interviews(t *testing.T) {
	Convey("Given a service with one candidate", t, func() {
		ctx := context.Background()
		svc, clk := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		c, err := svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
		So(err, ShouldBeNil)

		Convey("When an interview is scheduled for today", func() {
			iv, err := svc.CreateInterview(ctx, model.Interview{
				CandidateID:   c.ID,
				ScheduledDate: clk.Now().Add(2 * time.Hour),
				Interviewer:   "Sarah Johnson",
			})
			So(err, ShouldBeNil)

			Convey("Then defaults are filled in and today's count rises", func() {
				So(iv.Type, ShouldEqual, model.InterviewPhone)
				So(iv.Duration, ShouldEqual, 60)
				So(iv.Status, ShouldEqual, model.InterviewScheduled)

				stats, _ := svc.Stats(ctx)
				So(stats.InterviewsToday, ShouldEqual, 1)

				today, err := svc.InterviewsToday(ctx)
				So(err, ShouldBeNil)
				So(today, ShouldHaveLength, 1)
			})

			Convey("Then moving it to tomorrow updates the count", func() {
				_, err := svc.UpdateInterview(ctx, iv.ID, model.InterviewPatch{ScheduledDate: ptr(clk.Now().Add(24 * time.Hour))})
				So(err, ShouldBeNil)
				stats, _ := svc.Stats(ctx)
				So(stats.InterviewsToday, ShouldEqual, 0)

				tomorrow, err := svc.InterviewsForDate(ctx, clk.Now().Add(24*time.Hour))
				So(err, ShouldBeNil)
				So(tomorrow, ShouldHaveLength, 1)
			})

			Convey("Then deleting it updates the count", func() {
				So(svc.DeleteInterview(ctx, iv.ID), ShouldBeNil)
				So(errors.Is(svc.DeleteInterview(ctx, iv.ID), service.ErrNotFound), ShouldBeTrue)
				stats, _ := svc.Stats(ctx)
				So(stats.InterviewsToday, ShouldEqual, 0)
			})

			Convey("Then the day rolling over resets the count", func() {
				clk.Advance(24 * time.Hour)
				stats, _ := svc.Stats(ctx)
				So(stats.InterviewsToday, ShouldEqual, 0)
			})

			Convey("Then deleting the candidate removes its interviews", func() {
				So(svc.DeleteCandidate(ctx, c.ID), ShouldBeNil)
				_, err := svc.GetInterview(ctx, iv.ID)
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then it is listed for the candidate", func() {
				list, err := svc.CandidateInterviews(ctx, c.ID)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)

				_, err = svc.CandidateInterviews(ctx, 42)
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an interview references an unknown candidate", func() {
			_, err := svc.CreateInterview(ctx, model.Interview{
				CandidateID:   42,
				ScheduledDate: clk.Now(),
				Interviewer:   "Sarah Johnson",
			})
			So(errors.Is(err, service.ErrUnknownCandidate), ShouldBeTrue)
			So(errors.Is(err, validation.ErrInvalid), ShouldBeTrue)
		})

		Convey("When an interview has an out-of-range duration", func() {
			_, err := svc.CreateInterview(ctx, model.Interview{
				CandidateID:   c.ID,
				ScheduledDate: clk.Now(),
				Interviewer:   "Sarah Johnson",
				Duration:      5,
			})
			So(validation.Fields(err), ShouldContainKey, "duration")
		})
	})
}

func TestService_ActivityAndSync(t *testing.T) {
	Convey("Given a service with some history", t, func() {
		ctx := context.Background()
		svc, clk := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		a, _ := svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
		clk.Advance(time.Minute)
		_, _ = svc.CreateCandidate(ctx, candidate("Grace", "grace@example.com"))
		clk.Advance(time.Minute)
		_, err := svc.CreateInterview(ctx, model.Interview{
			CandidateID: a.ID, ScheduledDate: clk.Now().Add(-time.Hour), Interviewer: "Sam",
		})
		So(err, ShouldBeNil)

		Convey("When the activity feed is read", func() {
			feed, err := svc.Activity(ctx, 0)
			So(err, ShouldBeNil)

			Convey("Then it is sorted newest first", func() {
				So(feed, ShouldHaveLength, 3)
				So(feed[0].CandidateName, ShouldEqual, "Grace Tester")
				for i := 1; i < len(feed); i++ {
					So(feed[i-1].Timestamp.Before(feed[i].Timestamp), ShouldBeFalse)
				}
			})

			Convey("Then a limit truncates it", func() {
				short, err := svc.Activity(ctx, 1)
				So(err, ShouldBeNil)
				So(short, ShouldHaveLength, 1)
			})
		})

		Convey("When records are imported", func() {
			records := []model.Candidate{
				candidate("Ada", "Ada@Example.com"),
				candidate("Linus", "linus@example.com"),
				{FirstName: "Broken"},
			}
			n, err := svc.ImportCandidates(ctx, records)
			So(err, ShouldBeNil)

			Convey("Then only new valid emails are created", func() {
				So(n, ShouldEqual, 1)
				stats, _ := svc.Stats(ctx)
				So(stats.TotalCandidates, ShouldEqual, 3)
			})
		})

		Convey("When a sync is recorded", func() {
			at := clk.Now().Add(time.Minute)
			svc.SetSyncState(ctx, model.SyncSyncing, nil)
			stats, _ := svc.Stats(ctx)
			So(stats.SyncStatus, ShouldEqual, model.SyncSyncing)

			svc.SetSyncState(ctx, model.SyncSynced, &at)
			svc.RecordSync(ctx, model.SyncRun{At: at, Imported: 4})

			Convey("Then stats and the feed reflect it", func() {
				stats, _ := svc.Stats(ctx)
				So(stats.SyncStatus, ShouldEqual, model.SyncSynced)
				So(stats.LastSync.Equal(at), ShouldBeTrue)

				feed, _ := svc.Activity(ctx, 10)
				So(feed[0].Type, ShouldEqual, model.ActivitySync)
				So(feed[0].Action, ShouldEqual, "Synced 4 candidates")
			})

			Convey("Then a sync notification arrives", func() {
				So(eventually(func() bool {
					list, _ := svc.Notifications(ctx, false)
					for _, n := range list {
						if n.Title == "Data Sync Complete" {
							return true
						}
					}
					return false
				}), ShouldBeTrue)
			})
		})
	})
}

func TestService_Notifications(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, clk := newService(service.WithReminderLead(time.Hour))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		c, err := svc.CreateCandidate(ctx, candidate("Ada", "ada@example.com"))
		So(err, ShouldBeNil)

		Convey("When a candidate is created", func() {
			Convey("Then a high priority application notification arrives", func() {
				So(eventually(func() bool {
					_, unread := svc.Notifications(ctx, true)
					return unread == 1
				}), ShouldBeTrue)

				list, _ := svc.Notifications(ctx, false)
				So(list[0].Title, ShouldEqual, "New Candidate Application")
				So(list[0].Priority, ShouldEqual, model.PriorityHigh)

				So(svc.MarkNotificationRead(ctx, list[0].ID), ShouldBeNil)
				_, unread := svc.Notifications(ctx, true)
				So(unread, ShouldEqual, 0)
			})

			Convey("Then an unknown notification id is not found", func() {
				So(errors.Is(svc.MarkNotificationRead(ctx, "missing"), service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When reminders run twice for the same upcoming interview", func() {
			_, err := svc.CreateInterview(ctx, model.Interview{
				CandidateID: c.ID, ScheduledDate: clk.Now().Add(30 * time.Minute), Interviewer: "Sam",
			})
			So(err, ShouldBeNil)
			_, err = svc.CreateInterview(ctx, model.Interview{
				CandidateID: c.ID, ScheduledDate: clk.Now().Add(3 * time.Hour), Interviewer: "Sam",
			})
			So(err, ShouldBeNil)

			n1, err := svc.RemindUpcoming(ctx)
			So(err, ShouldBeNil)
			n2, _ := svc.RemindUpcoming(ctx)

			Convey("Then only the interview within the lead is reminded, once", func() {
				So(n1, ShouldEqual, 1)
				So(n2, ShouldEqual, 1)

				countReminders := func() int {
					list, _ := svc.Notifications(ctx, false)
					n := 0
					for _, item := range list {
						if item.Type == model.NotificationReminder {
							n++
						}
					}
					return n
				}
				So(eventually(func() bool { return countReminders() == 1 }), ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				So(countReminders(), ShouldEqual, 1)
			})
		})

		Convey("When all notifications are marked read", func() {
			So(eventually(func() bool {
				list, _ := svc.Notifications(ctx, false)
				return len(list) > 0
			}), ShouldBeTrue)
			svc.MarkAllNotificationsRead(ctx)
			list, unread := svc.Notifications(ctx, true)
			So(list, ShouldBeEmpty)
			So(unread, ShouldEqual, 0)
		})
	})
}
