package pipeline_test

import (
	"testing"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/pipeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDayWindow(t *testing.T) {
	Convey("Given a time late in the evening in a fixed zone", t, func() {
		loc := time.FixedZone("UTC-5", -5*3600)
		at := time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC) // 22:30 on the 9th in UTC-5

		Convey("When the day window is computed", func() {
			start, end := pipeline.DayWindow(at, loc)

			Convey("Then it spans the local day", func() {
				So(start.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, loc)), ShouldBeTrue)
				So(end.Sub(start), ShouldEqual, 24*time.Hour)
			})
		})

		Convey("When no location is given", func() {
			start, _ := pipeline.DayWindow(at, nil)

			Convey("Then the local zone is used", func() {
				So(start.Location(), ShouldEqual, time.Local)
			})
		})
	})
}

func TestComputeStats(t *testing.T) {
	Convey("Given candidates across both phases and interviews around today", t, func() {
		start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 1)
		candidates := []model.Candidate{
			{ID: 1, Phase: 1, Status: model.StatusNew},
			{ID: 2, Phase: 1, Status: model.StatusRejected},
			{ID: 3, Phase: 2, Status: model.StatusFinalInterview},
			{ID: 4, Phase: 2, Status: model.StatusHired},
		}
		interviews := []model.Interview{
			{ID: 1, ScheduledDate: start},
			{ID: 2, ScheduledDate: start.Add(10 * time.Hour)},
			{ID: 3, ScheduledDate: end},
			{ID: 4, ScheduledDate: start.Add(-time.Minute)},
		}

		Convey("When stats are computed", func() {
			s := pipeline.ComputeStats(candidates, interviews, start, end)

			Convey("Then counts reflect phases, hires and the day window", func() {
				So(s.TotalCandidates, ShouldEqual, 4)
				So(s.Phase1Count, ShouldEqual, 2)
				So(s.Phase2Count, ShouldEqual, 2)
				So(s.HiredCount, ShouldEqual, 1)
				So(s.InterviewsToday, ShouldEqual, 2)
			})
		})

		Convey("When there is nothing", func() {
			s := pipeline.ComputeStats(nil, nil, start, end)

			Convey("Then everything is zero", func() {
				So(s, ShouldResemble, model.DashboardStats{})
			})
		})
	})
}

func TestBuildActivity(t *testing.T) {
	Convey("Given candidates, interviews and a sync run", t, func() {
		base := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		candidates := []model.Candidate{
			{ID: 1, FirstName: "Sarah", LastName: "Johnson", Status: model.StatusNew, LastUpdated: base},
			{ID: 2, FirstName: "Michael", LastName: "Chen", Status: model.StatusHired, LastUpdated: base.Add(3 * time.Hour)},
		}
		interviews := []model.Interview{
			{ID: 7, CandidateID: 2, Status: model.InterviewCompleted, Interviewer: "John Smith", ScheduledDate: base.Add(time.Hour)},
		}
		runs := []model.SyncRun{{Seq: 1, At: base.Add(2 * time.Hour), Imported: 3}}

		Convey("When the feed is built", func() {
			items := pipeline.BuildActivity(candidates, interviews, runs, 10)

			Convey("Then it is sorted newest first with readable actions", func() {
				So(len(items), ShouldEqual, 4)
				So(items[0].ID, ShouldEqual, "candidate-2")
				So(items[0].Action, ShouldEqual, "moved to Hired")
				So(items[1].ID, ShouldEqual, "sync-1")
				So(items[1].Count, ShouldEqual, 3)
				So(items[2].ID, ShouldEqual, "interview-7")
				So(items[2].Action, ShouldEqual, "Interview completed")
				So(items[2].CandidateName, ShouldEqual, "Michael Chen")
				So(items[2].Interviewer, ShouldEqual, "John Smith")
				So(items[3].CandidateName, ShouldEqual, "Sarah Johnson")
			})
		})

		Convey("When the limit is smaller than the feed", func() {
			items := pipeline.BuildActivity(candidates, interviews, runs, 2)

			Convey("Then only the newest entries are kept", func() {
				So(len(items), ShouldEqual, 2)
				So(items[0].ID, ShouldEqual, "candidate-2")
				So(items[1].ID, ShouldEqual, "sync-1")
			})
		})

		Convey("When there are more candidates than the limit", func() {
			var many []model.Candidate
			for i := int64(1); i <= 15; i++ {
				// Older ids get newer timestamps so only id order decides selection.
				many = append(many, model.Candidate{ID: i, Status: model.StatusNew, LastUpdated: base.Add(-time.Duration(i) * time.Minute)})
			}
			items := pipeline.BuildActivity(many, nil, nil, 0)

			Convey("Then the last ten by id are used", func() {
				So(len(items), ShouldEqual, pipeline.DefaultActivityLimit)
				So(items[0].ID, ShouldEqual, "candidate-6")
				So(items[9].ID, ShouldEqual, "candidate-15")
			})
		})
	})
}
