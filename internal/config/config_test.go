package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/talentflow/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.EnforcePhaseStatus, convey.ShouldBeTrue)
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.ActivityLimit, convey.ShouldEqual, 10)
			convey.So(cfg.SyncFrequency, convey.ShouldEqual, config.SyncHourly)
			convey.So(cfg.ReminderLead, convey.ShouldEqual, time.Hour)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the store is unknown", func() {
			cfg.Store = "mongo"
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrUnknownStore", func() {
				convey.So(errors.Is(err, config.ErrUnknownStore), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When postgres is selected without a database url", func() {
			cfg.Store = config.StorePostgres
			err := cfg.Validate()

			convey.Convey("Then validation fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "database_url")
			})
		})

		convey.Convey("When postgres is selected with a database url", func() {
			cfg.Store = config.StorePostgres
			cfg.DatabaseURL = "postgres://localhost/talentflow"

			convey.Convey("Then validation passes", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sync frequency is unknown", func() {
			cfg.SyncFrequency = "weekly"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the timezone cannot be loaded", func() {
			cfg.Timezone = "Mars/Olympus_Mons"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the timezone is UTC", func() {
			cfg.Timezone = "UTC"
			loc, err := cfg.Location()

			convey.Convey("Then the location resolves", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loc, convey.ShouldEqual, time.UTC)
			})
		})

		convey.Convey("When the reminder interval is too small", func() {
			cfg.ReminderInterval = time.Millisecond

			convey.Convey("Then validation fails", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestValidSyncFrequency(t *testing.T) {
	convey.Convey("Given the known sync frequencies", t, func() {
		for _, f := range []string{"manual", "15min", "1hour", "daily"} {
			convey.So(config.ValidSyncFrequency(f), convey.ShouldBeTrue)
		}
		convey.So(config.ValidSyncFrequency("hourly"), convey.ShouldBeFalse)
		convey.So(config.ValidSyncFrequency(""), convey.ShouldBeFalse)
	})
}
