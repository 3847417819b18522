package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", String("k", "v"))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestLoggerFormats(t *testing.T) {
	Convey("Given a logger writing JSON to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, "json"), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with fields on a named child", func() {
			Named("store").With(Int64("candidate_id", 7)).Info(context.Background(), "candidate created",
				String("email", "ada@example.com"),
				Bool("duplicate", false),
				Duration("took", 5*time.Millisecond),
			)

			Convey("Then the record carries every field", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "candidate created")
				So(rec["component"], ShouldEqual, "store")
				So(rec["candidate_id"], ShouldEqual, float64(7))
				So(rec["email"], ShouldEqual, "ada@example.com")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")
			Get().Error(context.Background(), "shown")

			Convey("Then info records are dropped", func() {
				out := buf.String()
				So(strings.Contains(out, "hidden"), ShouldBeFalse)
				So(out, ShouldContainSubstring, "shown")
			})
		})
	})

	Convey("Given an unknown format", t, func() {
		err := InitWith(&bytes.Buffer{}, "xml")

		Convey("Then initialization fails", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log format")
		})
	})

	Convey("Given an unknown level", t, func() {
		So(Init(), ShouldBeNil)
		err := SetLevelString("verbose")

		Convey("Then it is rejected", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
