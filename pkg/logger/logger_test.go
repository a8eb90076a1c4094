package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitAndGet(t *testing.T) {
	Convey("Given the logger package", t, func() {
		Convey("When initialized", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				log := Get()
				So(log, ShouldNotBeNil)
				So(func() {
					log.Info(context.Background(), "hello", String("k", "v"))
				}, ShouldNotPanic)
			})

			Convey("Then Named returns a scoped logger", func() {
				So(Named("scope"), ShouldNotBeNil)
			})

			Convey("Then Sync is a no-op", func() {
				So(Sync(), ShouldBeNil)
			})
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("Then each carries its key and value", func() {
			So(String("s", "v"), ShouldResemble, Field{Key: "s", Value: "v"})
			So(Int("i", 1), ShouldResemble, Field{Key: "i", Value: 1})
			So(Int64("i64", int64(2)), ShouldResemble, Field{Key: "i64", Value: int64(2)})
			So(Float64("f", 1.5), ShouldResemble, Field{Key: "f", Value: 1.5})
			So(Any("a", true), ShouldResemble, Field{Key: "a", Value: true})

			err := errors.New("boom")
			So(Error(err), ShouldResemble, Field{Key: "error", Value: err})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level parsing", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels parse case-insensitively", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("INFO"), ShouldBeNil)
			So(SetLevelString("warn"), ShouldBeNil)
			So(SetLevelString("warning"), ShouldBeNil)
			So(SetLevelString(" error "), ShouldBeNil)
			So(SetLevelString(""), ShouldBeNil)
		})

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("Then SetLevel applies directly", func() {
			SetLevel(slog.LevelWarn)
			So(levelVar.Level(), ShouldEqual, slog.LevelWarn)
		})
	})
}
