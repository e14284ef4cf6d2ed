package opener_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ocu/internal/adapters/opener"
	"github.com/okian/ocu/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

type scriptedRunner struct {
	fail  map[int]error
	calls [][]string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil, r.fail[len(r.calls)]
}

const meetURL = "https://meet.google.com/abc-defg-hij"

func TestOpener_Open(t *testing.T) {
	Convey("Given direct Google Meet launching is enabled", t, func() {
		store := config.NewStore(config.MapLookup{
			config.NameUseDirectGMeet: "true",
			config.NameGMeetAppName:   "Meet",
		})
		runner := &scriptedRunner{}
		o := opener.New(store, runner)

		Convey("When opening a Meet link", func() {
			err := o.Open(context.Background(), meetURL)

			Convey("Then the named app should be used", func() {
				So(err, ShouldBeNil)
				So(runner.calls, ShouldResemble, [][]string{{"open", "-a", "Meet", meetURL}})
			})
		})

		Convey("When opening a Zoom link", func() {
			err := o.Open(context.Background(), "https://zoom.us/j/1")

			Convey("Then the default handler should be used", func() {
				So(err, ShouldBeNil)
				So(runner.calls, ShouldResemble, [][]string{{"open", "https://zoom.us/j/1"}})
			})
		})

		Convey("When the native app fails", func() {
			runner.fail = map[int]error{1: errors.New("app not found")}
			err := o.Open(context.Background(), meetURL)

			Convey("Then it should fall back to the default handler", func() {
				So(err, ShouldBeNil)
				So(len(runner.calls), ShouldEqual, 2)
				So(runner.calls[1], ShouldResemble, []string{"open", meetURL})
			})
		})

		Convey("When the fallback fails too", func() {
			runner.fail = map[int]error{1: errors.New("app not found"), 2: errors.New("no handler")}
			err := o.Open(context.Background(), meetURL)

			Convey("Then the failure should be returned", func() {
				So(errors.Is(err, opener.ErrOpenFailed), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "no handler")
			})
		})
	})

	Convey("Given no preferences at all", t, func() {
		runner := &scriptedRunner{}
		o := opener.New(config.NewStore(config.MapLookup{}), runner)

		Convey("When opening a Meet link", func() {
			err := o.Open(context.Background(), meetURL)

			Convey("Then direct launching should default to off", func() {
				So(err, ShouldBeNil)
				So(runner.calls, ShouldResemble, [][]string{{"open", meetURL}})
			})
		})
	})

	Convey("Given direct launching without an app name", t, func() {
		runner := &scriptedRunner{}
		store := config.NewStore(config.MapLookup{config.NameUseDirectGMeet: "yes"})
		o := opener.New(store, runner)

		Convey("Then the default app name should be used", func() {
			So(o.Open(context.Background(), meetURL), ShouldBeNil)
			So(runner.calls[0], ShouldResemble, []string{"open", "-a", config.DefaultGMeetAppName, meetURL})
		})
	})

	Convey("Given a malformed boolean", t, func() {
		runner := &scriptedRunner{}
		store := config.NewStore(config.MapLookup{config.NameUseDirectGMeet: "maybe"})
		o := opener.New(store, runner)

		Convey("Then it should be treated as false", func() {
			So(o.Open(context.Background(), meetURL), ShouldBeNil)
			So(runner.calls, ShouldResemble, [][]string{{"open", meetURL}})
		})
	})

	Convey("Given an empty URL", t, func() {
		store := config.NewStore(config.MapLookup{config.NameUseDirectGMeet: "true"})

		Convey("When the default handler accepts it", func() {
			runner := &scriptedRunner{}
			err := opener.New(store, runner).Open(context.Background(), "")

			Convey("Then only the default handler should be tried", func() {
				So(err, ShouldBeNil)
				So(runner.calls, ShouldResemble, [][]string{{"open", ""}})
			})
		})

		Convey("When the default handler rejects it", func() {
			runner := &scriptedRunner{fail: map[int]error{1: errors.New("exit status 1")}}
			err := opener.New(store, runner).Open(context.Background(), "")

			Convey("Then the default handler failure should be returned", func() {
				So(errors.Is(err, opener.ErrOpenFailed), ShouldBeTrue)
				So(len(runner.calls), ShouldEqual, 1)
			})
		})
	})
}
