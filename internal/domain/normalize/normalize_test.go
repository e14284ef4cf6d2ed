package normalize_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ocu/internal/domain/conference"
	model "github.com/okian/ocu/internal/domain/model"
	"github.com/okian/ocu/internal/domain/normalize"
	scoring "github.com/okian/ocu/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func newBuilder(opts ...normalize.Option) *normalize.Builder {
	scorer, err := scoring.NewScorer([]string{"*.zoom.us", "zoom.us", "meet.google.com"})
	if err != nil {
		panic(err)
	}
	return normalize.NewBuilder(scorer, append([]normalize.Option{normalize.WithLocation(time.UTC)}, opts...)...)
}

func TestBuilder_Build(t *testing.T) {
	now := time.Date(2022, 10, 16, 7, 55, 0, 0, time.UTC)

	Convey("Given a builder and a timed record", t, func() {
		b := newBuilder()
		raw := model.RawRecord{
			model.FieldTitle:     "My Meeting",
			model.FieldStartDate: "2022-10-16T08:00",
			model.FieldEndDate:   "2022-10-16T09:00",
			model.FieldLocation:  "https://zoom.us/j/123456",
		}

		Convey("When building the event", func() {
			ev, err := b.Build(raw, now)

			Convey("Then dates should round-trip without drift", func() {
				So(err, ShouldBeNil)
				So(ev.Title, ShouldEqual, "My Meeting")
				So(ev.Start.Format(model.DateTimeLayout), ShouldEqual, "2022-10-16T08:00")
				So(ev.End.Format(model.DateTimeLayout), ShouldEqual, "2022-10-16T09:00")
				So(ev.AllDay, ShouldBeFalse)
				So(ev.ConferenceURL, ShouldEqual, "https://zoom.us/j/123456")
			})
		})

		Convey("When direct zoom is enabled", func() {
			direct := newBuilder(normalize.WithRewriter(conference.NewRewriter(conference.WithDirectZoom(true))))
			ev, err := direct.Build(raw, now)

			Convey("Then the chosen URL should be rewritten", func() {
				So(err, ShouldBeNil)
				So(ev.ConferenceURL, ShouldEqual, "zoommtg://zoom.us/join?action=join&confno=123456")
			})
		})
	})

	Convey("Given records around midnight", t, func() {
		b := newBuilder()

		Convey("When the start is exactly 00:00", func() {
			ev, err := b.Build(model.RawRecord{
				model.FieldTitle:     "Holiday",
				model.FieldStartDate: "2022-10-16T00:00",
				model.FieldEndDate:   "2022-10-16T23:59",
			}, now)

			Convey("Then it should be all-day with start pinned to now", func() {
				So(err, ShouldBeNil)
				So(ev.AllDay, ShouldBeTrue)
				So(ev.Start, ShouldEqual, now)
				So(ev.End.Format(model.DateTimeLayout), ShouldEqual, "2022-10-16T23:59")
			})
		})

		Convey("When the start is 00:01", func() {
			ev, err := b.Build(model.RawRecord{
				model.FieldTitle:     "Early",
				model.FieldStartDate: "2022-10-16T00:01",
				model.FieldEndDate:   "2022-10-16T00:30",
			}, now)

			Convey("Then it should not be all-day", func() {
				So(err, ShouldBeNil)
				So(ev.AllDay, ShouldBeFalse)
				So(ev.Start.Format(model.DateTimeLayout), ShouldEqual, "2022-10-16T00:01")
			})
		})

		Convey("When the record is flagged all-day with a time", func() {
			ev, err := b.Build(model.RawRecord{
				model.FieldTitle:     "Offsite",
				model.FieldStartDate: "2022-10-16T09:00",
				model.FieldEndDate:   "2022-10-16T17:00",
				model.FieldIsAllDay:  "true",
			}, now)

			Convey("Then the flag should win", func() {
				So(err, ShouldBeNil)
				So(ev.AllDay, ShouldBeTrue)
			})
		})
	})

	Convey("Given a record without an end date", t, func() {
		b := newBuilder()
		ev, err := b.Build(model.RawRecord{
			model.FieldTitle:     "Reminder",
			model.FieldStartDate: "2022-10-16T10:00",
		}, now)

		Convey("Then the end should equal the start", func() {
			So(err, ShouldBeNil)
			So(ev.End, ShouldEqual, ev.Start)
			So(ev.HasConferenceURL(), ShouldBeFalse)
		})
	})

	Convey("Given a record carrying a bare date", t, func() {
		b := newBuilder()
		ev, err := b.Build(model.RawRecord{
			model.FieldTitle:     "Birthday",
			model.FieldStartDate: "2022-10-16",
			model.FieldEndDate:   "2022-10-16",
		}, now)

		Convey("Then it should be treated as all-day", func() {
			So(err, ShouldBeNil)
			So(ev.AllDay, ShouldBeTrue)
		})
	})

	Convey("Given records with malformed dates", t, func() {
		b := newBuilder()

		_, startErr := b.Build(model.RawRecord{model.FieldTitle: "x", model.FieldStartDate: "tomorrow"}, now)
		_, endErr := b.Build(model.RawRecord{
			model.FieldTitle:     "x",
			model.FieldStartDate: "2022-10-16T10:00",
			model.FieldEndDate:   "25:00",
		}, now)
		_, emptyErr := b.Build(model.RawRecord{model.FieldTitle: "x"}, now)

		Convey("Then ErrInvalidDate should be returned", func() {
			So(errors.Is(startErr, normalize.ErrInvalidDate), ShouldBeTrue)
			So(errors.Is(endErr, normalize.ErrInvalidDate), ShouldBeTrue)
			So(errors.Is(emptyErr, normalize.ErrInvalidDate), ShouldBeTrue)
		})
	})

	Convey("Given notes with several links", t, func() {
		b := newBuilder()
		ev, err := b.Build(model.RawRecord{
			model.FieldTitle:     "Review",
			model.FieldStartDate: "2022-10-16T11:00",
			model.FieldEndDate:   "2022-10-16T12:00",
			model.FieldNotes:     "Doc: https://example.com/spec.pdf\nMeet: https://meet.google.com/abc-def\nZoom: https://x.zoom.us/j/1.",
		}, now)

		Convey("Then the highest precedence link should be chosen", func() {
			So(err, ShouldBeNil)
			So(ev.ConferenceURL, ShouldEqual, "https://x.zoom.us/j/1")
		})
	})
}
