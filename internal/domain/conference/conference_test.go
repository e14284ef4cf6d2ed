package conference_test

import (
	"testing"

	"github.com/okian/ocu/internal/domain/conference"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRewriter_Zoom(t *testing.T) {
	Convey("Given a rewriter with direct zoom enabled", t, func() {
		var rewritten []conference.Service
		r := conference.NewRewriter(
			conference.WithDirectZoom(true),
			conference.WithObserver(func(s conference.Service) { rewritten = append(rewritten, s) }),
		)

		Convey("When rewriting a plain join link", func() {
			out := r.Rewrite("https://zoom.us/j/123456")

			Convey("Then it should use the zoommtg scheme", func() {
				So(out, ShouldEqual, "zoommtg://zoom.us/join?action=join&confno=123456")
				So(rewritten, ShouldResemble, []conference.Service{conference.ServiceZoom})
			})
		})

		Convey("When rewriting a join link with a password on a subdomain", func() {
			out := r.Rewrite("https://us02web.zoom.us/j/987?pwd=secret")

			Convey("Then the password should become a second query parameter", func() {
				So(out, ShouldEqual, "zoommtg://us02web.zoom.us/join?action=join&confno=987&pwd=secret")
			})
		})

		Convey("When the zoom link is not a join link", func() {
			in := "https://zoom.us/my/personal"

			Convey("Then it should be left alone", func() {
				So(r.Rewrite(in), ShouldEqual, in)
				So(rewritten, ShouldBeEmpty)
			})
		})

		Convey("When the link is a teams link", func() {
			in := "https://teams.microsoft.com/l/meetup-join/abc"

			Convey("Then it should be left alone", func() {
				So(r.Rewrite(in), ShouldEqual, in)
			})
		})
	})

	Convey("Given a rewriter with nothing enabled", t, func() {
		r := conference.NewRewriter()

		Convey("Then zoom links pass through unchanged", func() {
			So(r.Rewrite("https://zoom.us/j/123456"), ShouldEqual, "https://zoom.us/j/123456")
		})
	})
}

func TestRewriter_Teams(t *testing.T) {
	Convey("Given a rewriter with direct teams enabled", t, func() {
		r := conference.NewRewriter(conference.WithDirectTeams(true))

		Convey("When rewriting a meetup-join link", func() {
			out := r.Rewrite("https://teams.microsoft.com/l/meetup-join/19%3ameeting/0?context=%7b%7d")

			Convey("Then only the scheme should change", func() {
				So(out, ShouldEqual, "msteams://teams.microsoft.com/l/meetup-join/19%3ameeting/0?context=%7b%7d")
			})
		})

		Convey("When the teams link has no /l/ segment", func() {
			in := "https://teams.microsoft.com/downloads"

			Convey("Then it should be left alone", func() {
				So(r.Rewrite(in), ShouldEqual, in)
			})
		})
	})
}

func TestIsGoogleMeet(t *testing.T) {
	Convey("Given candidate URLs", t, func() {
		So(conference.IsGoogleMeet("https://meet.google.com/abc-defg-hij"), ShouldBeTrue)
		So(conference.IsGoogleMeet("https://MEET.google.com/abc"), ShouldBeTrue)
		So(conference.IsGoogleMeet("https://docs.google.com/abc"), ShouldBeFalse)
		So(conference.IsGoogleMeet("https://zoom.us/j/1"), ShouldBeFalse)
		So(conference.IsGoogleMeet("::not a url"), ShouldBeFalse)
	})
}
