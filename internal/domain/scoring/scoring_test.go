package scoring_test

import (
	"errors"
	"testing"

	model "github.com/okian/ocu/internal/domain/model"
	scoring "github.com/okian/ocu/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParsePattern(t *testing.T) {
	Convey("Given conference domain patterns", t, func() {
		Convey("When the pattern is a wildcard", func() {
			p, err := scoring.ParsePattern("*.zoom.us")
			So(err, ShouldBeNil)

			Convey("Then it should match exactly one extra label", func() {
				So(p.Match("foo.zoom.us", "/j/1"), ShouldBeTrue)
				So(p.Match("zoom.us", "/j/1"), ShouldBeFalse)
				So(p.Match("a.b.zoom.us", "/j/1"), ShouldBeFalse)
				So(p.Match("foo.zoom.com", "/j/1"), ShouldBeFalse)
			})
		})

		Convey("When the pattern is a plain domain", func() {
			p, err := scoring.ParsePattern("Zoom.US")
			So(err, ShouldBeNil)

			Convey("Then it should match itself and subdomains on label boundaries", func() {
				So(p.Match("zoom.us", "/j/1"), ShouldBeTrue)
				So(p.Match("us02web.zoom.us", "/j/1"), ShouldBeTrue)
				So(p.Match("notzoom.us", "/j/1"), ShouldBeFalse)
				So(p.String(), ShouldEqual, "Zoom.US")
			})
		})

		Convey("When the pattern carries a path", func() {
			p, err := scoring.ParsePattern("teams.microsoft.com/l/")
			So(err, ShouldBeNil)

			Convey("Then the URL path must start with it", func() {
				So(p.Match("teams.microsoft.com", "/l/meetup-join/abc"), ShouldBeTrue)
				So(p.Match("teams.microsoft.com", "/downloads"), ShouldBeFalse)
			})
		})

		Convey("When the pattern is malformed", func() {
			_, emptyErr := scoring.ParsePattern("  ")
			_, labelErr := scoring.ParsePattern("zoom..us")
			_, starErr := scoring.ParsePattern("z*.zoom.us")

			Convey("Then it should be rejected", func() {
				So(errors.Is(emptyErr, scoring.ErrEmptyPattern), ShouldBeTrue)
				So(errors.Is(labelErr, scoring.ErrInvalidPattern), ShouldBeTrue)
				So(errors.Is(starErr, scoring.ErrInvalidPattern), ShouldBeTrue)
			})
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given text containing URLs", t, func() {
		text := "Join: https://zoom.us/j/123?pwd=abc.\n<https://meet.google.com/abc-def>; 'https://x.y/z;'"

		Convey("When extracting candidates", func() {
			urls := scoring.Extract(text)

			Convey("Then delimiters and one trailing punctuation mark should be dropped", func() {
				So(urls, ShouldResemble, []string{
					"https://zoom.us/j/123?pwd=abc",
					"https://meet.google.com/abc-def",
					"https://x.y/z",
				})
			})
		})

		Convey("When no URL is present", func() {
			So(scoring.Extract("dial in by phone"), ShouldBeEmpty)
		})
	})
}

func TestScorer_Best(t *testing.T) {
	Convey("Given a scorer preferring zoom over meet", t, func() {
		scorer, err := scoring.NewScorer([]string{"*.zoom.us", "meet.google.com"})
		So(err, ShouldBeNil)

		Convey("When both links appear with meet first", func() {
			best, ok := scorer.Best("https://meet.google.com/abc-def\nhttps://x.zoom.us/j/1")

			Convey("Then zoom should win", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, "https://x.zoom.us/j/1")
			})
		})

		Convey("When both links appear with zoom first", func() {
			best, ok := scorer.Best("https://x.zoom.us/j/1 https://meet.google.com/abc-def")

			Convey("Then zoom should still win", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, "https://x.zoom.us/j/1")
			})
		})

		Convey("When the only link is a document", func() {
			_, ok := scorer.Best("Agenda: https://files.example.com/doc.pdf")

			Convey("Then nothing should be selected", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When two links match the same pattern", func() {
			best, ok := scorer.Best("https://a.zoom.us/j/1 and https://b.zoom.us/j/2")

			Convey("Then the first seen should win the tie", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, "https://a.zoom.us/j/1")
			})
		})

		Convey("When scoring the same text repeatedly", func() {
			text := "https://docs.google.com/x https://meet.google.com/q https://y.zoom.us/j/9"
			first, _ := scorer.Best(text)
			second, _ := scorer.Best(text)

			Convey("Then the result should be identical", func() {
				So(second, ShouldEqual, first)
				So(first, ShouldEqual, "https://y.zoom.us/j/9")
			})
		})
	})
}

func TestScorer_Candidates(t *testing.T) {
	Convey("Given a scorer with an observer", t, func() {
		var seen []scoring.Candidate
		scorer, err := scoring.NewScorer(
			[]string{"zoom.us", "meet.google.com", "teams.microsoft.com"},
			scoring.WithObserver(func(c scoring.Candidate) { seen = append(seen, c) }),
		)
		So(err, ShouldBeNil)

		Convey("When scoring mixed links", func() {
			cands := scorer.Candidates(
				"https://teams.microsoft.com/l/meetup-join/1 https://example.com/brief.doc " +
					"https://example.com/page https://zoom.us/j/5 https://:80",
			)

			Convey("Then scores should follow precedence and outcomes should be tagged", func() {
				So(len(cands), ShouldEqual, 5)
				So(cands[0].Score, ShouldEqual, 10)
				So(cands[0].Outcome, ShouldEqual, scoring.OutcomeMatched)
				So(cands[1].Score, ShouldEqual, scoring.Rejected)
				So(cands[1].Outcome, ShouldEqual, scoring.OutcomeDocument)
				So(cands[2].Outcome, ShouldEqual, scoring.OutcomeUnrecognized)
				So(cands[3].Score, ShouldEqual, 30)
				So(cands[3].Pattern, ShouldEqual, "zoom.us")
				So(cands[4].Outcome, ShouldEqual, scoring.OutcomeMalformed)
				So(len(seen), ShouldEqual, 5)
			})
		})

		Convey("When a matched host also looks like a document", func() {
			c := scorer.Score("https://zoom.us")

			Convey("Then the domain match should take precedence", func() {
				So(c.Score, ShouldEqual, 30)
				So(c.Outcome, ShouldEqual, scoring.OutcomeMatched)
			})
		})
	})

	Convey("Given an invalid domain list", t, func() {
		_, err := scoring.NewScorer([]string{"zoom.us", ""})

		Convey("Then construction should fail", func() {
			So(errors.Is(err, scoring.ErrEmptyPattern), ShouldBeTrue)
		})
	})
}

func TestSearchString(t *testing.T) {
	Convey("Given a raw record", t, func() {
		r := model.RawRecord{
			model.FieldNotes:     "notes here",
			model.FieldTitle:     "Sync",
			model.FieldStartDate: "2022-10-16T08:00",
			model.FieldEndDate:   "2022-10-16T09:00",
			model.FieldIsAllDay:  "false",
			model.FieldLocation:  "",
			model.FieldURL:       "https://zoom.us/j/1",
			"conferenceData":     "https://meet.google.com/zzz",
		}

		Convey("Then textual fields should be joined in a fixed order", func() {
			So(scoring.SearchString(r), ShouldEqual,
				"Sync\nhttps://zoom.us/j/1\nnotes here\nhttps://meet.google.com/zzz")
		})

		Convey("Then BestForRecord should search all of them", func() {
			scorer, err := scoring.NewScorer([]string{"meet.google.com", "zoom.us"})
			So(err, ShouldBeNil)
			best, ok := scorer.BestForRecord(r)
			So(ok, ShouldBeTrue)
			So(best, ShouldEqual, "https://meet.google.com/zzz")
		})
	})
}
