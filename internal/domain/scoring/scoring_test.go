package scoring_test

import (
	"testing"
	"time"

	"github.com/okian/bugathon/internal/domain/badges"
	"github.com/okian/bugathon/internal/domain/model"
	"github.com/okian/bugathon/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	Convey("Given the two-ticket scenario", t, func() {
		tickets := []model.Ticket{
			{
				Key:            "BUG-1",
				IsNewBug:       true,
				StatusCategory: "open",
				Reporter:       model.User{Name: "alice"},
				ReporterPoints: 2.5,
			},
			{
				Key:            "BUG-2",
				StatusCategory: "done",
				Assignee:       model.User{Name: "bob"},
				AssigneePoints: 8,
			},
		}

		Convey("When aggregating", func() {
			scores := scoring.Aggregate(tickets, now)
			byName := indexScores(scores)

			Convey("Then alice is credited as reporter only", func() {
				So(byName["alice"].BugsReported, ShouldEqual, 1)
				So(byName["alice"].BugsFixed, ShouldEqual, 0)
				So(byName["alice"].ReporterPoints, ShouldEqual, 2.5)
				So(byName["alice"].TotalPoints, ShouldEqual, 2.5)
			})

			Convey("And bob is credited as fixer only", func() {
				So(byName["bob"].BugsFixed, ShouldEqual, 1)
				So(byName["bob"].AssigneePoints, ShouldEqual, 8)
				So(byName["bob"].TotalPoints, ShouldEqual, 8)
			})

			Convey("And both carry badges and the shared timestamp", func() {
				So(byName["alice"].Badges, ShouldResemble, []string{badges.Participant})
				So(byName["alice"].UpdatedAt, ShouldEqual, now)
			})
		})

		Convey("When aggregating the same snapshot twice", func() {
			first := indexScores(scoring.Aggregate(tickets, now))
			second := indexScores(scoring.Aggregate(tickets, now))

			Convey("Then the result is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given a done ticket with an absent assignee", t, func() {
		tickets := []model.Ticket{
			{Key: "BUG-3", StatusCategory: "done", AssigneePoints: 5},
		}

		Convey("Then nobody is credited", func() {
			So(scoring.Aggregate(tickets, now), ShouldBeEmpty)
		})
	})

	Convey("Given a user who both reports and fixes", t, func() {
		tickets := []model.Ticket{
			{Key: "BUG-4", IsNewBug: true, Reporter: model.User{Name: "carol"}, ReporterPoints: 1.5},
			{Key: "BUG-5", StatusCategory: "done", Assignee: model.User{Name: "carol"}, AssigneePoints: 3},
		}

		Convey("Then both sides accumulate into one score", func() {
			scores := scoring.Aggregate(tickets, now)
			So(scores, ShouldHaveLength, 1)
			So(scores[0].TotalPoints, ShouldEqual, 4.5)
			So(scores[0].Badges, ShouldResemble, []string{badges.AllRounder})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given scores with a points tie", t, func() {
		scores := []model.UserScore{
			{Name: "carol", TotalPoints: 8},
			{Name: "alice", TotalPoints: 2.5},
			{Name: "bob", TotalPoints: 8},
		}

		Convey("When ranking", func() {
			ranked := scoring.Rank(scores)

			Convey("Then order is points descending, name ascending on ties", func() {
				So(ranked[0].Name, ShouldEqual, "bob")
				So(ranked[1].Name, ShouldEqual, "carol")
				So(ranked[2].Name, ShouldEqual, "alice")
			})

			Convey("And the input slice is untouched", func() {
				So(scores[0].Name, ShouldEqual, "carol")
			})
		})
	})
}

func indexScores(scores []model.UserScore) map[string]model.UserScore {
	out := make(map[string]model.UserScore, len(scores))
	for _, s := range scores {
		out[s.Name] = s
	}
	return out
}
