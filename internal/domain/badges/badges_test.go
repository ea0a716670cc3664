package badges_test

import (
	"testing"

	"github.com/okian/bugathon/internal/domain/badges"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluate(t *testing.T) {
	Convey("Given a pure hunter with 12 reports", t, func() {
		Convey("Then only the top hunter tier applies", func() {
			So(badges.Evaluate(12, 0, 0), ShouldResemble, []string{badges.EliteHunter})
		})
	})

	Convey("Given a balanced user with 6 reports, 6 fixes, 60 points", t, func() {
		Convey("Then every applicable category appears in order", func() {
			So(badges.Evaluate(6, 6, 60), ShouldResemble, []string{
				badges.Hunter,
				badges.Slayer,
				badges.RisingStar,
				badges.AllRounder,
				badges.SpeedDemon,
			})
		})
	})

	Convey("Given a user with no activity", t, func() {
		Convey("Then they get the default participant label", func() {
			So(badges.Evaluate(0, 0, 0), ShouldResemble, []string{badges.Participant})
		})
	})

	Convey("Given tier boundaries", t, func() {
		Convey("Then 10 fixes reaches the supreme tier", func() {
			So(badges.Evaluate(0, 10, 0), ShouldResemble, []string{badges.SupremeSlayer, badges.SpeedDemon})
		})

		Convey("And 5 fixes reaches the mid tier", func() {
			So(badges.Evaluate(0, 5, 0), ShouldResemble, []string{badges.Slayer, badges.SpeedDemon})
		})

		Convey("And 100 points reaches point master", func() {
			So(badges.Evaluate(0, 0, 100), ShouldResemble, []string{badges.PointMaster})
		})

		Convey("And 3 fixes alone earns speed demon", func() {
			So(badges.Evaluate(0, 3, 0), ShouldResemble, []string{badges.SpeedDemon})
		})

		Convey("And one report plus one fix earns all-rounder", func() {
			So(badges.Evaluate(1, 1, 1), ShouldResemble, []string{badges.AllRounder})
		})
	})
}
