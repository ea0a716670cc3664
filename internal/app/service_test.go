package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/bugathon/internal/adapters/repository"
	service "github.com/okian/bugathon/internal/app"
	"github.com/okian/bugathon/internal/domain/model"
	"github.com/okian/bugathon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSource serves a canned ticket set or a canned error.
type fakeSource struct {
	tickets []model.RawTicket
	err     error
}

func (f *fakeSource) Search(_ context.Context, _ string, _ []string) ([]model.RawTicket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets, nil
}

// blockingSource parks inside Search until released, to hold a sync run
// open across goroutines.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) Search(_ context.Context, _ string, _ []string) ([]model.RawTicket, error) {
	b.entered <- struct{}{}
	<-b.release
	return nil, nil
}

func newService(t *testing.T, source service.TicketSource, now time.Time) (*service.Service, repository.Store) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	store := repository.NewMemoryStore()
	svc := service.New(
		service.WithStore(store),
		service.WithSource(source),
		service.WithClock(func() time.Time { return now }),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc, store
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	resolved := now.Add(-time.Hour)

	source := &fakeSource{tickets: []model.RawTicket{
		{
			Key:            "BUG-1",
			Summary:        "[Bugathon New] crash",
			StatusCategory: "open",
			Reporter:       model.User{ID: "u1", Name: "alice"},
			SprintPoints:   5,
			Created:        now.Add(-2 * time.Hour),
		},
		{
			Key:            "BUG-2",
			Summary:        "memory leak",
			StatusCategory: "done",
			Assignee:       model.User{ID: "u2", Name: "bob"},
			SprintPoints:   8,
			Created:        now.Add(-3 * time.Hour),
			Resolved:       &resolved,
		},
	}}

	Convey("Given the two-ticket source scenario", t, func() {
		svc, store := newService(t, source, now)

		Convey("When running one sync", func() {
			result, err := svc.Sync(ctx)
			So(err, ShouldBeNil)

			Convey("Then both tickets are processed", func() {
				So(result.TicketsProcessed, ShouldEqual, 2)
				So(result.RunID, ShouldNotBeEmpty)
			})

			Convey("And normalized rows carry the attribution", func() {
				tickets, err := store.Tickets(ctx)
				So(err, ShouldBeNil)
				So(tickets, ShouldHaveLength, 2)
				for _, ticket := range tickets {
					switch ticket.Key {
					case "BUG-1":
						So(ticket.IsNewBug, ShouldBeTrue)
						So(ticket.ReporterPoints, ShouldEqual, 2.5)
						So(ticket.AssigneePoints, ShouldEqual, 0)
					case "BUG-2":
						So(ticket.IsNewBug, ShouldBeFalse)
						So(ticket.ReporterPoints, ShouldEqual, 0)
						So(ticket.AssigneePoints, ShouldEqual, 8)
					}
				}
			})

			Convey("And the leaderboard ranks bob before alice", func() {
				entries, err := svc.Leaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Name, ShouldEqual, "bob")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[0].TotalPoints, ShouldEqual, 8)
				So(entries[1].Name, ShouldEqual, "alice")
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[1].TotalPoints, ShouldEqual, 2.5)
			})

			Convey("And today's stats cover both snapshots", func() {
				stats, err := svc.Stats(ctx)
				So(err, ShouldBeNil)
				So(stats.Daily, ShouldHaveLength, 1)
				So(stats.Daily[0].Date, ShouldEqual, "2026-08-31")
				So(stats.Daily[0].BugsCreated, ShouldEqual, 2)
				So(stats.Daily[0].BugsFixed, ShouldEqual, 1)
				So(stats.Daily[0].PointsEarned, ShouldEqual, 8)
				So(stats.Daily[0].ActiveUsers, ShouldEqual, 2)
				So(stats.Totals.BugsFixed, ShouldEqual, 1)
				So(stats.Totals.TotalPoints, ShouldEqual, 10.5)
				So(stats.Totals.Contributors, ShouldEqual, 2)
				So(stats.Totals.FixedToday, ShouldEqual, 1)
			})

			Convey("And the champion achievement is granted to bob", func() {
				a, err := store.Achievement(ctx, "bob", "🏆 Current Champion")
				So(err, ShouldBeNil)
				So(a.BadgeIcon, ShouldEqual, "🏆")
				So(a.EarnedAt, ShouldEqual, now)
			})
		})

		Convey("When running the sync twice over an unchanged set", func() {
			first, err := svc.Sync(ctx)
			So(err, ShouldBeNil)
			firstGrant, err := store.Achievement(ctx, "bob", "🏆 Current Champion")
			So(err, ShouldBeNil)

			second, err := svc.Sync(ctx)
			So(err, ShouldBeNil)

			Convey("Then results and rows stay stable", func() {
				So(second.TicketsProcessed, ShouldEqual, first.TicketsProcessed)
				tickets, err := store.Tickets(ctx)
				So(err, ShouldBeNil)
				So(tickets, ShouldHaveLength, 2)
			})

			Convey("And the achievement keeps its original grant time", func() {
				again, err := store.Achievement(ctx, "bob", "🏆 Current Champion")
				So(err, ShouldBeNil)
				So(again.EarnedAt, ShouldEqual, firstGrant.EarnedAt)
			})
		})
	})

	Convey("Given a failing ticket source", t, func() {
		boom := errors.New("upstream down")
		svc, store := newService(t, &fakeSource{err: boom}, now)

		Convey("When running a sync", func() {
			_, err := svc.Sync(ctx)

			Convey("Then the failure surfaces with its originating error", func() {
				So(err, ShouldWrap, boom)
			})

			Convey("And nothing was committed", func() {
				tickets, storeErr := store.Tickets(ctx)
				So(storeErr, ShouldBeNil)
				So(tickets, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a sync already in flight", t, func() {
		source := &blockingSource{
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		svc, _ := newService(t, source, now)

		done := make(chan struct{})
		go func() {
			_, _ = svc.Sync(ctx)
			close(done)
		}()
		<-source.entered

		Convey("When triggering a second sync", func() {
			_, err := svc.Sync(ctx)

			Convey("Then it is rejected without waiting", func() {
				So(err, ShouldWrap, service.ErrSyncInFlight)
			})
		})

		close(source.release)
		<-done
	})
}

func TestStartValidation(t *testing.T) {
	Convey("Given a service with no wiring", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatalf("init logger: %v", err)
		}
		svc := service.New()

		Convey("Then Start reports the missing dependencies", func() {
			So(svc.Start(context.Background()), ShouldWrap, service.ErrNotConfigured)
		})
	})
}
