package tracker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/bugathon/internal/adapters/tracker"
	. "github.com/smartystreets/goconvey/convey"
)

const searchBody = `{
	"issues": [
		{
			"key": "BUG-1",
			"fields": {
				"summary": "[Bugathon New] crash",
				"status": {"name": "Open", "statusCategory": {"key": "open"}},
				"reporter": {"accountId": "u1", "displayName": "alice"},
				"assignee": null,
				"customfield_10016": 5,
				"created": "2026-08-31T09:15:00.000+0000",
				"resolutiondate": null,
				"priority": {"name": "High"},
				"issuetype": {"name": "Bug"}
			}
		},
		{
			"key": "BUG-2",
			"fields": {
				"summary": "memory leak",
				"status": {"name": "Done", "statusCategory": {"key": "done"}},
				"assignee": {"accountId": "u2", "displayName": "bob"},
				"customfield_10016": 8,
				"created": "2026-08-30T10:00:00.000+0000",
				"resolutiondate": "2026-08-31T11:30:00.000+0000"
			}
		}
	]
}`

func TestSearch(t *testing.T) {
	Convey("Given a ticket source returning two issues", t, func() {
		var gotReq *http.Request
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReq = r.Clone(context.Background())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchBody))
		}))
		defer srv.Close()

		client := tracker.NewClient(srv.URL,
			tracker.WithBearerToken("secret-token"),
			tracker.WithPageSize(100),
		)

		Convey("When searching", func() {
			tickets, err := client.Search(context.Background(), `project = BUG`, []string{"summary", "status"})
			So(err, ShouldBeNil)

			Convey("Then the request carries query, projection, and auth", func() {
				So(gotReq.URL.Path, ShouldEqual, "/rest/api/2/search")
				So(gotReq.URL.Query().Get("jql"), ShouldEqual, `project = BUG`)
				So(gotReq.URL.Query().Get("maxResults"), ShouldEqual, "100")
				So(gotReq.URL.Query().Get("fields"), ShouldEqual, "summary,status")
				So(gotReq.Header.Get("Authorization"), ShouldEqual, "Bearer secret-token")
			})

			Convey("Then both issues decode", func() {
				So(tickets, ShouldHaveLength, 2)

				So(tickets[0].Key, ShouldEqual, "BUG-1")
				So(tickets[0].Summary, ShouldEqual, "[Bugathon New] crash")
				So(tickets[0].StatusCategory, ShouldEqual, "open")
				So(tickets[0].Reporter.Name, ShouldEqual, "alice")
				So(tickets[0].Assignee.Present(), ShouldBeFalse)
				So(tickets[0].SprintPoints, ShouldEqual, 5)
				So(tickets[0].Resolved, ShouldBeNil)
				So(tickets[0].Priority, ShouldEqual, "High")

				So(tickets[1].StatusCategory, ShouldEqual, "done")
				So(tickets[1].Assignee.Name, ShouldEqual, "bob")
				So(tickets[1].Resolved, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a source using basic credentials", t, func() {
		var user, secret string
		var ok bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, secret, ok = r.BasicAuth()
			_, _ = w.Write([]byte(`{"issues": []}`))
		}))
		defer srv.Close()

		client := tracker.NewClient(srv.URL, tracker.WithBasicAuth("bot@example.com", "api-key"))

		Convey("When searching", func() {
			_, err := client.Search(context.Background(), "project = BUG", nil)
			So(err, ShouldBeNil)

			Convey("Then basic auth is sent", func() {
				So(ok, ShouldBeTrue)
				So(user, ShouldEqual, "bot@example.com")
				So(secret, ShouldEqual, "api-key")
			})
		})
	})

	Convey("Given a source returning a non-success status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := tracker.NewClient(srv.URL)

		Convey("Then the transport sentinel surfaces", func() {
			_, err := client.Search(context.Background(), "project = BUG", nil)
			So(err, ShouldWrap, tracker.ErrTransport)
		})
	})

	Convey("Given an unreachable source", t, func() {
		client := tracker.NewClient("http://127.0.0.1:1")

		Convey("Then the transport sentinel surfaces", func() {
			_, err := client.Search(context.Background(), "project = BUG", nil)
			So(err, ShouldWrap, tracker.ErrTransport)
		})
	})
}
