// Package normalize maps raw ticket-source records into persisted tickets,
// applying the point-attribution rules.
package normalize

import (
	"strings"
	"time"

	"github.com/okian/bugathon/internal/domain/model"
)

// reporterShare is the fraction of sprint points credited to the reporter
// of a new bug.
const reporterShare = 0.5

// Ticket derives a persisted ticket from one raw record. Pure: no side
// effects, no failure modes. Missing optional fields keep their zero
// values from decoding. now becomes the row's LastUpdated stamp.
//
// Attribution rules:
//   - ReporterPoints = SprintPoints * 0.5 iff the summary carries the
//     new-bug marker, else 0.
//   - AssigneePoints = SprintPoints iff the status category is "done",
//     else 0.
//
// The two fields are independent: a ticket can credit both sides at once,
// or neither.
func Ticket(raw model.RawTicket, now time.Time) model.Ticket {
	isNewBug := strings.Contains(strings.ToLower(raw.Summary), model.NewBugMarker)

	var reporterPoints float64
	if isNewBug {
		reporterPoints = raw.SprintPoints * reporterShare
	}
	var assigneePoints float64
	if raw.StatusCategory == model.StatusCategoryDone {
		assigneePoints = raw.SprintPoints
	}

	return model.Ticket{
		Key:            raw.Key,
		Summary:        raw.Summary,
		Status:         raw.Status,
		StatusCategory: raw.StatusCategory,
		Reporter:       raw.Reporter,
		Assignee:       raw.Assignee,
		SprintPoints:   raw.SprintPoints,
		IsNewBug:       isNewBug,
		ReporterPoints: reporterPoints,
		AssigneePoints: assigneePoints,
		Created:        raw.Created,
		Resolved:       raw.Resolved,
		Priority:       raw.Priority,
		IssueType:      raw.IssueType,
		LastUpdated:    now,
	}
}

// Batch normalizes a slice of raw records with a shared write timestamp.
func Batch(raw []model.RawTicket, now time.Time) []model.Ticket {
	out := make([]model.Ticket, len(raw))
	for i, r := range raw {
		out[i] = Ticket(r, now)
	}
	return out
}
