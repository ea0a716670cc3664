// Package scoring recomputes per-user standings from the full normalized
// ticket set.
package scoring

import (
	"sort"
	"time"

	"github.com/okian/bugathon/internal/domain/badges"
	"github.com/okian/bugathon/internal/domain/model"
)

// Aggregate folds the complete ticket snapshot into one UserScore per user
// that reported a new bug or fixed a done ticket. It is a pure function of
// the snapshot: prior score state never feeds in, so re-running over the
// same tickets always yields the same result. now stamps UpdatedAt.
//
// A ticket credits the reporter when IsNewBug is set and the reporter
// identity is present, and credits the assignee when the status category
// is done and the assignee identity is present. Both can apply to the same
// ticket.
func Aggregate(tickets []model.Ticket, now time.Time) []model.UserScore {
	acc := make(map[string]*model.UserScore)

	score := func(name string) *model.UserScore {
		s, ok := acc[name]
		if !ok {
			s = &model.UserScore{Name: name}
			acc[name] = s
		}
		return s
	}

	for _, t := range tickets {
		if t.IsNewBug && t.Reporter.Present() {
			s := score(t.Reporter.Name)
			s.BugsReported++
			s.ReporterPoints += t.ReporterPoints
		}
		if t.StatusCategory == model.StatusCategoryDone && t.Assignee.Present() {
			s := score(t.Assignee.Name)
			s.BugsFixed++
			s.AssigneePoints += t.AssigneePoints
		}
	}

	out := make([]model.UserScore, 0, len(acc))
	for _, s := range acc {
		s.TotalPoints = s.ReporterPoints + s.AssigneePoints
		s.Badges = badges.Evaluate(s.BugsReported, s.BugsFixed, s.TotalPoints)
		s.UpdatedAt = now
		out = append(out, *s)
	}
	return out
}

// Rank orders scores for presentation: total points descending, name
// ascending on ties. Dense rank numbers are assigned at the read boundary
// by consumers. The input slice is not modified.
func Rank(scores []model.UserScore) []model.UserScore {
	ranked := make([]model.UserScore, len(scores))
	copy(ranked, scores)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
