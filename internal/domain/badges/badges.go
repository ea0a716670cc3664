// Package badges evaluates threshold-based badge labels from a user's
// aggregate counters.
package badges

// Badge labels. Within a category the highest matching tier wins;
// categories are independent and every applicable badge is included,
// in category order: hunter, slayer, points, versatility, velocity.
const (
	EliteHunter   = "Elite Hunter"
	Hunter        = "Hunter"
	SupremeSlayer = "Supreme Slayer"
	Slayer        = "Slayer"
	PointMaster   = "Point Master"
	RisingStar    = "Rising Star"
	AllRounder    = "All-Rounder"
	SpeedDemon    = "Speed Demon"
	Participant   = "Participant"
)

// Threshold constants.
const (
	hunterTop     = 10
	hunterMid     = 5
	slayerTop     = 10
	slayerMid     = 5
	pointsTop     = 100.0
	pointsMid     = 50.0
	speedDemonMin = 3
)

// Evaluate returns the ordered badge set for the given counters. The order
// is deterministic; a user matching nothing gets the Participant label.
func Evaluate(bugsReported, bugsFixed int, totalPoints float64) []string {
	var out []string

	switch {
	case bugsReported >= hunterTop:
		out = append(out, EliteHunter)
	case bugsReported >= hunterMid:
		out = append(out, Hunter)
	}

	switch {
	case bugsFixed >= slayerTop:
		out = append(out, SupremeSlayer)
	case bugsFixed >= slayerMid:
		out = append(out, Slayer)
	}

	switch {
	case totalPoints >= pointsTop:
		out = append(out, PointMaster)
	case totalPoints >= pointsMid:
		out = append(out, RisingStar)
	}

	if bugsReported > 0 && bugsFixed > 0 {
		out = append(out, AllRounder)
	}

	if bugsFixed >= speedDemonMin {
		out = append(out, SpeedDemon)
	}

	if len(out) == 0 {
		out = append(out, Participant)
	}
	return out
}
