// Scoring engine: the seven quality scores are rebuilt from scratch out of
// every active project each time they are recalculated.
package engine

import (
	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// ProductivityBoostDivisor scales staffed continuous-project output into
// target score points.
const ProductivityBoostDivisor = 0.05

// RecalculateScores resets the scores and sums the deltas of every completed
// and enabled project. Fully staffed continuous projects add their staff's
// productivity to their target score. Negative totals are floored at zero
// only after every contribution is summed.
func RecalculateScores(w *site.Website, cat *catalog.Catalog) {
	var scores catalog.Scores

	for _, name := range w.ProjectNames() {
		rec := w.Projects[name]
		if !rec.Active() {
			continue
		}
		p, ok := cat.Get(name)
		if !ok {
			continue
		}
		scores.Add(p.Scores)

		if p.Continuous && p.TargetScore != "" && len(p.RequiredRoles) > 0 {
			scores.AddTo(p.TargetScore, productivityBoost(w, rec, p))
		}
	}

	scores.FloorAtZero()
	w.Scores = scores
}

// productivityBoost is zero unless every required role is staffed to its
// minimum.
func productivityBoost(w *site.Website, rec *site.ProjectRecord, p catalog.Project) float64 {
	staffed := roleStaffing(w, rec)
	for role, need := range p.RequiredRoles {
		if staffed[role] < need {
			return 0
		}
	}
	total := 0.0
	for _, e := range w.Assignees(rec) {
		total += ContributionScore(e)
	}
	return total / ProductivityBoostDivisor
}
