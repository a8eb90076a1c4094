// Package plan composes development plans from gaps and the course
// catalog.
package plan

import (
	"strings"

	"github.com/okian/prr/internal/domain/model"
)

// Composition constants.
const (
	maxCourses            = 3
	expectedReadinessGain = 0.08
	mentorName            = "Mary Johnson"
)

// milestones are fixed: every plan gets the same day 30/60/90
// checkpoints regardless of gaps or score.
var milestones = []model.Milestone{
	{Day: 30, Goal: "Lead a cross-functional meeting"},
	{Day: 60, Goal: "Run a postmortem & publish actions"},
	{Day: 90, Goal: "Deliver an approved design/plan"},
}

// MatchCourses selects catalog entries relevant to the gaps. A course
// matches when the first lowercase word of a gap appears as a
// substring of the course title or skills text; the first matching gap
// wins, so a course is tagged at most once. Matches keep catalog
// iteration order and are truncated to three.
func MatchCourses(gaps []string, catalog []model.Course) []model.Course {
	var out []model.Course
	for _, c := range catalog {
		haystack := strings.ToLower(c.Title) + " " + strings.ToLower(c.SkillsJSON)
		for _, g := range gaps {
			needle, _, _ := strings.Cut(strings.ToLower(g), " ")
			if needle != "" && strings.Contains(haystack, needle) {
				out = append(out, c)
				break
			}
		}
		if len(out) == maxCourses {
			break
		}
	}
	return out
}

// Mentor returns the mentor suggestion for an org unit. The fixed name
// and the two-way role split are a deliberately simplistic placeholder
// policy.
func Mentor(orgUnit string) model.PlanItem {
	role := "Senior Manager"
	if strings.Contains(orgUnit, "Software") {
		role = "Senior PM"
	}
	return model.PlanItem{Type: "mentor", Name: mentorName, Role: role}
}

// Compose builds a development plan: the fixed milestones, up to three
// matched courses plus one mentor, and the expected readiness gain.
func Compose(gaps []string, orgUnit string, catalog []model.Course) model.Plan {
	courses := MatchCourses(gaps, catalog)
	items := make([]model.PlanItem, 0, len(courses)+1)
	for _, c := range courses {
		items = append(items, model.PlanItem{
			Type:          "course",
			CourseID:      c.CourseID,
			Title:         c.Title,
			Provider:      c.Provider,
			DurationHours: c.DurationHours,
		})
	}
	items = append(items, Mentor(orgUnit))
	return model.Plan{
		Milestones:            append([]model.Milestone(nil), milestones...),
		Items:                 items,
		ExpectedReadinessGain: expectedReadinessGain,
	}
}
