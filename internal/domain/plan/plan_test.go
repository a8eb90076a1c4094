package plan_test

import (
	"testing"

	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/internal/domain/plan"
	. "github.com/smartystreets/goconvey/convey"
)

func catalog() []model.Course {
	return []model.Course{
		{CourseID: "C1", Title: "Leadership Essentials", Provider: "Coursera", DurationHours: 12, SkillsJSON: `["leadership","communication"]`},
		{CourseID: "C2", Title: "Advanced SQL", Provider: "Udemy", DurationHours: 8, SkillsJSON: `["sql","data"]`},
		{CourseID: "C3", Title: "Time Boxing at Work", Provider: "LinkedIn", DurationHours: 4, SkillsJSON: `["planning"]`},
		{CourseID: "C4", Title: "System Design Primer", Provider: "Educative", DurationHours: 20, SkillsJSON: `["design","architecture"]`},
		{CourseID: "C5", Title: "Leading Teams", Provider: "Coursera", DurationHours: 10, SkillsJSON: `["leadership"]`},
	}
}

func TestMatchCourses(t *testing.T) {
	Convey("Given the course catalog", t, func() {
		Convey("When matching a single gap", func() {
			got := plan.MatchCourses([]string{"Time Management"}, catalog())

			Convey("Then only the first gap word is used as the needle", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].CourseID, ShouldEqual, "C3")
			})
		})

		Convey("When several gaps match", func() {
			got := plan.MatchCourses([]string{"Leadership", "System Design"}, catalog())

			Convey("Then matches keep catalog order, not gap order", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].CourseID, ShouldEqual, "C1")
				So(got[1].CourseID, ShouldEqual, "C4")
				So(got[2].CourseID, ShouldEqual, "C5")
			})
		})

		Convey("When more than three courses match", func() {
			big := append(catalog(), model.Course{CourseID: "C6", Title: "Leadership Lab", SkillsJSON: "[]"})
			got := plan.MatchCourses([]string{"Leadership", "System Design"}, big)

			Convey("Then the list is truncated to three", func() {
				So(got, ShouldHaveLength, 3)
			})
		})

		Convey("When nothing matches", func() {
			got := plan.MatchCourses([]string{"Negotiation"}, catalog())

			Convey("Then the course list is empty", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When a course matches multiple gaps", func() {
			got := plan.MatchCourses([]string{"Leadership", "Leadership"}, catalog())

			Convey("Then it appears at most once", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0].CourseID, ShouldEqual, "C1")
				So(got[1].CourseID, ShouldEqual, "C5")
			})
		})
	})
}

func TestMentor(t *testing.T) {
	Convey("Given the mentor policy", t, func() {
		Convey("Then software org units get a Senior PM", func() {
			m := plan.Mentor("Software Development")
			So(m.Type, ShouldEqual, "mentor")
			So(m.Name, ShouldEqual, "Mary Johnson")
			So(m.Role, ShouldEqual, "Senior PM")
		})

		Convey("Then every other unit gets a Senior Manager", func() {
			So(plan.Mentor("Finance").Role, ShouldEqual, "Senior Manager")
			So(plan.Mentor("").Role, ShouldEqual, "Senior Manager")
		})
	})
}

func TestCompose(t *testing.T) {
	Convey("Given a composed plan", t, func() {
		p := plan.Compose([]string{"Leadership"}, "Sales", catalog())

		Convey("Then the milestones are the fixed 30/60/90 checkpoints", func() {
			So(p.Milestones, ShouldHaveLength, 3)
			So(p.Milestones[0], ShouldResemble, model.Milestone{Day: 30, Goal: "Lead a cross-functional meeting"})
			So(p.Milestones[1], ShouldResemble, model.Milestone{Day: 60, Goal: "Run a postmortem & publish actions"})
			So(p.Milestones[2], ShouldResemble, model.Milestone{Day: 90, Goal: "Deliver an approved design/plan"})
		})

		Convey("Then the mentor is the last item", func() {
			So(p.Items, ShouldNotBeEmpty)
			last := p.Items[len(p.Items)-1]
			So(last.Type, ShouldEqual, "mentor")
		})

		Convey("Then courses carry catalog fields", func() {
			So(p.Items[0].Type, ShouldEqual, "course")
			So(p.Items[0].CourseID, ShouldEqual, "C1")
			So(p.Items[0].Provider, ShouldEqual, "Coursera")
			So(p.Items[0].DurationHours, ShouldEqual, 12)
		})

		Convey("Then the expected gain is the fixed constant", func() {
			So(p.ExpectedReadinessGain, ShouldEqual, 0.08)
		})

		Convey("When no course matches", func() {
			empty := plan.Compose([]string{"Negotiation"}, "Sales", catalog())

			Convey("Then the plan still has the mentor item", func() {
				So(empty.Items, ShouldHaveLength, 1)
				So(empty.Items[0].Type, ShouldEqual, "mentor")
			})
		})
	})
}
