package labelgen_test

import (
	"testing"

	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/labelgen"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/internal/domain/policy"
	. "github.com/smartystreets/goconvey/convey"
)

func vec(okr, fb, recog, courses, onTime, quality, velocity, impact, incidents float64) model.FeatureVector {
	return model.FeatureVector{
		feature.KeyOKRAttainment:    okr,
		feature.KeyFeedbackMean:     fb,
		feature.KeyRecognitions:     recog,
		feature.KeyCoursesCompleted: courses,
		feature.KeyOnTimeRatio:      onTime,
		feature.KeyQualityMean:      quality,
		feature.KeyVelocityTotal:    velocity,
		feature.KeyImpactTotal:      impact,
		feature.KeyIncidentsWeight:  incidents,
	}
}

func TestComposite(t *testing.T) {
	Convey("Given the composite readiness rule", t, func() {
		Convey("When all features are zero", func() {
			So(labelgen.Composite(model.FeatureVector{}), ShouldEqual, 0)
		})

		Convey("When the vector has known values", func() {
			// 0.22*1 + 0.18*(5/5) + 0.12*2 + 0.12*3 + 0.12*1 + 0.12*1 = 1.24
			got := labelgen.Composite(vec(1, 5, 2, 3, 1, 1, 0, 0, 0))
			So(got, ShouldAlmostEqual, 1.24, 1e-12)
		})

		Convey("When any incident weight is present", func() {
			clean := labelgen.Composite(vec(1, 4, 0, 0, 1, 1, 0, 0, 0))
			light := labelgen.Composite(vec(1, 4, 0, 0, 1, 1, 0, 0, 1))
			heavy := labelgen.Composite(vec(1, 4, 0, 0, 1, 1, 0, 0, 4))

			Convey("Then the penalty is flat regardless of magnitude", func() {
				So(clean-light, ShouldAlmostEqual, 0.12, 1e-12)
				So(light, ShouldEqual, heavy)
			})
		})
	})
}

func TestQuantile(t *testing.T) {
	Convey("Given the interpolating quantile", t, func() {
		Convey("Then a single value is its own quantile", func() {
			So(labelgen.Quantile([]float64{3.5}, 0.8), ShouldEqual, 3.5)
		})

		Convey("Then exact ranks need no interpolation", func() {
			vals := []float64{0, 1, 2, 3, 4}
			So(labelgen.Quantile(vals, 0.5), ShouldEqual, 2)
			So(labelgen.Quantile(vals, 1.0), ShouldEqual, 4)
			So(labelgen.Quantile(vals, 0.0), ShouldEqual, 0)
		})

		Convey("Then intermediate positions interpolate linearly", func() {
			// pos = 0.8*3 = 2.4 over sorted [1 2 3 4]
			So(labelgen.Quantile([]float64{4, 1, 3, 2}, 0.8), ShouldAlmostEqual, 3.4, 1e-12)
		})

		Convey("Then the input slice is not reordered", func() {
			vals := []float64{4, 1, 3, 2}
			_ = labelgen.Quantile(vals, 0.5)
			So(vals, ShouldResemble, []float64{4, 1, 3, 2})
		})
	})
}

func TestGenerate(t *testing.T) {
	cohort := func() []labelgen.Row {
		rows := make([]labelgen.Row, 0, 10)
		for i := 0; i < 10; i++ {
			rows = append(rows, labelgen.Row{
				EmployeeID: int64(i + 1),
				OrgUnit:    "Unit-" + string(rune('A'+i%3)),
				Features:   vec(0.5+0.05*float64(i), 4, float64(i%4), float64(i%3), 0.9, 0.85, 0, 0, float64(i%2)),
			})
		}
		return rows
	}

	Convey("Given a noiseless generator", t, func() {
		g := labelgen.NewGenerator()
		res := g.Generate(cohort())

		Convey("Then the threshold is the cohort's 80th percentile", func() {
			So(res.Threshold, ShouldAlmostEqual, labelgen.Quantile(res.Composites, 0.8), 1e-12)
		})

		Convey("Then labels follow the threshold exactly", func() {
			for i, c := range res.Composites {
				want := 0
				if c >= res.Threshold {
					want = 1
				}
				So(res.Labels[i], ShouldEqual, want)
			}
		})

		Convey("Then decisions use the threshold with a 0.05 borderline band", func() {
			for i, c := range res.Composites {
				So(res.Decisions[i], ShouldEqual, policy.Decide(c, res.Threshold, res.Threshold-0.05))
			}
		})

		Convey("Then roughly the top quintile is labeled positive", func() {
			var positives int
			for _, l := range res.Labels {
				positives += l
			}
			So(positives, ShouldBeGreaterThanOrEqualTo, 1)
			So(positives, ShouldBeLessThan, len(res.Labels))
		})
	})

	Convey("Given a noisy generator with a fixed seed", t, func() {
		a := labelgen.NewGenerator(labelgen.WithNoise(0.3), labelgen.WithSeed(7)).Generate(cohort())
		b := labelgen.NewGenerator(labelgen.WithNoise(0.3), labelgen.WithSeed(7)).Generate(cohort())
		clean := labelgen.NewGenerator().Generate(cohort())

		Convey("Then runs are reproducible", func() {
			So(a.Labels, ShouldResemble, b.Labels)
			So(a.Threshold, ShouldEqual, b.Threshold)
		})

		Convey("Then noise leaves composites and decisions untouched", func() {
			So(a.Composites, ShouldResemble, clean.Composites)
			So(a.Decisions, ShouldResemble, clean.Decisions)
		})
	})

	Convey("Given an empty cohort", t, func() {
		res := labelgen.NewGenerator().Generate(nil)

		Convey("Then the result is empty with a zero threshold", func() {
			So(res.Labels, ShouldBeEmpty)
			So(res.Threshold, ShouldEqual, 0)
		})
	})
}

func TestGroupFolds(t *testing.T) {
	Convey("Given a cohort spread over several org units", t, func() {
		rows := make([]labelgen.Row, 0, 30)
		units := []string{"IT", "Sales", "HR", "Finance", "Marketing", "Engineering"}
		for i := 0; i < 30; i++ {
			rows = append(rows, labelgen.Row{
				EmployeeID: int64(i + 1),
				OrgUnit:    units[i%len(units)],
				Features:   vec(0.8, 4, 0, 0, 0.9, 0.85, 0, 0, 0),
			})
		}

		Convey("When split into 3 folds", func() {
			folds := labelgen.GroupFolds(rows, 3)
			So(folds, ShouldHaveLength, 3)

			Convey("Then every row is in exactly one partition per fold", func() {
				for _, f := range folds {
					So(len(f.Train)+len(f.Validate), ShouldEqual, len(rows))
				}
			})

			Convey("Then no org unit straddles train and validation", func() {
				for _, f := range folds {
					trainUnits := make(map[string]bool)
					for _, i := range f.Train {
						trainUnits[rows[i].OrgUnit] = true
					}
					for _, i := range f.Validate {
						So(trainUnits[rows[i].OrgUnit], ShouldBeFalse)
					}
				}
			})

			Convey("Then each row validates in exactly one fold", func() {
				seen := make(map[int]int)
				for _, f := range folds {
					for _, i := range f.Validate {
						seen[i]++
					}
				}
				So(len(seen), ShouldEqual, len(rows))
				for _, n := range seen {
					So(n, ShouldEqual, 1)
				}
			})

			Convey("Then the split is deterministic", func() {
				again := labelgen.GroupFolds(rows, 3)
				So(again, ShouldResemble, folds)
			})
		})

		Convey("When k exceeds the number of org units", func() {
			folds := labelgen.GroupFolds(rows, 50)

			Convey("Then k collapses to the unit count", func() {
				So(folds, ShouldHaveLength, len(units))
			})
		})

		Convey("When there is only one org unit", func() {
			single := []labelgen.Row{
				{EmployeeID: 1, OrgUnit: "IT", Features: vec(0.8, 4, 0, 0, 0.9, 0.85, 0, 0, 0)},
				{EmployeeID: 2, OrgUnit: "IT", Features: vec(0.7, 4, 0, 0, 0.9, 0.85, 0, 0, 0)},
			}

			Convey("Then no grouped split exists", func() {
				So(labelgen.GroupFolds(single, 5), ShouldBeNil)
			})
		})
	})
}
