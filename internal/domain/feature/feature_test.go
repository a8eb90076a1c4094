package feature_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubSource returns a fixed partial vector or error.
type stubSource struct {
	agg model.FeatureVector
	err error
}

func (s *stubSource) Aggregates(_ context.Context, _ int64, _ string) (model.FeatureVector, error) {
	return s.agg, s.err
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a feature builder", t, func() {
		ctx := context.Background()

		Convey("When the source has no history at all", func() {
			b := feature.NewBuilder(&stubSource{agg: model.FeatureVector{}})
			got, err := b.Build(ctx, 1, "2014-12-31")

			Convey("Then every key resolves to its default", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, model.FeatureVector{
					feature.KeyOKRAttainment:    0.95,
					feature.KeyOnTimeRatio:      0.9,
					feature.KeyQualityMean:      0.85,
					feature.KeyVelocityTotal:    0,
					feature.KeyImpactTotal:      0,
					feature.KeyFeedbackMean:     4.1,
					feature.KeyRecognitions:     0,
					feature.KeyIncidentsWeight:  0,
					feature.KeyCoursesCompleted: 0,
				})
			})
		})

		Convey("When the source returns a partial vector", func() {
			b := feature.NewBuilder(&stubSource{agg: model.FeatureVector{
				feature.KeyOnTimeRatio:  0.5,
				feature.KeyFeedbackMean: 3.2,
			}})
			got, err := b.Build(ctx, 1, "2014-12-31")

			Convey("Then present keys override and absent keys default", func() {
				So(err, ShouldBeNil)
				So(got.Get(feature.KeyOnTimeRatio, -1), ShouldEqual, 0.5)
				So(got.Get(feature.KeyFeedbackMean, -1), ShouldEqual, 3.2)
				So(got.Get(feature.KeyQualityMean, -1), ShouldEqual, 0.85)
				So(got.Get(feature.KeyOKRAttainment, -1), ShouldEqual, 0.95)
				So(len(got), ShouldEqual, len(feature.Keys()))
			})
		})

		Convey("When the source returns keys outside the feature set", func() {
			b := feature.NewBuilder(&stubSource{agg: model.FeatureVector{
				"hours_total": 123,
			}})
			got, err := b.Build(ctx, 1, "2014-12-31")

			Convey("Then unknown keys are dropped", func() {
				So(err, ShouldBeNil)
				So(got, ShouldNotContainKey, "hours_total")
				So(len(got), ShouldEqual, len(feature.Keys()))
			})
		})

		Convey("When the source fails", func() {
			srcErr := errors.New("connection refused")
			b := feature.NewBuilder(&stubSource{err: srcErr})
			_, err := b.Build(ctx, 7, "2014-12-31")

			Convey("Then the error is propagated with context", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, srcErr), ShouldBeTrue)
			})
		})
	})
}

func TestDefaults(t *testing.T) {
	Convey("Given the default vector", t, func() {
		d := feature.Defaults()

		Convey("Then it covers exactly the declared keys", func() {
			So(len(d), ShouldEqual, len(feature.Keys()))
			for _, k := range feature.Keys() {
				So(d, ShouldContainKey, k)
			}
		})

		Convey("Then mutating the copy does not leak", func() {
			d[feature.KeyOKRAttainment] = -1
			So(feature.Defaults().Get(feature.KeyOKRAttainment, 0), ShouldEqual, 0.95)
		})
	})
}
