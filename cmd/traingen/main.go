// Command traingen synthesizes an offline training dataset: a feature
// table for a cohort of employees, composite-score labels thresholded
// at the cohort's 80th percentile, grouped cross-validation folds, and
// a baseline scoring artifact so the serving path runs locally before
// a real model is trained.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/okian/prr/internal/domain/feature"
	"github.com/okian/prr/internal/domain/labelgen"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/pkg/logger"
)

const asOf = "2014-12-31"

var orgUnits = []string{
	"IT", "Engineering", "Sales", "HR", "Finance",
	"Marketing", "Operations", "Software Development",
}

// Baseline logistic weights for the development artifact. These echo
// the labeling rule's direction so local scores are sane; a trained
// model replaces this artifact in real deployments.
var baselineWeights = map[string]float64{
	feature.KeyOKRAttainment:    3.0,
	feature.KeyFeedbackMean:     0.8,
	feature.KeyRecognitions:     0.3,
	feature.KeyCoursesCompleted: 0.3,
	feature.KeyOnTimeRatio:      1.5,
	feature.KeyQualityMean:      1.5,
	feature.KeyVelocityTotal:    0.00002,
	feature.KeyImpactTotal:      0.00001,
	feature.KeyIncidentsWeight:  -0.5,
}

const baselineIntercept = -8.5

func main() {
	_ = godotenv.Load()

	var (
		outDir      = flag.String("out", "data", "output directory for CSV files")
		artifactDir = flag.String("artifact-dir", "ml/artifacts", "output directory for the baseline scoring artifact")
		cohort      = flag.Int("cohort", 500, "number of employees to synthesize")
		seed        = flag.Int64("seed", 42, "random seed for cohort and label noise")
		noise       = flag.Float64("noise", 0.08, "label flip probability")
		folds       = flag.Int("folds", 5, "number of grouped CV folds")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Get().Named("traingen")

	rows := synthesizeCohort(*cohort, *seed)
	gen := labelgen.NewGenerator(labelgen.WithNoise(*noise), labelgen.WithSeed(*seed))
	res := gen.Generate(rows)
	cvFolds := labelgen.GroupFolds(rows, *folds)

	log.Info(ctx, "cohort labeled",
		logger.Int("cohort", len(rows)),
		logger.Float64("threshold", res.Threshold),
		logger.Int("folds", len(cvFolds)),
	)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(ctx, "create output dir", logger.Error(err))
	}
	if err := writeFeatures(filepath.Join(*outDir, "training_features.csv"), rows); err != nil {
		log.Fatal(ctx, "write features", logger.Error(err))
	}
	if err := writeLabels(filepath.Join(*outDir, "promotion_labels.csv"), rows, res); err != nil {
		log.Fatal(ctx, "write labels", logger.Error(err))
	}
	if err := writeFolds(filepath.Join(*outDir, "cv_folds.csv"), rows, cvFolds); err != nil {
		log.Fatal(ctx, "write folds", logger.Error(err))
	}
	if err := writeArtifact(*artifactDir, *noise, *folds); err != nil {
		log.Fatal(ctx, "write artifact", logger.Error(err))
	}

	log.Info(ctx, "done",
		logger.String("out", *outDir),
		logger.String("artifact", *artifactDir),
	)
}

// synthesizeCohort draws a deterministic cohort for the seed. The
// distributions loosely follow historical aggregates; exact shapes
// matter less than giving every feature realistic spread.
func synthesizeCohort(n int, seed int64) []labelgen.Row {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]labelgen.Row, n)
	for i := range rows {
		f := model.FeatureVector{
			feature.KeyOnTimeRatio:      clamp(0.90+0.05*rng.NormFloat64(), 0, 1),
			feature.KeyQualityMean:      clamp(0.85+0.06*rng.NormFloat64(), 0, 1),
			feature.KeyVelocityTotal:    math.Max(0, 15000+8000*rng.NormFloat64()),
			feature.KeyImpactTotal:      math.Max(0, 30000+15000*rng.NormFloat64()),
			feature.KeyFeedbackMean:     clamp(4.1+0.3*rng.NormFloat64(), 3, 5),
			feature.KeyRecognitions:     float64(rng.Intn(6)),
			feature.KeyIncidentsWeight:  drawIncidentWeight(rng),
			feature.KeyCoursesCompleted: float64(rng.Intn(6)),
		}
		f[feature.KeyOKRAttainment] = clamp(0.75+0.2*rng.Float64()+0.03*rng.NormFloat64(), 0, 1.2)
		rows[i] = labelgen.Row{
			EmployeeID: int64(i + 1),
			OrgUnit:    orgUnits[rng.Intn(len(orgUnits))],
			Features:   f,
		}
	}
	return rows
}

// drawIncidentWeight mirrors the historical severity mix: most
// employees have no incidents at all.
func drawIncidentWeight(rng *rand.Rand) float64 {
	u := rng.Float64()
	switch {
	case u < 0.78:
		return 0
	case u < 0.93:
		return 1
	case u < 0.99:
		return 2
	default:
		return 4
	}
}

func writeFeatures(path string, rows []labelgen.Row) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := append([]string{"employee_id"}, feature.Keys()...)
		if err := w.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			record := make([]string, 0, len(header))
			record = append(record, strconv.FormatInt(r.EmployeeID, 10))
			for _, k := range feature.Keys() {
				record = append(record, formatFloat(r.Features.Get(k, 0)))
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLabels(path string, rows []labelgen.Row, res labelgen.Result) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"employee_id", "as_of", "readiness_score", "decision", "label"}); err != nil {
			return err
		}
		for i, r := range rows {
			record := []string{
				strconv.FormatInt(r.EmployeeID, 10),
				asOf,
				formatFloat(res.Composites[i]),
				string(res.Decisions[i]),
				strconv.Itoa(res.Labels[i]),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFolds(path string, rows []labelgen.Row, folds []labelgen.Fold) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"fold", "employee_id", "org_unit"}); err != nil {
			return err
		}
		for f, fold := range folds {
			for _, i := range fold.Validate {
				record := []string{
					strconv.Itoa(f),
					strconv.FormatInt(rows[i].EmployeeID, 10),
					rows[i].OrgUnit,
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeArtifact(dir string, noise float64, folds int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	order := feature.Keys()
	meta := map[string]any{
		"feature_order":         order,
		"model_type":            "baseline-logistic",
		"calibrated":            false,
		"label_noise_flip_rate": noise,
		"cv":                    fmt.Sprintf("GroupKFold(n_splits=%d, group=org_unit)", folds),
	}
	weights := make([]float64, len(order))
	for i, k := range order {
		weights[i] = baselineWeights[k]
	}
	spec := map[string]any{
		"kind":      "logistic",
		"weights":   weights,
		"intercept": baselineIntercept,
	}
	if err := writeJSONFile(filepath.Join(dir, "features.json"), meta); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(dir, "model.json"), spec)
}

func writeCSV(path string, fill func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeJSONFile(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
