package labelgen

import "sort"

// Fold is one grouped cross-validation split, holding row indices.
type Fold struct {
	Train    []int
	Validate []int
}

// GroupFolds partitions row indices into k folds grouped by org unit:
// a unit never appears in both the training and validation partition
// of the same fold. Groups are assigned greedily, largest first, to
// the currently smallest fold; ties break on unit name so the split is
// deterministic. Folds are independent and may be processed in
// parallel without changing results.
func GroupFolds(rows []Row, k int) []Fold {
	if k < 2 {
		k = 2
	}
	byUnit := make(map[string][]int)
	for i, r := range rows {
		byUnit[r.OrgUnit] = append(byUnit[r.OrgUnit], i)
	}
	if k > len(byUnit) {
		k = len(byUnit)
	}
	if k < 2 {
		return nil
	}

	units := make([]string, 0, len(byUnit))
	for u := range byUnit {
		units = append(units, u)
	}
	sort.Slice(units, func(a, b int) bool {
		na, nb := len(byUnit[units[a]]), len(byUnit[units[b]])
		if na != nb {
			return na > nb
		}
		return units[a] < units[b]
	})

	foldUnits := make([][]string, k)
	foldSizes := make([]int, k)
	for _, u := range units {
		smallest := 0
		for f := 1; f < k; f++ {
			if foldSizes[f] < foldSizes[smallest] {
				smallest = f
			}
		}
		foldUnits[smallest] = append(foldUnits[smallest], u)
		foldSizes[smallest] += len(byUnit[u])
	}

	folds := make([]Fold, k)
	for f := 0; f < k; f++ {
		validate := make(map[string]bool, len(foldUnits[f]))
		for _, u := range foldUnits[f] {
			validate[u] = true
		}
		for i, r := range rows {
			if validate[r.OrgUnit] {
				folds[f].Validate = append(folds[f].Validate, i)
			} else {
				folds[f].Train = append(folds[f].Train, i)
			}
		}
	}
	return folds
}
