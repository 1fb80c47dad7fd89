package invert

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// save writes the inversion artifacts as CSV files under dir, which is
// created if necessary: solution.csv with the recovered distribution and,
// when L-curve selection ran, selection.csv with the curvature curve.
func save(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("invert: save: %w", err)
	}

	if res.Solution2D != nil {
		rows := [][]string{{"indirect", "direct", "amplitude"}}
		for i, ti := range res.AxisIndirect {
			for j, tj := range res.AxisDirect {
				rows = append(rows, []string{
					formatFloat(ti),
					formatFloat(tj),
					formatFloat(res.Solution2D.At(i, j)),
				})
			}
		}
		if err := writeCSV(filepath.Join(dir, "solution.csv"), rows); err != nil {
			return err
		}
	} else {
		rows := [][]string{{"axis", "amplitude"}}
		for i, t := range res.Axis {
			rows = append(rows, []string{formatFloat(t), formatFloat(res.Solution[i])})
		}
		if err := writeCSV(filepath.Join(dir, "solution.csv"), rows); err != nil {
			return err
		}
	}

	if res.Selection != nil {
		rows := [][]string{{"alpha", "curvature"}}
		for i, a := range res.Selection.Alphas {
			rows = append(rows, []string{formatFloat(a), formatFloat(res.Selection.Curvature[i])})
		}
		if err := writeCSV(filepath.Join(dir, "selection.csv"), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("invert: save: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("invert: save %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
