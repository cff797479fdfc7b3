// Package excelexport writes the battery summary workbook reviewers read
// alongside the per-probe JSON reports.
package excelexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"voynstat/domain/report"
	apperrors "voynstat/internal/errors"
)

const sheetName = "Battery"

var headers = []string{"Probe", "Verdict", "Findings", "Min p-value", "Max |effect|", "Tokens", "Generated"}

// WriteSummary writes one row per probe report to an xlsx workbook
func WriteSummary(path string, reports []*report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return apperrors.Wrap(err, "cannot create summary sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.Wrap(err, "cannot drop default sheet")
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return apperrors.Wrap(err, "cannot map header cell")
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return apperrors.Wrap(err, "cannot write header")
		}
	}

	for row, rep := range reports {
		minP, maxEffect := summarizeFindings(rep)
		values := []interface{}{
			rep.Probe,
			string(rep.Verdict),
			len(rep.Findings),
			minP,
			maxEffect,
			rep.TokenCount,
			rep.GeneratedAt.String(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return apperrors.Wrap(err, "cannot map summary cell")
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return apperrors.Wrap(err, fmt.Sprintf("cannot write summary row for %s", rep.Probe))
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.Wrap(err, fmt.Sprintf("cannot save summary workbook %s", path))
	}
	return nil
}

func summarizeFindings(rep *report.Report) (minP, maxEffect float64) {
	minP = 1.0
	for _, f := range rep.Findings {
		if f.PValue < minP {
			minP = f.PValue
		}
		effect := f.EffectSize
		if effect < 0 {
			effect = -effect
		}
		if effect > maxEffect {
			maxEffect = effect
		}
	}
	return minP, maxEffect
}
