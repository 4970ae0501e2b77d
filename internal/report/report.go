// Package report renders results, benchmarks, and analyses to CSV, JSON,
// and XLSX for download endpoints and offline review.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/civicstack/maturity-cli/internal/benchmark"
	"github.com/civicstack/maturity-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// header turns a snake_case identifier into a display heading.
func header(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// resultColumns returns the fixed columns followed by the survey's domains
// in schema order, so exports stay stable across runs.
func resultColumns(survey *model.Survey) []string {
	cols := []string{"organization_id", "overall_score", "maturity_level", "response_count"}
	for _, d := range survey.Domains {
		cols = append(cols, d.ID)
	}
	return cols
}

func resultRow(survey *model.Survey, r *model.Result) []string {
	row := []string{
		r.OrganizationID,
		fmt.Sprintf("%.2f", r.OverallScore),
		r.MaturityLevel.ID,
		fmt.Sprintf("%d", r.ResponseCount),
	}
	for _, d := range survey.Domains {
		row = append(row, fmt.Sprintf("%.2f", r.DomainScores[d.ID]))
	}
	return row
}

// WriteResultsCSV writes one row per organization result.
func WriteResultsCSV(w io.Writer, survey *model.Survey, results []model.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(resultColumns(survey)); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for i := range results {
		if err := cw.Write(resultRow(survey, &results[i])); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}
	return nil
}

// WriteResultsJSON writes the results list as indented JSON.
func WriteResultsJSON(w io.Writer, results []model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(results), "report: write JSON")
}

// WriteResultsXLSX writes a workbook with a results sheet and a benchmark
// summary sheet.
func WriteResultsXLSX(w io.Writer, survey *model.Survey, results []model.Result, bench *benchmark.Benchmark) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}
	hdr := sheet.AddRow()
	for _, col := range resultColumns(survey) {
		hdr.AddCell().Value = header(col)
	}
	for i := range results {
		r := &results[i]
		row := sheet.AddRow()
		row.AddCell().Value = r.OrganizationID
		row.AddCell().SetFloat(r.OverallScore)
		row.AddCell().Value = r.MaturityLevel.ID
		row.AddCell().SetInt(r.ResponseCount)
		for _, d := range survey.Domains {
			row.AddCell().SetFloat(r.DomainScores[d.ID])
		}
	}

	if bench != nil {
		summary, err := file.AddSheet("Benchmark")
		if err != nil {
			return eris.Wrap(err, "report: add benchmark sheet")
		}
		addStat := func(label string, value float64) {
			row := summary.AddRow()
			row.AddCell().Value = label
			row.AddCell().SetFloat(value)
		}
		addStat("Mean", bench.OverallMetrics.Mean)
		addStat("Median", bench.OverallMetrics.Median)
		addStat("Std Dev", bench.OverallMetrics.StdDev)

		summary.AddRow()
		distHdr := summary.AddRow()
		distHdr.AddCell().Value = "Maturity Level"
		distHdr.AddCell().Value = "Organizations"
		levels := make([]string, 0, len(bench.MaturityDistribution))
		for id := range bench.MaturityDistribution {
			levels = append(levels, id)
		}
		sort.Strings(levels)
		for _, id := range levels {
			row := summary.AddRow()
			row.AddCell().Value = header(id)
			row.AddCell().SetInt(bench.MaturityDistribution[id])
		}
	}

	return eris.Wrap(file.Write(w), "report: write workbook")
}

// WriteBenchmarkJSON writes the benchmark report as indented JSON; this is
// the flat-file cache format reporting tools consume.
func WriteBenchmarkJSON(w io.Writer, bench *benchmark.Benchmark) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(bench), "report: write benchmark JSON")
}
