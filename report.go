package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Each CSV starts with a UTF-8 byte-order marker so spreadsheet tools that
// sniff the BOM decode non-ASCII filenames correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// flushReport serializes one folder's ledgers. The success CSV is always
// written, headers even when empty; the failure CSV only when at least one
// entry failed.
func flushReport(report folderReport, outputDir string) error {
	successPath := filepath.Join(outputDir, report.Folder+"-"+modelTag+"-predict_result.csv")
	if err := writeSuccessCSV(successPath, report.Successes); err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": successPath, "rows": len(report.Successes)}).Info("Result report created")

	if len(report.Failures) == 0 {
		return nil
	}

	failurePath := filepath.Join(outputDir, report.Folder+"-predict_error.csv")
	if err := writeFailureCSV(failurePath, report.Failures); err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": failurePath, "rows": len(report.Failures)}).Info("Error report created")

	return nil
}

func writeSuccessCSV(path string, results []predictionResult) error {
	records := make([][]string, 0, len(results)+1)
	records = append(records, []string{"imgname", "predict_label", "predict_label_num", "probability"})
	for _, r := range results {
		records = append(records, []string{
			r.Filename,
			r.Label,
			strconv.Itoa(r.LabelNum),
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
		})
	}
	return writeCSV(path, records)
}

func writeFailureCSV(path string, failures []failureRecord) error {
	records := make([][]string, 0, len(failures)+1)
	records = append(records, []string{"error_imgname"})
	for _, f := range failures {
		records = append(records, []string{f.Filename})
	}
	return writeCSV(path, records)
}

// Writes records to path as a BOM-prefixed UTF-8 CSV.
func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
