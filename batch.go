package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

type (
	// A struct that drives the per-folder classification pipeline: scan,
	// classify, move, report.
	sorter struct {
		params      sorterParams    // Holds the command line flags.
		model       classifier      // Produces a probability vector per image.
		preprocess  preprocessFunc  // Decodes an image file to a model input tensor.
		ignoreMap   map[string]bool // Holds the list of files and directories to ignore.
		categorySet map[string]bool // Category names, excluded from processing.
	}

	// Contains parameters for the sorter.
	sorterParams struct {
		RootDir   string // The root directory whose subfolders contain images.
		ModelPath string // Path to the ONNX model file.
		OutputDir string // The directory for the CSV reports.
		OrtLib    string // Optional path to the onnxruntime shared library.
		DryRun    bool   // If true, the files will not be moved.
		Debug     bool   // Enables debug mode.
	}

	preprocessFunc func(path string) ([]float32, error)

	// predictionResult records one successfully classified image.
	predictionResult struct {
		Filename   string  // Base name of the image file.
		Label      string  // Winning category label.
		LabelNum   int     // Index of the winning category.
		Confidence float64 // Softmax probability of the winning category.
	}

	// failureRecord records an image that failed at some pipeline stage. The
	// stage and error feed the log stream; the error report only carries the
	// filename.
	failureRecord struct {
		Filename string
		Stage    string
		Err      error
	}

	// folderReport holds the two ledgers accumulated over one folder's run.
	folderReport struct {
		Folder    string // Base name of the processed folder.
		Successes []predictionResult
		Failures  []failureRecord
	}
)

// Pipeline stage names, recorded on failure.
const (
	stagePreprocess = "preprocess"
	stagePredict    = "predict"
	stageMove       = "move"
)

var (
	errMissingRootDir = errors.New("please specify the root directory")
	errMissingModel   = errors.New("please specify the model file")
	errDecodeImage    = errors.New("failed to decode image")
	errInference      = errors.New("inference failed")
	errCategoryDir    = errors.New("failed to create category directory")
	errScanFolder     = errors.New("failed to scan folder")
)

// newSorter initializes a sorter with the provided params and classifier,
// the production preprocessor, and the default ignore map.
func newSorter(params sorterParams, model classifier) *sorter {
	return &sorter{
		params:      params,
		model:       model,
		preprocess:  loadAndPreprocess,
		ignoreMap:   getIgnoreMap(),
		categorySet: getCategorySet(),
	}
}

// run processes each first-level subfolder of the root directory, in sorted
// order, to completion before the next begins. A fatal error in one folder
// is reported and does not stop its siblings.
func (s *sorter) run() error {
	entries, err := os.ReadDir(s.params.RootDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if !s.ignoreMap[entry.Name()] {
				log.WithFields(log.Fields{"path": filepath.Join(s.params.RootDir, entry.Name())}).
					Warn("Skipping non-directory entry under root")
			}
			continue
		}

		folder := filepath.Join(s.params.RootDir, entry.Name())
		start := time.Now()

		report, err := s.processFolder(folder)
		if err != nil {
			log.WithFields(log.Fields{"folder": folder, "error": err}).Error("Folder aborted")
		}

		if err := flushReport(report, s.params.OutputDir); err != nil {
			log.WithFields(log.Fields{"folder": folder, "error": err}).Error("Error writing reports")
		}

		log.WithFields(log.Fields{"folder": entry.Name(), "time_taken": time.Since(start)}).Info("Folder finished")
	}

	return nil
}

// processFolder runs one folder through the pipeline and returns its report.
// Per-entry failures land in the report's failure ledger and never abort the
// batch; the returned error is non-nil only for the two structural failures
// (unreadable folder, category folder creation), which abort this folder
// with whatever the report holds so far.
func (s *sorter) processFolder(folder string) (folderReport, error) {
	report := folderReport{Folder: filepath.Base(folder)}

	if err := s.ensureCategories(folder); err != nil {
		return report, err
	}

	// os.ReadDir returns entries sorted by filename, which fixes the report
	// row order.
	entries, err := os.ReadDir(folder)
	if err != nil {
		return report, fmt.Errorf("%w: %s: %v", errScanFolder, folder, err)
	}

	eligibleCount := 0
	for _, entry := range entries {
		if !s.eligible(entry) {
			continue
		}
		eligibleCount++

		name := entry.Name()
		result, failure := s.processEntry(folder, name)
		if failure != nil {
			log.WithFields(log.Fields{"file": name, "stage": failure.Stage, "error": failure.Err}).
				Error("Error processing image")
			report.Failures = append(report.Failures, *failure)
			continue
		}

		log.WithFields(log.Fields{"file": name, "label": result.Label, "probability": result.Confidence}).
			Debug("Classified image")
		report.Successes = append(report.Successes, *result)
	}

	log.WithFields(log.Fields{
		"folder":    report.Folder,
		"eligible":  eligibleCount,
		"succeeded": len(report.Successes),
		"failed":    len(report.Failures),
	}).Info("Processed folder")

	return report, nil
}

// eligible reports whether a folder entry is a candidate image: a
// non-directory whose extension is on the allow-list and whose name is
// neither a category label nor on the ignore list. Ineligible entries are
// skipped silently and appear in neither ledger.
func (s *sorter) eligible(entry os.DirEntry) bool {
	name := entry.Name()
	if entry.IsDir() || s.ignoreMap[name] || s.categorySet[name] {
		return false
	}
	return isImageFile(name)
}

// processEntry runs one file through preprocess, predict, decide, and
// dispose. Exactly one of the return values is non-nil; on failure the file
// stays at its original path.
func (s *sorter) processEntry(folder, name string) (*predictionResult, *failureRecord) {
	path := filepath.Join(folder, name)

	tensor, err := s.preprocess(path)
	if err != nil {
		return nil, &failureRecord{Filename: name, Stage: stagePreprocess, Err: err}
	}

	probs, err := s.model.predict(tensor)
	if err != nil {
		return nil, &failureRecord{Filename: name, Stage: stagePredict, Err: err}
	}

	index, confidence := decide(probs)
	label := categories[index]

	if _, err := s.dispose(path, label, folder); err != nil {
		return nil, &failureRecord{Filename: name, Stage: stageMove, Err: err}
	}

	return &predictionResult{
		Filename:   name,
		Label:      label,
		LabelNum:   index,
		Confidence: confidence,
	}, nil
}
