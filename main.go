// Command landscape-sorter classifies batches of landscape photographs into
// Litton's seven visual-landscape categories using a pre-trained ONNX model.
// Each first-level subfolder of the root directory is processed in turn:
// every image is classified, moved into a subfolder named after its winning
// category, and recorded in a per-folder CSV report. Images that fail at any
// pipeline stage are left in place and recorded in a separate error CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Entry point of the program.
// Parses the command line arguments.
// Loads the classification model.
// Processes the subfolders of the root directory.
// Prints a message when done.
func main() {
	// Start the timer.
	start := time.Now()

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Parse the command line arguments.
	params, err := parseFlags()
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Fatal("Error parsing flags")
	}

	// Change logging level if debugging.
	if params.Debug {
		log.SetLevel(log.DebugLevel)
	}

	// Create the report directory.
	if err := os.MkdirAll(params.OutputDir, dirPerm); err != nil {
		log.WithFields(log.Fields{"path": params.OutputDir, "error": err}).Fatal("Error creating output directory")
	}

	// Load the model and bind it for the process lifetime.
	model, err := newONNXClassifier(params.ModelPath, params.OrtLib)
	if err != nil {
		log.WithFields(log.Fields{"model": params.ModelPath, "error": err}).Fatal("Error loading model")
	}
	defer model.close()

	// Process the subfolders.
	s := newSorter(params, model)
	if err := s.run(); err != nil {
		log.WithFields(log.Fields{"root": params.RootDir, "error": err}).Fatal("Error reading root directory")
	}

	log.WithFields(log.Fields{"time_taken": time.Since(start)}).Info("Done.")
}

// Parses the command line flags into sorterParams.
// Returns an error if required flags are not set.
func parseFlags() (sorterParams, error) {
	var params sorterParams

	// Set command line flags.
	flag.StringVar(&params.RootDir, "root", "", "the root directory whose first-level subfolders contain images")
	flag.StringVar(&params.ModelPath, "model", "", "path to the ONNX classification model")
	flag.StringVar(&params.OutputDir, "output", "output", "the directory for the CSV reports")
	flag.StringVar(&params.OrtLib, "ort", "", "path to the onnxruntime shared library")
	flag.BoolVar(&params.DryRun, "dry-run", false, "if true, the files will not be moved")
	flag.BoolVar(&params.Debug, "debug", false, "if true, enables debug mode")

	// Parse the command line flags.
	flag.Parse()

	// Check that the required root directory flag is set.
	if params.RootDir == "" {
		return params, fmt.Errorf("%w", errMissingRootDir)
	}
	// Check that the required model flag is set.
	if params.ModelPath == "" {
		return params, fmt.Errorf("%w", errMissingModel)
	}

	return params, nil
}
