package main

import (
	"fmt"
	"math"

	ort "github.com/yalue/onnxruntime_go"
)

// The tensor names baked into the exported ONNX graph.
const (
	onnxInputName  = "input"
	onnxOutputName = "output"
)

// classifier produces a softmax-normalized probability vector, one entry per
// category, from a preprocessed image tensor.
type classifier interface {
	predict(input []float32) ([]float32, error)
}

// onnxClassifier wraps the pre-trained landscape model behind an ONNX
// runtime session. The input and output tensors are allocated once and
// reused across calls; predict never mutates session state beyond them, so
// sequential calls are independent.
type onnxClassifier struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// newONNXClassifier initializes the ONNX runtime environment and loads the
// model at modelPath. When ortLib is non-empty it points at the onnxruntime
// shared library to use.
func newONNXClassifier(modelPath, ortLib string) (*onnxClassifier, error) {
	if ortLib != "" {
		ort.SetSharedLibraryPath(ortLib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime environment: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, cropSize, cropSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(categories))))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{onnxInputName}, []string{onnxOutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxClassifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// predict runs one forward pass and returns the softmax-normalized
// probabilities. The model's raw output is unnormalized class scores.
func (c *onnxClassifier) predict(input []float32) ([]float32, error) {
	copy(c.inputTensor.GetData(), input)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInference, err)
	}

	return softmax(c.outputTensor.GetData()), nil
}

// close releases the session, its tensors, and the runtime environment.
func (c *onnxClassifier) close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// softmax converts raw scores to probabilities that are non-negative and sum
// to 1. The maximum score is subtracted first so large scores cannot
// overflow the exponential.
func softmax(scores []float32) []float32 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	exps := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		exps[i] = math.Exp(float64(s - maxScore))
		sum += exps[i]
	}

	probs := make([]float32, len(scores))
	for i := range exps {
		probs[i] = float32(exps[i] / sum)
	}
	return probs
}
