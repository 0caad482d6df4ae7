// Package classifier provides implementations of the classifier collaborator:
// a local ONNX Runtime session for the exported model and an HTTP client for
// a remote inference service. Both map an indicator vector to exactly one
// disease label.
package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/prescripto/health-recommender/internal/domain"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the shared ONNX Runtime environment once per
// process.
func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ONNXClassifier runs the exported classifier model through a local ONNX
// Runtime session. The session is created once and reused; Predict builds a
// fresh 1xN input tensor per call and argmaxes the score tensor into the
// label list exported alongside the model.
type ONNXClassifier struct {
	session    *ort.DynamicAdvancedSession
	labels     []string
	inputName  string
	outputName string
	logger     *logrus.Logger
	mu         sync.Mutex
}

// NewONNXClassifier loads the model and its label list.
func NewONNXClassifier(cfg domain.ClassifierConfig, logger *logrus.Logger) (*ONNXClassifier, error) {
	if err := initRuntime(cfg.OrtLibrary); err != nil {
		return nil, fmt.Errorf("initializing onnx runtime: %w", err)
	}

	labels, err := LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	inputName := cfg.InputName
	if inputName == "" {
		inputName = "float_input"
	}
	outputName := cfg.OutputName
	if outputName == "" {
		outputName = "scores"
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating onnx session for %s: %w", cfg.ModelPath, err)
	}

	logger.WithFields(logrus.Fields{
		"model":  cfg.ModelPath,
		"labels": len(labels),
	}).Info("ONNX classifier session created")

	return &ONNXClassifier{
		session:    session,
		labels:     labels,
		inputName:  inputName,
		outputName: outputName,
		logger:     logger,
	}, nil
}

// Predict runs one inference over the indicator vector.
func (c *ONNXClassifier) Predict(ctx context.Context, vector []float32) (domain.DiseaseLabel, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(vector))), vector)
	if err != nil {
		return "", fmt.Errorf("building input tensor: %w", err)
	}
	defer input.Destroy()

	// The session is not safe for concurrent Run calls.
	c.mu.Lock()
	outputs := []ort.Value{nil}
	err = c.session.Run([]ort.Value{input}, outputs)
	c.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("running onnx session: %w", err)
	}
	defer outputs[0].Destroy()

	scores, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return "", fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	data := scores.GetData()
	if len(data) == 0 {
		return "", fmt.Errorf("model produced an empty score tensor")
	}

	best := argmax(data)
	if best >= len(c.labels) {
		return "", fmt.Errorf("score index %d outside label list of size %d", best, len(c.labels))
	}
	return domain.DiseaseLabel(c.labels[best]), nil
}

// Close releases the ONNX session.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		err := c.session.Destroy()
		c.session = nil
		return err
	}
	return nil
}
