// Package mcpserver exposes the recommender over the Model Context Protocol
// so agent clients can call prediction and lookup as tools.
package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/report"
	"github.com/prescripto/health-recommender/internal/service"
)

// Server wraps the MCP SDK server around the prediction service.
type Server struct {
	mcpServer *mcp.Server
	predictor *service.PredictionService
	logger    *logrus.Logger
}

// NewServer creates an MCP server with prediction and lookup tools.
func NewServer(predictor *service.PredictionService, logger *logrus.Logger) *Server {
	s := &Server{
		predictor: predictor,
		logger:    logger,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{Name: "prescripto-health-recommender", Version: "v0.1.0"},
		nil,
	)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "predict_disease",
		Description: "Predict a disease from a set of symptom names and return the associated description, precautions, medications, diet and workout recommendations.",
	}, s.handlePredictDisease)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Look up the reference-table recommendations for a known disease label. The label must match the reference tables exactly (case-sensitive).",
	}, s.handleGetRecommendations)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_symptoms",
		Description: "List the symptom vocabulary accepted by predict_disease, in encoder index order.",
	}, s.handleListSymptoms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_report",
		Description: "Run a prediction and render the result as a Markdown full report document.",
	}, s.handleGenerateReport)
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// --- Tool input/output types ---

type predictDiseaseInput struct {
	Symptoms []string `json:"symptoms" jsonschema:"symptom names to predict from"`
}

type predictDiseaseOutput struct {
	PredictionID string              `json:"prediction_id"`
	Result       domain.AnswerBundle `json:"result"`
	Unrecognized []string            `json:"unrecognized_symptoms,omitempty"`
}

type getRecommendationsInput struct {
	Disease string `json:"disease" jsonschema:"exact disease label to look up"`
}

type getRecommendationsOutput struct {
	Result domain.AnswerBundle `json:"result"`
}

type listSymptomsInput struct{}

type listSymptomsOutput struct {
	Symptoms []string `json:"symptoms"`
	Count    int      `json:"count"`
}

type generateReportInput struct {
	Symptoms []string `json:"symptoms" jsonschema:"symptom names to predict from"`
}

type generateReportOutput struct {
	PredictionID string `json:"prediction_id"`
	Markdown     string `json:"markdown"`
}

// --- Tool handlers ---

func (s *Server) handlePredictDisease(ctx context.Context, _ *mcp.CallToolRequest, input predictDiseaseInput) (*mcp.CallToolResult, predictDiseaseOutput, error) {
	if len(input.Symptoms) == 0 {
		return nil, predictDiseaseOutput{}, fmt.Errorf("select at least one symptom")
	}

	result, err := s.predictor.Predict(ctx, input.Symptoms)
	if err != nil {
		return nil, predictDiseaseOutput{}, err
	}

	return nil, predictDiseaseOutput{
		PredictionID: result.PredictionID,
		Result:       result.Bundle,
		Unrecognized: result.Unrecognized,
	}, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, _ *mcp.CallToolRequest, input getRecommendationsInput) (*mcp.CallToolResult, getRecommendationsOutput, error) {
	bundle := s.predictor.Recommender().Resolve(domain.DiseaseLabel(input.Disease))
	return nil, getRecommendationsOutput{Result: bundle}, nil
}

func (s *Server) handleListSymptoms(ctx context.Context, _ *mcp.CallToolRequest, _ listSymptomsInput) (*mcp.CallToolResult, listSymptomsOutput, error) {
	symptoms := s.predictor.Index().Symptoms()
	return nil, listSymptomsOutput{Symptoms: symptoms, Count: len(symptoms)}, nil
}

func (s *Server) handleGenerateReport(ctx context.Context, _ *mcp.CallToolRequest, input generateReportInput) (*mcp.CallToolResult, generateReportOutput, error) {
	if len(input.Symptoms) == 0 {
		return nil, generateReportOutput{}, fmt.Errorf("select at least one symptom")
	}

	result, err := s.predictor.Predict(ctx, input.Symptoms)
	if err != nil {
		return nil, generateReportOutput{}, err
	}

	full := &report.FullReport{
		PredictionID: result.PredictionID,
		GeneratedAt:  time.Now().UTC(),
		Symptoms:     input.Symptoms,
		Unrecognized: result.Unrecognized,
		Bundle:       result.Bundle,
	}

	return nil, generateReportOutput{
		PredictionID: result.PredictionID,
		Markdown:     report.RenderMarkdown(full),
	}, nil
}
