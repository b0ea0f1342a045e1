package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

// Runner drives the row-by-row analysis loop. Processing is strictly
// sequential: one request in flight, one result appended per company, the
// output snapshot rewritten after every row.
type Runner struct {
	client  anthropic.Client
	journal *store.SQLiteStore // optional, may be nil
	aiCfg   config.AnthropicConfig
	delay   time.Duration
}

// NewRunner constructs a Runner. journal may be nil to disable journaling.
func NewRunner(client anthropic.Client, journal *store.SQLiteStore, aiCfg config.AnthropicConfig, delay time.Duration) *Runner {
	return &Runner{
		client:  client,
		journal: journal,
		aiCfg:   aiCfg,
		delay:   delay,
	}
}

// Run processes companies in input order and returns one result per company.
// A failed row never aborts the run: transport failures yield a minimal
// error-variant result, parse failures a full one, and the loop continues.
// The returned error covers only the loop's own plumbing (snapshot writes,
// cancellation during the inter-request wait).
func (r *Runner) Run(ctx context.Context, companies []model.Company, outputPath string) ([]model.AnalysisResult, error) {
	var limiter *rate.Limiter
	if r.delay > 0 {
		// Paces requests at least one delay apart; the first Wait consumes
		// the initial token immediately and there is no trailing wait.
		limiter = rate.NewLimiter(rate.Every(r.delay), 1)
	}

	results := make([]model.AnalysisResult, 0, len(companies))
	for i, company := range companies {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return results, eris.Wrap(err, "run: inter-request wait")
			}
		}

		zap.L().Info("run: processing company",
			zap.Int("row", i+1),
			zap.Int("total", len(companies)),
			zap.String("name", company.Name),
		)

		result := r.analyzeOne(ctx, company)
		results = append(results, result)
		r.record(ctx, company, result)

		if err := WriteResultsCSV(results, outputPath); err != nil {
			return results, eris.Wrap(err, "run: write snapshot")
		}
	}

	return results, nil
}

// analyzeOne sends one company's prompt and extracts the reply. A transport
// failure short-circuits the extractor and produces the minimal error
// variant.
func (r *Runner) analyzeOne(ctx context.Context, company model.Company) model.AnalysisResult {
	temp := r.aiCfg.Temperature
	resp, err := r.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       r.aiCfg.Model,
		MaxTokens:   r.aiCfg.MaxTokens,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(analysisSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: BuildAnalysisPrompt(company)},
		},
	})
	if err != nil {
		zap.L().Error("run: message request failed",
			zap.String("company", company.Name),
			zap.Error(err),
		)
		return model.AnalysisResult{
			CompanyName:    company.Name,
			TransportError: err.Error(),
		}
	}

	resp.Usage.LogCost(r.aiCfg.Model, "analyze")
	return ParseAnalysis(company, responseText(resp))
}

// record journals the outcome when a journal is configured. Journal failures
// are logged, not fatal: the CSV snapshot remains the primary output.
func (r *Runner) record(ctx context.Context, company model.Company, result model.AnalysisResult) {
	if r.journal == nil {
		return
	}
	if _, err := r.journal.RecordRun(ctx, company, result); err != nil {
		zap.L().Warn("run: journal write failed",
			zap.String("company", company.Name),
			zap.Error(err),
		)
	}
}
