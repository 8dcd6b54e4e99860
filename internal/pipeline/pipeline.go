package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rivalscan/rivalscan/internal/errors"
	"github.com/rivalscan/rivalscan/internal/event"
	"github.com/rivalscan/rivalscan/internal/logging"
	"github.com/rivalscan/rivalscan/internal/search"
)

// Pipeline runs the four analysis stages in order, growing a Context and
// assembling a Report.
//
// Stages are strictly sequential: each stage's prompt folds in the startup
// description and the outputs of every stage before it, so no stage can
// start until its predecessor finished. The only failure that does not
// abort a run is search unavailability, which degrades the research stage
// to model knowledge.
type Pipeline struct {
	cfg  PipelineConfig
	pcfg pipelineConfig
}

// NewPipeline creates a Pipeline with the given configuration and options.
func NewPipeline(cfg PipelineConfig, opts ...PipelineOption) (*Pipeline, error) {
	if cfg.LLM == nil {
		return nil, errors.New("pipeline: LLM client is required")
	}
	if cfg.Bus == nil {
		return nil, errors.New("pipeline: Bus is required")
	}

	pc := &pipelineConfig{}
	for _, opt := range opts {
		opt(pc)
	}
	if pc.logger == nil {
		pc.logger = logging.NopLogger()
	}

	return &Pipeline{cfg: cfg, pcfg: *pc}, nil
}

// Run executes every stage in order and returns the assembled report.
//
// On a fatal stage failure the returned report holds the outputs of the
// stages that finished, with FailedStage naming the one that did not, and
// the error identifies that stage. A degraded run (search unavailable) is
// still a successful run; the report's Degraded flag records it.
func (p *Pipeline) Run(ctx context.Context, description string) (*Report, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.NewValidationError("startup description is required").
			WithField("description")
	}

	runID := generateID()
	log := p.pcfg.logger.WithRun(runID)
	stageList := Stages()
	started := time.Now()

	report := &Report{
		RunID:       runID,
		Description: description,
		Model:       p.pcfg.modelName,
		StartedAt:   started,
	}
	pctx := NewContext(runID, description)

	p.cfg.Bus.Publish(event.NewRunStartedEvent(runID, description, StageNames()))
	log.Info("run started", "stages", len(stageList))

	for i, sd := range stageList {
		p.cfg.Bus.Publish(event.NewStageStartedEvent(
			runID, sd.Stage.String(), i, len(stageList), sd.UsesSearch))
		stageStart := time.Now()

		out, meta, err := p.runStage(ctx, sd, pctx)
		if err != nil {
			report.FailedStage = sd.Stage
			report.FinishedAt = time.Now()
			log.Error("stage failed", "stage", sd.Stage, "error", err)
			p.cfg.Bus.Publish(event.NewRunFailedEvent(
				runID, sd.Stage.String(), err.Error(), completedNames(pctx)))
			return report, err
		}

		pctx.Append(out)
		report.Outputs = append(report.Outputs, out)
		if meta.degraded {
			report.Degraded = true
		}

		p.cfg.Bus.Publish(event.NewStageCompletedEvent(
			runID, sd.Stage.String(), i, len(stageList),
			utf8.RuneCountInString(out.Text), meta.resultCount, meta.degraded,
			time.Since(stageStart)))
		log.Info("stage completed",
			"stage", sd.Stage, "chars", utf8.RuneCountInString(out.Text),
			"duration", time.Since(stageStart))
	}

	report.FinishedAt = time.Now()
	p.cfg.Bus.Publish(event.NewRunCompletedEvent(
		runID, len(stageList), report.Degraded, time.Since(started)))
	log.Info("run completed", "degraded", report.Degraded, "duration", time.Since(started))

	return report, nil
}

// stageMeta carries per-stage bookkeeping back to the run loop.
type stageMeta struct {
	resultCount int
	degraded    bool
}

// runStage executes one stage: optional search, prompt render, completion.
// Search unavailability degrades the stage; every other error is fatal and
// names the stage.
func (p *Pipeline) runStage(ctx context.Context, sd StageDescriptor, pctx *Context) (StageOutput, stageMeta, error) {
	var meta stageMeta

	if ctx.Err() != nil {
		return StageOutput{}, meta, errors.Wrapf(errors.ErrCanceled, "stage %s", sd.Stage)
	}

	log := p.pcfg.logger.WithRun(pctx.RunID).WithStage(sd.Stage.String())

	var evidence []search.Result
	if sd.UsesSearch {
		query := searchQuery(pctx.Description)
		if p.cfg.Search == nil {
			meta.degraded = true
			log.Warn("no search provider configured, continuing without evidence")
			p.cfg.Bus.Publish(event.NewSearchDegradedEvent(
				pctx.RunID, sd.Stage.String(), query, "no search provider configured"))
		} else {
			results, err := p.cfg.Search.Search(ctx, query, p.pcfg.maxResults)
			switch {
			case err == nil:
				// Zero hits is still a successful search.
				evidence = results
				meta.resultCount = len(results)
			case errors.IsFatal(err):
				return StageOutput{}, meta, errors.Wrapf(err, "stage %s", sd.Stage)
			default:
				meta.degraded = true
				log.Warn("search unavailable, continuing without evidence", "error", err)
				p.cfg.Bus.Publish(event.NewSearchDegradedEvent(
					pctx.RunID, sd.Stage.String(), query, err.Error()))
			}
		}
	}

	prompt := renderPrompt(sd, pctx, evidence, meta.degraded, p.pcfg.maxPromptChars)

	text, err := p.cfg.LLM.Complete(ctx, prompt, p.pcfg.maxTokens)
	if err != nil {
		var genErr *errors.GenerationError
		if errors.As(err, &genErr) {
			if genErr.Stage == "" {
				genErr.Stage = sd.Stage.String()
			}
			return StageOutput{}, meta, err
		}
		return StageOutput{}, meta, errors.Wrapf(err, "stage %s", sd.Stage)
	}

	return StageOutput{Stage: sd.Stage, Text: text}, meta, nil
}

// completedNames lists the stages that have produced output, in run order.
func completedNames(pctx *Context) []string {
	outs := pctx.Outputs()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.Stage.String()
	}
	return names
}

// generateID creates a short random hex ID
func generateID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
