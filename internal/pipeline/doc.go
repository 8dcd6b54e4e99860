// Package pipeline runs the four-stage competitor analysis.
//
// # Stages
//
// A run processes a fixed, ordered list of [StageDescriptor] values:
// market research → feature analysis → differentiation → go-to-market.
// Each descriptor carries a persona and a task; the control flow is one
// loop over the list, so adding a stage means adding a descriptor, not
// new plumbing.
//
// # Execution
//
// [Pipeline.Run] validates the startup description, then executes each
// stage in order: the research stage first asks the search provider for
// competitor evidence, every stage renders a prompt from the description
// plus all earlier outputs, and the LLM client produces the stage's text.
// Stage outputs accumulate in a [Context] and the run assembles a [Report]
// whose Render method produces the markdown document.
//
// Search unavailability never aborts a run: the research stage proceeds on
// model knowledge and the report is marked degraded. A generation failure
// is fatal: the run stops, the error names the failed stage, and the
// report keeps the outputs that finished. Progress is published on the
// shared [event.Bus] for the terminal UI and the logs.
//
// # Usage
//
//	p, _ := pipeline.NewPipeline(pipeline.PipelineConfig{
//	    LLM:    llmClient,
//	    Search: searchClient,
//	    Bus:    bus,
//	}, pipeline.WithMaxResults(5))
//	report, err := p.Run(ctx, "Notion-like tool for video creators")
//	if err != nil {
//	    // report still holds the stages that finished
//	}
//	_ = os.WriteFile(out, []byte(report.Render()), 0o644)
package pipeline
