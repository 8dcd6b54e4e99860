package pipeline

// StageDescriptor defines one stage: the persona the model adopts, the task
// it performs, and whether the stage consults the search provider. The
// pipeline is the ordered list of these descriptors; adding a stage means
// adding a row, not writing new control flow.
type StageDescriptor struct {
	Stage      Stage
	Title      string // Section heading in prompts and the report
	Role       string // Persona name
	Goal       string // What the persona is trying to achieve
	Backstory  string // One line of credibility for the persona
	Task       string // The instruction for this stage
	Expected   string // Shape of the output the task should produce
	UsesSearch bool   // True when the stage folds in web search evidence
}

// stages is the fixed run order. Every run processes all four in sequence;
// there is no branching and no retry.
var stages = []StageDescriptor{
	{
		Stage:      StageMarketResearch,
		Title:      "Market Research",
		Role:       "Market Researcher",
		Goal:       "find competitors and analyze their positioning",
		Backstory:  "an expert in scraping data and identifying market trends",
		Task:       "Find 5 competitors for the startup described below. List their names and URLs.",
		Expected:   "A list of competitors with names and URLs.",
		UsesSearch: true,
	},
	{
		Stage:     StageFeatureAnalysis,
		Title:     "Feature Analysis",
		Role:      "Feature Analyst",
		Goal:      "compare features and identify gaps",
		Backstory: "a product manager with 10+ years in competitive analysis",
		Task:      "Analyze the features of the competitors found in the market research below.",
		Expected:  "A feature comparison table with gaps identified.",
	},
	{
		Stage:     StageDifferentiation,
		Title:     "Differentiation Strategy",
		Role:      "Differentiation Strategist",
		Goal:      "suggest unique positioning and differentiation strategies",
		Backstory: "a marketing expert specializing in competitive differentiation",
		Task:      "Suggest how to differentiate the startup from the competitors found in the previous analyses.",
		Expected:  "3-5 unique positioning strategies with rationale.",
	},
	{
		Stage:     StageGTM,
		Title:     "Go-To-Market Strategy",
		Role:      "Go-To-Market Coach",
		Goal:      "analyze competitors' go-to-market strategies and suggest improvements",
		Backstory: "a growth hacker with experience launching 50+ startups",
		Task:      "Propose a go-to-market strategy for the startup based on competitor weaknesses.",
		Expected:  "A competitor go-to-market analysis followed by 3 actionable launch tactics.",
	},
}

// Stages returns the stage descriptors in run order. The returned slice is
// a copy; callers cannot reorder the pipeline.
func Stages() []StageDescriptor {
	out := make([]StageDescriptor, len(stages))
	copy(out, stages)
	return out
}

// StageNames returns the stage identifiers in run order.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, sd := range stages {
		names[i] = sd.Stage.String()
	}
	return names
}

// descriptorFor returns the descriptor for the given stage.
func descriptorFor(stage Stage) (StageDescriptor, bool) {
	for _, sd := range stages {
		if sd.Stage == stage {
			return sd, true
		}
	}
	return StageDescriptor{}, false
}
