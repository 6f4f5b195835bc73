package types

// Analysis is the per-category assessment shape shown next to a resume.
// Nothing in this repository computes it; it is stored and returned as-is.
type Analysis struct {
	Content AnalysisCategory `json:"content"`
	Skills  AnalysisCategory `json:"skills"`
}

// AnalysisCategory is one scored category with the checklist items it covers
type AnalysisCategory struct {
	Score int      `json:"score" validate:"gte=0,lte=100"`
	Items []string `json:"items"`
}

// NewAnalysis returns the zero analysis with empty item lists.
func NewAnalysis() Analysis {
	return Analysis{
		Content: AnalysisCategory{Items: []string{}},
		Skills:  AnalysisCategory{Items: []string{}},
	}
}
