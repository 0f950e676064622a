package result

// Dimensions is the fixed set of scoring axes the judge rates each
// response pair on. Scores are on a 0-10 scale.
var Dimensions = []string{
	"accuracy",
	"completeness",
	"best_practices",
	"error_avoidance",
	"specificity",
}

// DimensionScores maps each dimension name to its 0-10 score.
type DimensionScores map[string]float64

// ScoreRecord holds a fully populated judgment for one trial. A record
// is either complete (all five dimensions under both sides) or absent;
// partial records are never constructed.
type ScoreRecord struct {
	Control   DimensionScores `json:"control"`
	Treatment DimensionScores `json:"treatment"`
}

// Trial is one evaluation prompt run through both conditions. Scores is
// nil until the judge produces a valid record, and stays nil if it
// never does.
type Trial struct {
	Index     int          `json:"trial"`
	Prompt    string       `json:"prompt"`
	Control   string       `json:"control_response"`
	Treatment string       `json:"treatment_response"`
	Scores    *ScoreRecord `json:"scores,omitempty"`
}
