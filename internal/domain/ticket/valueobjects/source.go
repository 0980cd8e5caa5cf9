package valueobjects

// Source records which strategy produced a risk analysis or summary.
type Source string

const (
	SourceKeyword   Source = "keyword"
	SourceHeuristic Source = "heuristic"
	SourceModel     Source = "model"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	return s == SourceKeyword || s == SourceHeuristic || s == SourceModel
}
