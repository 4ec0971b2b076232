package scoring

import "github.com/ozdeals/dealboard/internal/domain/model"

// ScoredDeal pairs a deal with its score breakdown for one evaluation
// time. This is the element type of the ranked listing returned to
// consumers; deal fields are inlined in the JSON encoding.
type ScoredDeal struct {
	model.Deal
	Score  float64 `json:"score"`
	Facets Facets  `json:"facets"`
}
