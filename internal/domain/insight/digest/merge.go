package digest

import "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"

// Merge picks the digest to show. Without a model digest the heuristic one is used as is;
// partial model output never reaches this point. The model digest only borrows the
// heuristic private memo when it has none of its own.
func Merge(heuristic ticket.Summary, model *ticket.Summary) ticket.Summary {
	if model == nil {
		return heuristic
	}
	merged := *model
	if merged.PrivateMemo == "" && heuristic.PrivateMemo != "" {
		merged.PrivateMemo = heuristic.PrivateMemo
	}
	return merged
}
