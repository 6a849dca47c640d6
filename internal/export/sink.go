package export

import "balanceScope/internal/model"

// Sink consumes a reconstructed balance series.
type Sink interface {
	WriteSeries(series []model.TimelineEntry) error
}
