package driven

import (
	"context"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

// LabelSource streams raw label documents from the source collection.
// The stream is finite and not restartable once exhausted.
type LabelSource interface {
	// Documents starts streaming admissible documents. The document channel
	// closes when the stream is exhausted. A fatal parse error is delivered
	// on the error channel and terminates the stream at that point.
	Documents(ctx context.Context) (<-chan domain.RawLabel, <-chan error)

	// Count makes a full pass over the source and returns the total document
	// count, admissible or not, without retaining document bodies.
	Count(ctx context.Context) (int, error)
}

// TransformResult carries a transformed record together with the quality
// issues accumulated while producing it. Returning both as one value keeps
// the transformer free of per-call mutable state.
type TransformResult struct {
	Record domain.DrugRecord

	// Issues is the ordered audit trail of fallbacks and defaults applied.
	Issues []domain.QualityIssue
}

// Transformer maps one raw document into a canonical drug record.
type Transformer interface {
	// Transform normalises a raw document. It returns
	// domain.ErrRecordRejected when no usable drug name can be resolved;
	// rejected documents are excluded from loading, not treated as errors.
	Transform(raw domain.RawLabel) (*TransformResult, error)
}
