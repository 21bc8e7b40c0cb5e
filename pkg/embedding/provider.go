package embedding

import "context"

// DefaultBatchSize bounds how many texts go to the backend per call.
const DefaultBatchSize = 32

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	BatchGenerate(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// batchGenerate runs texts through a single-text generator in slices of
// batchSize, preserving input order. Providers without a native batch
// endpoint share this loop.
func batchGenerate(
	ctx context.Context,
	texts []string,
	batchSize int,
	generate func(ctx context.Context, text string) ([]float32, error),
) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		for _, text := range texts[start:end] {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			vec, err := generate(ctx, text)
			if err != nil {
				return nil, err
			}
			results = append(results, vec)
		}
	}
	return results, nil
}
