package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-knowledge-be/pkg/apperrors"
	"ai-knowledge-be/pkg/similarity"
)

// OllamaProvider implements EmbeddingProvider for local Ollama models (e.g., nomic-embed-text)
type OllamaProvider struct {
	BaseURL   string
	Model     string
	Dim       int
	BatchSize int
	client    *http.Client
}

func NewOllamaProvider(baseURL string, model string, dimension int) EmbeddingProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	if dimension <= 0 {
		dimension = 768
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		Model:     model,
		Dim:       dimension,
		BatchSize: DefaultBatchSize,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Ollama Embedding Request/Response structures
type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"` // Ollama returns float64 usually
}

func (p *OllamaProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	reqBody := ollamaEmbeddingRequest{
		Model:  p.Model,
		Prompt: text,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "marshal ollama request: %v", err)
	}

	endpoint := fmt.Sprintf("%s/api/embeddings", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "build ollama request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "ollama request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "read ollama response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "ollama embedding error: %s", string(bodyBytes))
	}

	var ollamaResp ollamaEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "decode ollama response: %v", err)
	}

	// Convert float64 to float32 for compatibility with our system
	values := make([]float32, len(ollamaResp.Embedding))
	for i, v := range ollamaResp.Embedding {
		values[i] = float32(v)
	}

	// Cosine distance in pgvector requires normalized vectors (magnitude = 1)
	return similarity.Normalize(values), nil
}

func (p *OllamaProvider) BatchGenerate(ctx context.Context, texts []string) ([][]float32, error) {
	return batchGenerate(ctx, texts, p.BatchSize, p.Generate)
}

func (p *OllamaProvider) Dimension() int {
	return p.Dim
}
