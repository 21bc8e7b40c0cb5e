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

type GeminiProvider struct {
	ApiKey    string
	Model     string
	BatchSize int
	client    *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:    apiKey,
		Model:     "text-embedding-004",
		BatchSize: DefaultBatchSize,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequestContentPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestContentPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	geminiReq := geminiEmbeddingRequest{
		Model: p.Model,
		Content: geminiRequestContent{
			Parts: []geminiRequestContentPart{
				{Text: text},
			},
		},
		TaskType: "RETRIEVAL_DOCUMENT",
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "marshal gemini request: %v", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.Model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "build gemini request: %v", err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "gemini request failed: %v", err)
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "read gemini response: %v", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding,
			"error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding geminiEmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEmbedding, "decode gemini response: %v", err)
	}

	return similarity.Normalize(resEmbedding.Embedding.Values), nil
}

func (p *GeminiProvider) BatchGenerate(ctx context.Context, texts []string) ([][]float32, error) {
	return batchGenerate(ctx, texts, p.BatchSize, p.Generate)
}

// Dimension reports text-embedding-004's output width.
func (p *GeminiProvider) Dimension() int {
	return 768
}
