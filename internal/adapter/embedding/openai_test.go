package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv("NEURABASE_TEST_KEY", "")

	_, err := NewOpenAIEmbedder("NEURABASE_TEST_KEY", "text-embedding-3-small")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEURABASE_TEST_KEY")
}

func TestOpenAIEmbedder_DimensionFromModel(t *testing.T) {
	t.Setenv("NEURABASE_TEST_KEY", "sk-test")

	e, err := NewOpenAIEmbedder("NEURABASE_TEST_KEY", "text-embedding-3-large")
	require.NoError(t, err)
	assert.Equal(t, 3072, e.Dimension())
	assert.Equal(t, "text-embedding-3-large", e.ModelName())

	e, err = NewOpenAIEmbedder("NEURABASE_TEST_KEY", "custom", WithDimension(42))
	require.NoError(t, err)
	assert.Equal(t, 42, e.Dimension())
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	t.Setenv("NEURABASE_TEST_KEY", "sk-test")

	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		// Answer out of order; the client must restore input order.
		resp := embeddingResponse{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, embeddingData{
				Index:     i,
				Embedding: []float32{float32(len(req.Input[i])), 1},
			})
		}
		json.NewEncoder(w).Encode(resp)
	})

	e, err := NewOpenAICompatibleEmbedder("NEURABASE_TEST_KEY", "test-model", srv.URL, WithBatchSize(2))
	require.NoError(t, err)

	vecs, err := e.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{1, 1}, vecs[0])
	assert.Equal(t, []float32{2, 1}, vecs[1])
	assert.Equal(t, []float32{3, 1}, vecs[2])
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIEmbedder_Empty(t *testing.T) {
	e := NewOllamaEmbedder("nomic-embed-text", "http://127.0.0.1:1")

	vecs, err := e.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
	assert.Equal(t, 768, e.Dimension())
}

func TestOpenAIEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "status 429"},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`, "bad model"},
		{"bad json", http.StatusOK, `not json`, "failed to parse response"},
		{"missing vector", http.StatusOK, `{"data":[]}`, "no embedding for input 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			e := NewOllamaEmbedder("all-minilm", srv.URL)
			_, err := e.Embed(context.Background(), []string{"hello"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestOpenAIEmbedder_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewOllamaEmbedder("all-minilm", srv.URL)
	_, err := e.Embed(ctx, []string{"hello"})
	assert.ErrorIs(t, err, context.Canceled)
}
