package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRerankClient_Score(t *testing.T) {
	tests := []struct {
		name       string
		documents  []string
		serverResp func(w http.ResponseWriter, r *http.Request)
		want       []float64
		wantErr    bool
	}{
		{
			name:      "scores aligned to input order",
			documents: []string{"a", "b", "c"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/rerank" {
					t.Errorf("expected /v1/rerank, got %s", r.URL.Path)
				}
				var req RerankRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Query != "question" || len(req.Documents) != 3 {
					t.Errorf("request = %+v", req)
				}
				_ = json.NewEncoder(w).Encode(RerankResponse{Results: []RerankResult{
					{Index: 2, RelevanceScore: 0.9},
					{Index: 0, RelevanceScore: 0.1},
					{Index: 1, RelevanceScore: 0.5},
				}})
			},
			want: []float64{0.1, 0.5, 0.9},
		},
		{
			name:      "missing scores",
			documents: []string{"a", "b"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(RerankResponse{Results: []RerankResult{{Index: 0, RelevanceScore: 1}}})
			},
			wantErr: true,
		},
		{
			name:      "index out of range",
			documents: []string{"a"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(RerankResponse{Results: []RerankResult{{Index: 4, RelevanceScore: 1}}})
			},
			wantErr: true,
		},
		{
			name:      "server error",
			documents: []string{"a"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewRerankClient(server.URL, "key", "bge-reranker")
			got, err := client.Score(context.Background(), "question", tt.documents)
			if tt.wantErr {
				if err == nil {
					t.Error("Score() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Score() unexpected error: %v", err)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Score()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRerankClient_Score_Empty(t *testing.T) {
	client := NewRerankClient("http://127.0.0.1:0", "", "m")
	got, err := client.Score(context.Background(), "q", nil)
	if err != nil || got != nil {
		t.Errorf("Score() = %v, %v, want nil, nil", got, err)
	}
}

func TestRerankClient_BreakerOpens(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRerankClient(server.URL, "", "m")
	for i := 0; i < 3; i++ {
		if _, err := client.Score(context.Background(), "q", []string{"d"}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := client.Score(context.Background(), "q", []string{"d"})
	if !errors.Is(err, ErrRerankUnavailable) {
		t.Errorf("Score() error = %v, want ErrRerankUnavailable", err)
	}
	if calls != 3 {
		t.Errorf("server received %d calls, want 3", calls)
	}
}
