package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081", "test-key", "test-model", 0.1)
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.Temperature != 0.1 {
		t.Errorf("NewClient() Temperature = %v, want 0.1", client.Temperature)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Error("missing Accept header")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, frame := range frames {
			_, _ = w.Write([]byte("data: " + frame + "\n\n"))
			flusher.Flush()
		}
	}))
}

func TestClient_StreamChat(t *testing.T) {
	tests := []struct {
		name       string
		frames     []string
		status     int
		wantChunks []string
		wantErr    bool
	}{
		{
			name: "successful streaming",
			frames: []string{
				`{"choices":[{"delta":{"content":"Hello"}}]}`,
				`{"choices":[{"delta":{"content":" "}}]}`,
				`{"choices":[{"delta":{"content":"world"}}]}`,
				`{"choices":[{"finish_reason":"stop"}]}`,
				`[DONE]`,
			},
			wantChunks: []string{"Hello", " ", "world"},
		},
		{
			name: "malformed frames skipped",
			frames: []string{
				`{"choices":[{"delta":{"content":"a"}}]}`,
				`not json`,
				`{"choices":[]}`,
				`{"choices":[{"delta":{"content":"b"}}]}`,
				`[DONE]`,
			},
			wantChunks: []string{"a", "b"},
		},
		{
			name: "stops at done marker",
			frames: []string{
				`{"choices":[{"delta":{"content":"x"}}]}`,
				`[DONE]`,
				`{"choices":[{"delta":{"content":"late"}}]}`,
			},
			wantChunks: []string{"x"},
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var server *httptest.Server
			if tt.status != 0 {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))
			} else {
				server = sseServer(t, tt.frames)
			}
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", 0.1)
			var receivedChunks []string

			messages := []Message{{Role: "user", Content: "Hello"}}
			err := client.StreamChat(context.Background(), messages, ChatParams{}, func(chunk string) error {
				receivedChunks = append(receivedChunks, chunk)
				return nil
			})

			if tt.wantErr {
				if err == nil {
					t.Errorf("StreamChat() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("StreamChat() unexpected error: %v", err)
				return
			}

			if strings.Join(receivedChunks, "|") != strings.Join(tt.wantChunks, "|") {
				t.Errorf("StreamChat() chunks = %q, want %q", receivedChunks, tt.wantChunks)
			}
		})
	}
}

func TestClient_StreamChat_Request(t *testing.T) {
	tests := []struct {
		name      string
		params    ChatParams
		wantModel string
		wantTemp  float32
		wantMax   int
	}{
		{
			name:      "client defaults",
			params:    ChatParams{},
			wantModel: "test-model",
			wantTemp:  0.1,
		},
		{
			name:      "overrides",
			params:    ChatParams{Model: "custom-model", MaxTokens: 100, Temperature: 0.7},
			wantModel: "custom-model",
			wantTemp:  0.7,
			wantMax:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}

				var req ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if !req.Stream {
					t.Error("expected stream=true")
				}
				if req.Model != tt.wantModel {
					t.Errorf("model = %q, want %q", req.Model, tt.wantModel)
				}
				if req.Temperature == nil || *req.Temperature != tt.wantTemp {
					t.Errorf("temperature = %v, want %v", req.Temperature, tt.wantTemp)
				}
				if req.MaxTokens != tt.wantMax {
					t.Errorf("max_tokens = %d, want %d", req.MaxTokens, tt.wantMax)
				}
				if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
					t.Errorf("messages = %+v, want system + user", req.Messages)
				}
				_, _ = w.Write([]byte("data: [DONE]\n\n"))
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model", 0.1)
			messages := []Message{
				{Role: "system", Content: "You are a helpful assistant"},
				{Role: "user", Content: "Hello"},
			}
			if err := client.StreamChat(context.Background(), messages, tt.params, func(string) error { return nil }); err != nil {
				t.Fatalf("StreamChat() error = %v", err)
			}
		})
	}
}

func TestClient_StreamChat_CallbackError(t *testing.T) {
	server := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"one"}}]}`,
		`{"choices":[{"delta":{"content":"two"}}]}`,
	})
	defer server.Close()

	stop := errors.New("client went away")
	calls := 0
	client := NewClient(server.URL, "", "m", 0)
	err := client.StreamChat(context.Background(), []Message{{Role: "user", Content: "q"}}, ChatParams{}, func(string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("StreamChat() error = %v, want wrapped callback error", err)
	}
	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
}
