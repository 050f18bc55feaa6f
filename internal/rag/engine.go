package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_retriever.go -package=mocks docqa/internal/rag ChunkRetriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_streamer.go -package=mocks docqa/internal/rag ChatStreamer

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
	"docqa/internal/llm"
	"docqa/internal/storage"
)

const memoryHeading = "User memory (profile facts):"

const systemPromptTemplate = `You are an assistant that answers questions about the user's documents.
Answer using the CONTEXT below. Use the USER MEMORY to personalise the answer when it is relevant.
If the context does not contain the answer, say that you do not know. Do not make things up.

USER MEMORY:
%s

CONTEXT:
%s`

// ChunkRetriever returns candidate chunks visible to userID.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query, userID string) ([]indexer.Chunk, error)
}

// ChatStreamer streams a chat completion fragment by fragment.
type ChatStreamer interface {
	StreamChat(ctx context.Context, messages []llm.Message, params llm.ChatParams, callback func(chunk string) error) error
}

// Engine answers questions from retrieved, reranked chunks and the user's memory.
type Engine struct {
	retriever ChunkRetriever
	reranker  Reranker
	chat      ChatStreamer
	memory    storage.MemoryStore
}

// NewEngine creates a new answer engine.
func NewEngine(retriever ChunkRetriever, reranker Reranker, chat ChatStreamer, memory storage.MemoryStore) *Engine {
	return &Engine{
		retriever: retriever,
		reranker:  reranker,
		chat:      chat,
		memory:    memory,
	}
}

// Query retrieves and reranks the chunks for question that userID may see.
func (e *Engine) Query(ctx context.Context, question, userID string) ([]indexer.Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	candidates, err := e.retriever.Retrieve(ctx, question, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chunks: %w", err)
	}

	chunks := e.reranker.Rerank(ctx, question, candidates)
	logger.InfoContext(ctx, "query completed", "user_id", userID, "candidates", len(candidates), "chunks", len(chunks))
	return chunks, nil
}

// Answer generates an answer for question, calling onFragment for each streamed
// fragment when it is non-nil. The interaction is stored in userID's memory afterwards.
func (e *Engine) Answer(ctx context.Context, question, userID string, onFragment func(string) error) (*AnswerResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	chunks, err := e.Query(ctx, question, userID)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	contextText := strings.Join(contents, "\n\n")
	memoryText := e.memoryContext(ctx, userID)

	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, memoryText, contextText)},
		{Role: "user", Content: question},
	}

	logger.InfoContext(ctx, "sending request to LLM",
		"chunks_included", len(chunks),
		"context_length", len(contextText),
		"memory_length", len(memoryText),
	)

	var answer strings.Builder
	err = e.chat.StreamChat(ctx, messages, llm.ChatParams{}, func(fragment string) error {
		answer.WriteString(fragment)
		if onFragment != nil {
			return onFragment(fragment)
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	result := &AnswerResult{Answer: answer.String(), Sources: sourcesOf(chunks)}

	if userID != "" {
		interaction := fmt.Sprintf("User: %s\nSystem: %s", question, result.Answer)
		if err := e.memory.Add(ctx, interaction, userID); err != nil {
			logger.WarnContext(ctx, "failed to store interaction in memory", "user_id", userID, "error", err)
		}
	}

	logger.InfoContext(ctx, "answer completed", "answer_length", len(result.Answer), "sources", len(result.Sources))
	return result, nil
}

// memoryContext renders userID's facts as deduplicated bullets under a heading,
// or "" when there are none or the store fails.
func (e *Engine) memoryContext(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}

	records, err := e.memory.GetAll(ctx, userID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to load memory", "user_id", userID, "error", err)
		return ""
	}

	seen := make(map[string]bool, len(records))
	var b strings.Builder
	for _, r := range records {
		text := strings.TrimSpace(r.Text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		if b.Len() == 0 {
			b.WriteString(memoryHeading)
		}
		b.WriteString("\n- ")
		b.WriteString(text)
	}
	return b.String()
}
