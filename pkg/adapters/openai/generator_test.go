package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowform/engine/pkg/adapters/openai"
	"github.com/flowform/engine/pkg/domain"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func testConversation() *domain.Conversation {
	return &domain.Conversation{
		Entries: []domain.QAPair{
			{Question: "What was the hardest part?", Answer: "the locking", IsStarter: true},
		},
		Status: domain.ConversationAwaitingFollowup,
	}
}

func testBlock() *domain.Block {
	return &domain.Block{
		ID:    "chat",
		Type:  domain.BlockDynamic,
		Title: "Postmortem interview",
		Settings: domain.BlockSettings{
			StarterPrompt: "What was the hardest part?",
			MaxQuestions:  5,
		},
	}
}

func TestGenerateFollowUp_Question(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, completionResponse(`{"question": "Why was the locking hard?"}`))
	})

	gen := openai.New(srv.URL, openai.WithAPIKey("test-key"), openai.WithModel("test-model"))
	fu, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.NoError(t, err)
	assert.Equal(t, "Why was the locking hard?", fu.Question)
	assert.False(t, fu.Done)

	// The transcript rides along as alternating assistant/user messages.
	assert.Equal(t, "test-model", captured.Model)
	require.GreaterOrEqual(t, len(captured.Messages), 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "What was the hardest part?", captured.Messages[2].Content)
	assert.Equal(t, "the locking", captured.Messages[3].Content)
}

func TestGenerateFollowUp_Done(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse(`{"done": true}`))
	})

	gen := openai.New(srv.URL)
	fu, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.NoError(t, err)
	assert.True(t, fu.Done)
	assert.Empty(t, fu.Question)
}

func TestGenerateFollowUp_FencedJSON(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse("```json\n{\"question\": \"And then?\"}\n```"))
	})

	gen := openai.New(srv.URL)
	fu, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.NoError(t, err)
	assert.Equal(t, "And then?", fu.Question)
}

func TestGenerateFollowUp_BareText(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse("What tooling did you use?"))
	})

	gen := openai.New(srv.URL)
	fu, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.NoError(t, err)
	assert.Equal(t, "What tooling did you use?", fu.Question)
}

func TestGenerateFollowUp_EmptyContentMeansDone(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse(""))
	})

	gen := openai.New(srv.URL)
	fu, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.NoError(t, err)
	assert.True(t, fu.Done)
}

func TestGenerateFollowUp_APIError(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	gen := openai.New(srv.URL)
	_, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateFollowUp_NoChoices(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	})

	gen := openai.New(srv.URL)
	_, err := gen.GenerateFollowUp(context.Background(), testConversation(), testBlock())
	assert.Error(t, err)
}

func TestGenerateFollowUp_ContextCancelled(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	gen := openai.New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.GenerateFollowUp(ctx, testConversation(), testBlock())
	assert.Error(t, err)
}
