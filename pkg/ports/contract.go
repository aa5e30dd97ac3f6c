package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowform/engine/pkg/domain"
)

// RunResponseStoreContract verifies that a ResponseStore implementation
// adheres to the interface contract. Adapter test suites call it against
// their concrete store.
func RunResponseStoreContract(t *testing.T, store ResponseStore) {
	ctx := context.Background()
	responseID := "contract-test-response-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewResponseState(responseID, "survey", "name")
		state.Answers["name"] = "Alice"
		state.Answers["rating"] = 4

		err := store.Save(ctx, responseID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, responseID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentBlockID, loaded.CurrentBlockID)
		assert.Equal(t, state.FormID, loaded.FormID)
		assert.Equal(t, "Alice", loaded.Answers["name"])
		// JSON persistence may convert int to float; only check presence.
		assert.NotNil(t, loaded.Answers["rating"])
	})

	t.Run("Conversation Round Trip", func(t *testing.T) {
		state := domain.NewResponseState(responseID, "survey", "chat")
		state.Conversations["chat"] = &domain.Conversation{
			Entries: []domain.QAPair{
				{Question: "Why?", Answer: "because", IsStarter: true},
			},
			Status:       domain.ConversationAwaitingFollowup,
			NextQuestion: "And then?",
		}

		err := store.Save(ctx, responseID, state)
		require.NoError(t, err)

		loaded, err := store.Load(ctx, responseID)
		require.NoError(t, err)
		conv := loaded.Conversations["chat"]
		require.NotNil(t, conv)
		require.Len(t, conv.Entries, 1)
		assert.Equal(t, "because", conv.Entries[0].Answer)
		assert.Equal(t, domain.ConversationAwaitingFollowup, conv.Status)
		assert.Equal(t, "And then?", conv.NextQuestion)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+responseID)
		assert.ErrorIs(t, err, domain.ErrResponseNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, responseID, domain.NewResponseState(responseID, "survey", "name"))
		require.NoError(t, err)

		err = store.Delete(ctx, responseID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, responseID)
		assert.ErrorIs(t, err, domain.ErrResponseNotFound, "Load after Delete should return ErrResponseNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := responseID + "-1"
		id2 := responseID + "-2"
		_ = store.Save(ctx, id1, domain.NewResponseState(id1, "survey", "name"))
		_ = store.Save(ctx, id2, domain.NewResponseState(id2, "survey", "name"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		responses, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, responses, id1)
		assert.Contains(t, responses, id2)
	})
}
