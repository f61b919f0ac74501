package relay

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatEvent(text string) Event {
	return NewEvent(KindChat, json.RawMessage(fmt.Sprintf(`{"from":"p1","text":%q}`, text)))
}

func TestHistory_Snapshot(t *testing.T) {
	t.Run("none yet", func(t *testing.T) {
		history := NewHistory(10)

		snapshot, ok := history.Snapshot()

		assert.False(t, ok)
		assert.Nil(t, snapshot)
	})

	t.Run("last write wins", func(t *testing.T) {
		history := NewHistory(10)

		for i := 1; i <= 5; i++ {
			history.RecordSnapshot(json.RawMessage(fmt.Sprintf(`{"turn":%d}`, i)))
		}

		snapshot, ok := history.Snapshot()

		require.True(t, ok)
		assert.JSONEq(t, `{"turn":5}`, string(snapshot))
	})

	t.Run("null clears the snapshot", func(t *testing.T) {
		history := NewHistory(10)
		history.RecordSnapshot(json.RawMessage(`{"turn":1}`))
		history.RecordSnapshot(json.RawMessage(`null`))

		_, ok := history.Snapshot()

		assert.False(t, ok)
	})
}

func TestHistory_AppendChat(t *testing.T) {
	t.Run("keeps insertion order under capacity", func(t *testing.T) {
		history := NewHistory(3)
		history.AppendChat(chatEvent("A"))
		history.AppendChat(chatEvent("B"))

		chats := history.ChatHistory()

		require.Len(t, chats, 2)
		assert.Equal(t, chatEvent("A").Payload, chats[0].Payload)
		assert.Equal(t, chatEvent("B").Payload, chats[1].Payload)
	})

	t.Run("drops oldest past capacity", func(t *testing.T) {
		history := NewHistory(2)
		history.AppendChat(chatEvent("A"))
		history.AppendChat(chatEvent("B"))
		history.AppendChat(chatEvent("C"))

		chats := history.ChatHistory()

		require.Len(t, chats, 2)
		assert.Equal(t, chatEvent("B").Payload, chats[0].Payload)
		assert.Equal(t, chatEvent("C").Payload, chats[1].Payload)
	})

	t.Run("keeps the last C of many", func(t *testing.T) {
		const capacity = 7

		history := NewHistory(capacity)
		for i := 0; i < 100; i++ {
			history.AppendChat(chatEvent(fmt.Sprint(i)))
		}

		chats := history.ChatHistory()

		require.Len(t, chats, capacity)
		for i, chat := range chats {
			assert.Equal(t, chatEvent(fmt.Sprint(100-capacity+i)).Payload, chat.Payload)
		}
	})

	t.Run("returned history is a copy", func(t *testing.T) {
		history := NewHistory(2)
		history.AppendChat(chatEvent("A"))

		chats := history.ChatHistory()
		chats[0] = chatEvent("mutated")

		assert.Equal(t, chatEvent("A").Payload, history.ChatHistory()[0].Payload)
	})

	t.Run("default capacity", func(t *testing.T) {
		h := NewHistory(0)
		for i := 0; i <= DefaultChatCapacity; i++ {
			h.AppendChat(NewEvent(KindChat, json.RawMessage(fmt.Sprintf(`{"text":"%d"}`, i))))
		}

		chats := h.ChatHistory()
		require.Len(t, chats, DefaultChatCapacity)
		assert.JSONEq(t, `{"text":"1"}`, string(chats[0].Payload))
	})
}
