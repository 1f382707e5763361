package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStateLifecycle(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateMeetingName)
	assert.Equal(t, StateMeetingName, m.GetState(1))

	// Состояния пользователей независимы
	assert.Equal(t, StateNone, m.GetState(2))

	m.SetState(1, StateNone)
	assert.Equal(t, StateNone, m.GetState(1))
}

func TestManagerData(t *testing.T) {
	m := NewManager()

	_, ok := m.GetData(1, "meeting_name")
	require.False(t, ok)

	m.SetData(1, "meeting_name", "Созвон")
	value, ok := m.GetData(1, "meeting_name")
	require.True(t, ok)
	assert.Equal(t, "Созвон", value)

	m.ClearState(1)
	_, ok = m.GetData(1, "meeting_name")
	assert.False(t, ok)
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, StateLoginUsername)
			m.SetData(id, "login_username", "user")
			m.GetState(id)
			m.ClearState(id)
		}(int64(i))
	}
	wg.Wait()
}
