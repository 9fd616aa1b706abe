package settings

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreAppendAndList(t *testing.T) {
	store := NewStore(nil)
	assert.Empty(t, store.List())

	assert.NoError(t, store.Append("charizard"))
	assert.NoError(t, store.Append("  pikachu  "))
	assert.Equal(t, []string{"charizard", "pikachu"}, store.List())
}

func TestStoreRejectsEmptyTerm(t *testing.T) {
	store := NewStore(nil)
	assert.Error(t, store.Append(""))
	assert.Error(t, store.Append("   "))
	assert.Zero(t, store.Len())
}

func TestStoreIgnoresDuplicates(t *testing.T) {
	store := NewStore([]string{"charizard"})
	assert.NoError(t, store.Append("charizard"))
	assert.NoError(t, store.Append("CHARIZARD"))
	assert.Equal(t, 1, store.Len())
}

func TestStoreSeed(t *testing.T) {
	store := NewStore([]string{"charizard", "pikachu", ""})
	assert.Equal(t, []string{"charizard", "pikachu"}, store.List())
}

func TestStoreListReturnsCopy(t *testing.T) {
	store := NewStore([]string{"charizard"})
	list := store.List()
	list[0] = "mutated"
	assert.Equal(t, []string{"charizard"}, store.List())
}

func TestStoreConcurrentAppend(t *testing.T) {
	store := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(fmt.Sprintf("term-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
