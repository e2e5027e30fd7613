package shared

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookChainAppliesInOrder(t *testing.T) {
	chain := NewHookChain[string]()
	assert.Equal(t, 0, chain.Len())

	chain.Register(func(s string) string { return s + "-a" })
	chain.Register(func(s string) string { return s + "-b" })

	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, "x-a-b", chain.Apply("x"))
}

func TestHookChainEmptyIsIdentity(t *testing.T) {
	chain := NewHookChain[int]()
	assert.Equal(t, 42, chain.Apply(42))
}

func TestHookChainIgnoresNilHooks(t *testing.T) {
	chain := NewHookChain[string]()
	chain.Register(nil)
	assert.Equal(t, 0, chain.Len())
	assert.Equal(t, "x", chain.Apply("x"))
}

func TestHookChainConcurrentUse(t *testing.T) {
	chain := NewHookChain[string]()
	chain.Register(strings.ToUpper)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			chain.Register(func(s string) string { return s })
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, "ABC", chain.Apply("abc"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 11, chain.Len())
}
