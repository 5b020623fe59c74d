package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizsight/bizsight/internal/model"
)

func report(id string) *model.AnalysisReport {
	return &model.AnalysisReport{ID: id, Location: "loc-" + id}
}

func TestPutGet(t *testing.T) {
	c := New(10)
	c.Put(report("a"))

	got := c.Get("a")
	require.NotNil(t, got)
	assert.Equal(t, "loc-a", got.Location)
	assert.Nil(t, c.Get("missing"))
}

func TestEviction_OldestOnly(t *testing.T) {
	c := New(50)
	for i := 0; i < 51; i++ {
		c.Put(report(fmt.Sprintf("r%d", i)))
	}

	assert.Equal(t, 50, c.Len())
	// Exactly the oldest entry is gone, the other 50 remain.
	assert.Nil(t, c.Get("r0"))
	for i := 1; i <= 50; i++ {
		assert.NotNil(t, c.Get(fmt.Sprintf("r%d", i)), "r%d should survive", i)
	}
}

func TestPut_ReplaceDoesNotEvict(t *testing.T) {
	c := New(2)
	c.Put(report("a"))
	c.Put(report("b"))

	updated := report("a")
	updated.Location = "updated"
	c.Put(updated)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "updated", c.Get("a").Location)
	assert.NotNil(t, c.Get("b"))
}

func TestPut_IgnoresNilAndEmptyID(t *testing.T) {
	c := New(2)
	c.Put(nil)
	c.Put(&model.AnalysisReport{})
	assert.Zero(t, c.Len())
}

func TestNew_NonPositiveCapacity(t *testing.T) {
	c := New(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		c.Put(report(fmt.Sprintf("r%d", i)))
	}
	assert.Equal(t, DefaultCapacity, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(20)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("g%d-%d", i, j)
				c.Put(report(id))
				c.Get(id)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, c.Len())
}
