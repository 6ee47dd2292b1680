package idgen_test

import (
	"strings"
	"sync"
	"testing"

	"fulfillment-wms/controllers/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencePerPrefix(t *testing.T) {
	seq := idgen.NewSequence()

	assert.Equal(t, "REQ-0001", seq.NewID("REQ"))
	assert.Equal(t, "REQ-0002", seq.NewID("REQ"))
	assert.Equal(t, "PO-0001", seq.NewID("PO"))
}

func TestGeneratorsAreUnique(t *testing.T) {
	for _, strategy := range []string{"snowflake", "uuid", "sequence"} {
		t.Run(strategy, func(t *testing.T) {
			gen, err := idgen.New(strategy, 7)
			require.NoError(t, err)

			var (
				mu   sync.Mutex
				seen = make(map[string]bool)
				wg   sync.WaitGroup
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						id := gen.NewID("PKG")
						mu.Lock()
						seen[id] = true
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Len(t, seen, 800)
			for id := range seen {
				assert.True(t, strings.HasPrefix(id, "PKG-"))
			}
		})
	}
}

func TestUnknownStrategy(t *testing.T) {
	_, err := idgen.New("random", 1)
	assert.Error(t, err)
}

func TestGenerateIDWithoutInit(t *testing.T) {
	a := idgen.GenerateID()
	b := idgen.GenerateID()
	assert.NotEqual(t, a, b)
}
