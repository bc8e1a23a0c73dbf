package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DexterHill0/SPWN-language/memory"
)

func TestTypeTagFormat(t *testing.T) {
	assert.Equal(t, "@int", TInt.Tag())
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	arena := memory.NewArena[StoredValue]()
	d := NewDict()
	d.Set("b", arena.Insert(StoredValue{Value: Int(1)}))
	d.Set("a", arena.Insert(StoredValue{Value: Int(2)}))
	d.Set("b", arena.Insert(StoredValue{Value: Int(3)}))

	assert.Equal(t, []string{"b", "a"}, d.Order)
}
