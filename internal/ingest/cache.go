package ingest

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"tradeledger/internal/domain"
)

// Cache memoizes one full reconcile pass keyed on a fingerprint of the
// raw inputs. Reconciliation is a pure re-derivation, so unchanged
// inputs may legally reuse the previous ledger. Invalidation is manual;
// a changed fingerprint simply misses.
type Cache struct {
	mu     sync.Mutex
	key    uint64
	ledger []*domain.Trade
	valid  bool
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached ledger when the key matches the stored pass.
func (c *Cache) Get(key uint64) ([]*domain.Trade, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.key != key {
		return nil, false
	}
	return c.ledger, true
}

// Put stores the result of a reconcile pass under its input key.
func (c *Cache) Put(key uint64, ledger []*domain.Trade) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.ledger = ledger
	c.valid = true
}

// Invalidate discards the stored pass so the next Get misses.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger = nil
	c.valid = false
}

// Fingerprint hashes the identity and content of the raw inputs so a
// repeat pass over unchanged tables can be answered from cache. Lengths
// are mixed in with every string so concatenation ambiguities cannot
// collide.
func Fingerprint(inputs []SourceInput) uint64 {
	h := xxhash.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(s)
	}
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}

	for _, in := range inputs {
		writeString(in.Source)
		for _, t := range in.Tables {
			writeString(t.Name)
			for _, c := range t.Columns {
				writeString(c)
			}
			for _, row := range t.Rows {
				for _, cell := range row {
					switch v := cell.(type) {
					case nil:
						writeString("\x00")
					case string:
						writeString(v)
					case []byte:
						writeString(string(v))
					case float64:
						writeFloat(v)
					case int64:
						writeFloat(float64(v))
					case int:
						writeFloat(float64(v))
					case time.Time:
						writeString(v.UTC().Format(time.RFC3339Nano))
					default:
						writeString(fmt.Sprint(v))
					}
				}
			}
		}
	}
	return h.Sum64()
}
