package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/domain"
)

func TestFingerprintStable(t *testing.T) {
	inputs := []SourceInput{{
		Source: "SQLite",
		Tables: []domain.Table{canonicalTable("diary",
			[]any{"A", "2024-01-10", 100.0},
		)},
	}}

	assert.Equal(t, Fingerprint(inputs), Fingerprint(inputs))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := func() []SourceInput {
		return []SourceInput{{
			Source: "SQLite",
			Tables: []domain.Table{canonicalTable("diary",
				[]any{"A", "2024-01-10", 100.0},
			)},
		}}
	}

	ref := Fingerprint(base())

	changedCell := base()
	changedCell[0].Tables[0].Rows[0][2] = 101.0
	assert.NotEqual(t, ref, Fingerprint(changedCell))

	changedSource := base()
	changedSource[0].Source = "Excel"
	assert.NotEqual(t, ref, Fingerprint(changedSource))

	changedSheet := base()
	changedSheet[0].Tables[0].Name = "diary2"
	assert.NotEqual(t, ref, Fingerprint(changedSheet))
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()

	_, ok := c.Get(1)
	assert.False(t, ok)

	ledger := []*domain.Trade{{Strategy: "A", NetPL: 100}}
	c.Put(1, ledger)

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, ledger, got)

	// A different key misses without disturbing the stored pass.
	_, ok = c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)

	c.Invalidate()
	_, ok = c.Get(1)
	assert.False(t, ok)
}
