package order

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	svc, _, _ := serviceFixture()

	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), Filter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + two rows
	assert.Equal(t, "order_id,date,customer,email,item_count,subtotal", lines[0])
	assert.Contains(t, buf.String(), "ord-1")
	assert.Contains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "250.00")
}

func TestSummarize(t *testing.T) {
	svc, _, _ := serviceFixture()

	st, err := svc.Summarize(context.Background(), Filter{})
	require.NoError(t, err)

	// subtotals are 250 and 100
	assert.Equal(t, 2, st.Count)
	assert.InDelta(t, 350, st.Revenue, 0.001)
	assert.InDelta(t, 175, st.Mean, 0.001)
	assert.InDelta(t, 175, st.Median, 0.001)
	assert.InDelta(t, 250, st.Max, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	svc := NewService(&fakeRepository{}, &fakeUserLookup{}, &fakeProductLookup{}, nil, nil)

	st, err := svc.Summarize(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Count)
	assert.Zero(t, st.Revenue)
}
