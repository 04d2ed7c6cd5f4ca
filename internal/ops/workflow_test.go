package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/verrors"
)

// TestFullWorkflow exercises a complete session:
// record (logged) → record (skipped) → append → list → fetch → verify →
// tamper → verify (violation)
func TestFullWorkflow(t *testing.T) {
	led, err := ledger.New()
	require.NoError(t, err)

	cfg := config.DefaultConfig()

	// 1. Record an urgent event; it crosses the arousal threshold
	recOut, err := Record(led, cfg, RecordInput{Text: "URGENT HELP NEEDED NOW!"})
	require.NoError(t, err)
	require.True(t, recOut.Logged)
	require.NotNil(t, recOut.Entry)
	require.Equal(t, 1, recOut.Entry.Index)
	require.Equal(t, 85, recOut.Point.Arousal)

	// 2. Record a calm event; it stays off the chain
	recOut, err = Record(led, cfg, RecordInput{Text: "Thank you for your help."})
	require.NoError(t, err)
	require.False(t, recOut.Logged)
	require.Nil(t, recOut.Entry)
	require.Equal(t, 2, recOut.Length)

	// 3. Append a manually scored point
	appOut, err := AppendPoint(led, AppendInput{
		Arousal: 80, Valence: -30, ImpactScope: 1,
		Description: "manually flagged incident",
	})
	require.NoError(t, err)
	require.Equal(t, 2, appOut.Entry.Index)
	require.Equal(t, 3, appOut.Length)

	// 4. List: genesis plus the two logged entries, in chain order
	listOut, err := ListEntries(led, ListInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 3)
	require.Equal(t, 0, listOut.Items[0].Index)
	require.Equal(t, appOut.Entry.Hash, listOut.Items[2].Hash)

	// 5. Fetch the manual entry and check its linkage
	fetchOut, err := FetchEntry(led, FetchInput{Index: 2})
	require.NoError(t, err)
	require.Equal(t, listOut.Items[1].Hash, fetchOut.Entry.PreviousHash)

	// 6. Verify the intact chain
	verifyOut := VerifyChain(led)
	require.True(t, verifyOut.OK)
	require.Equal(t, 3, verifyOut.Length)

	// 7. Tamper with the first logged entry in place
	entry, ok := led.Entry(1)
	require.True(t, ok)
	entry.Point.Valence = 50

	// 8. Verify again: the content violation must surface
	verifyOut = VerifyChain(led)
	require.False(t, verifyOut.OK)
	require.NotNil(t, verifyOut.Violation)
	require.Equal(t, 1, verifyOut.Violation.Index)
	require.Equal(t, "content", verifyOut.Violation.Check)

	// Reads keep working on a tampered chain
	_, err = FetchEntry(led, FetchInput{Index: 1})
	require.NoError(t, err)

	// Missing index still reports NOT_FOUND
	_, err = FetchEntry(led, FetchInput{Index: 99})
	var vErr *verrors.VellumError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, verrors.ErrNotFound, vErr.Code)
}
