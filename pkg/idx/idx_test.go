package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewProducesValidSortableIDs(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	require.NotEqual(t, a, b)

	_, err := Parse(a.String())
	require.NoError(t, err)

	// Monotonic entropy guarantees ordering within a process.
	require.Less(t, a.String(), b.String())
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "not-a-ulid", "0000"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	id := New()
	require.WithinDuration(t, time.Now().UTC(), id.Time(), 2*time.Second)
	require.True(t, Zero.Time().IsZero())
}
