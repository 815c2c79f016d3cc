package quotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trophydesk/trophydesk/internal/catalog"
)

func TestGenerateJobCode(t *testing.T) {
	cat := catalog.Default()
	at := time.Date(2025, 8, 29, 14, 30, 0, 0, time.UTC)

	require.Equal(t, "250829-01-YW", GenerateJobCode(cat, "china_yiwu", 0, at))
	require.Equal(t, "250829-02-ZS", GenerateJobCode(cat, "china_zhongshan", 1, at))
	require.Equal(t, "250829-12-BN", GenerateJobCode(cat, "thai_bangna", 11, at))

	// Legacy spelling resolves through the alias table.
	require.Equal(t, "250829-01-YW", GenerateJobCode(cat, "chaina_yiwu", 0, at))

	// Unknown or unset factories fall back to the sentinel.
	require.Equal(t, "250829-01-XXX", GenerateJobCode(cat, "", 0, at))
	require.Equal(t, "250829-03-XXX", GenerateJobCode(cat, "mars_colony", 2, at))

	newYear := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "260102-01-KS", GenerateJobCode(cat, "china_kunshan", 0, newYear))
}
