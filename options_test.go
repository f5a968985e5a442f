package seqdict

import (
	"testing"

	"github.com/stretchr/testify/require"

	seqerrors "github.com/seqdict/seqdict/errors"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		total uint64
		opts  []Option
	}{
		{"zero total", "out.dict", 0, nil},
		{"empty path", "", 100, nil},
		{"zero digits", "out.dict", 100, []Option{WithDigits(0)}},
		{"negative digits", "out.dict", 100, []Option{WithDigits(-3)}},
		{"digits above max", "out.dict", 100, []Option{WithDigits(20)}},
		{"width cannot represent total", "out.dict", 101, []Option{WithDigits(2)}},
		{"zero chunk size", "out.dict", 100, []Option{WithChunkSize(0)}},
		{"zero workers", "out.dict", 100, []Option{WithWorkers(0)}},
		{"negative workers", "out.dict", 100, []Option{WithWorkers(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.path, tc.total, tc.opts...)
			var cfgErr *seqerrors.InvalidConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.NotEmpty(t, cfgErr.Reason)
		})
	}
}

func TestNewAcceptsBoundaryWidth(t *testing.T) {
	// Two digits represent exactly 100 values (00..99).
	_, err := New("out.dict", 100, WithDigits(2))
	require.NoError(t, err)

	_, err = New("out.dict", 100, WithDigits(3))
	require.NoError(t, err)
}

func TestPow10(t *testing.T) {
	require.EqualValues(t, 10, pow10(1))
	require.EqualValues(t, 100_000_000, pow10(8))
	require.EqualValues(t, uint64(10_000_000_000_000_000_000), pow10(19))
}

func TestRecordWidth(t *testing.T) {
	cfg := defaultConfig()
	require.EqualValues(t, 9, cfg.recordWidth())
}
