package flow_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/stretchr/testify/require"
)

func TestOTPBufferInput(t *testing.T) {
	t.Parallel()

	var b flow.OTPBuffer

	require.True(t, b.Input(0, "4"))
	require.Equal(t, 1, b.Focus())

	for _, bad := range []string{"a", "12", " ", "٣", "-"} {
		require.False(t, b.Input(1, bad), bad)
	}
	require.False(t, b.Input(6, "1"))
	require.False(t, b.Input(-1, "1"))
	require.Equal(t, [flow.OTPLength]string{"4"}, b.Digits())

	require.True(t, b.Input(5, "9"))
	require.Equal(t, 5, b.Focus(), "focus stays on the last cell")

	require.True(t, b.Input(0, ""))
	require.Equal(t, 0, b.Focus())
	require.Equal(t, "9", b.Code())
}

func TestOTPBufferBackspace(t *testing.T) {
	t.Parallel()

	var b flow.OTPBuffer
	require.True(t, b.Paste("12"))

	b.Backspace(1)
	require.Equal(t, "1", b.Code())
	require.Equal(t, 1, b.Focus())

	b.Backspace(1)
	require.Equal(t, "1", b.Code(), "empty cell only moves focus")
	require.Equal(t, 0, b.Focus())

	b.Backspace(0)
	b.Backspace(0)
	require.Equal(t, "", b.Code())
	require.Equal(t, 0, b.Focus())
}

func TestOTPBufferPaste(t *testing.T) {
	t.Parallel()

	t.Run("fills from zero and resets", func(t *testing.T) {
		var b flow.OTPBuffer
		require.True(t, b.Input(4, "7"))
		require.True(t, b.Paste("123"))
		require.Equal(t, [flow.OTPLength]string{"1", "2", "3", "", "", ""}, b.Digits())
		require.Equal(t, 2, b.Focus(), "focus lands on the last pasted digit")
		require.False(t, b.Complete())

		require.True(t, b.Paste("4"))
		require.Equal(t, 0, b.Focus())
	})

	t.Run("truncates", func(t *testing.T) {
		var b flow.OTPBuffer
		require.True(t, b.Paste("12345678"))
		require.Equal(t, "123456", b.Code())
		require.True(t, b.Complete())
		require.Equal(t, 5, b.Focus())
	})

	t.Run("all or nothing", func(t *testing.T) {
		var b flow.OTPBuffer
		require.True(t, b.Paste("999999"))
		for _, bad := range []string{"12a456", " 123456", "123 456", "", "１２３"} {
			require.False(t, b.Paste(bad), bad)
			require.Equal(t, "999999", b.Code())
		}
	})
}

func TestOTPBufferInvariantUnderRandomInput(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	var b flow.OTPBuffer

	for range 2000 {
		i := r.IntN(flow.OTPLength+2) - 1
		switch r.IntN(4) {
		case 0:
			b.Input(i, strconv.Itoa(r.IntN(10)))
		case 1:
			b.Input(i, string(rune('a'+r.IntN(26))))
		case 2:
			b.Backspace(i)
		case 3:
			b.Paste(strconv.Itoa(r.IntN(100000000)))
		}

		for _, d := range b.Digits() {
			require.True(t, d == "" || (len(d) == 1 && d[0] >= '0' && d[0] <= '9'))
		}
		require.GreaterOrEqual(t, b.Focus(), 0)
		require.Less(t, b.Focus(), flow.OTPLength)
		require.Equal(t, b.Complete(), len(b.Code()) == flow.OTPLength)
	}
}
