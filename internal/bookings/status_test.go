package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	t.Run("payable statuses can expire", func(t *testing.T) {
		assert.True(t, StatusMenungguPembayaran.CanTransitionTo(StatusExpired))
		assert.True(t, StatusMenungguValidasi.CanTransitionTo(StatusExpired))
	})

	t.Run("validation only follows payment", func(t *testing.T) {
		assert.True(t, StatusMenungguPembayaran.CanTransitionTo(StatusMenungguValidasi))
		assert.False(t, StatusMenungguPembayaran.CanTransitionTo(StatusLunas))
		assert.False(t, StatusMenungguPembayaran.CanTransitionTo(StatusDitolak))
	})

	t.Run("terminal statuses allow no transitions", func(t *testing.T) {
		for _, terminal := range []Status{StatusLunas, StatusDitolak, StatusExpired} {
			assert.True(t, terminal.IsTerminal(), terminal)
			for _, target := range []Status{StatusMenungguPembayaran, StatusMenungguValidasi, StatusLunas, StatusDitolak, StatusExpired} {
				assert.False(t, terminal.CanTransitionTo(target), "%s -> %s", terminal, target)
			}
		}
	})
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, StatusLunas.IsValid())
	assert.False(t, Status("paid").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "menunggu pembayaran", StatusMenungguPembayaran.Display())
	assert.Equal(t, "lunas", StatusLunas.Display())
}
