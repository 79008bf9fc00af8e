package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKelvinToCelsius(t *testing.T) {
	assert.InDelta(t, 0.0, KelvinToCelsius(273.15), 1e-9)
	assert.InDelta(t, -73.15, KelvinToCelsius(200), 1e-9)
}

func TestDewpointFromSpecificHumidity(t *testing.T) {
	// At 1000 hPa with q ≈ 3.8 g/kg the vapor pressure is ≈ 6.112 hPa,
	// Bolton's reference value, so the dewpoint is ≈ 0 °C.
	q := 0.0038
	td := DewpointFromSpecificHumidity(1000, q)
	assert.InDelta(t, 0.0, td, 0.1)

	// Drier air at the same pressure must have a lower dewpoint.
	drier := DewpointFromSpecificHumidity(1000, q/2)
	assert.Less(t, drier, td)

	// The same humidity at lower pressure also lowers the dewpoint.
	aloft := DewpointFromSpecificHumidity(500, q)
	assert.Less(t, aloft, td)
}

func TestDewpointFromSpecificHumidity_ZeroHumidity(t *testing.T) {
	assert.True(t, math.IsNaN(DewpointFromSpecificHumidity(850, 0)))
}
