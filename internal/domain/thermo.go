package domain

import "math"

const (
	// epsilon is the ratio of the gas constants of dry air and water
	// vapor (Rd/Rv).
	epsilon = 0.622

	// Bolton (1980) saturation vapor pressure constants.
	boltonE0 = 6.112 // hPa
	boltonA  = 17.67
	boltonB  = 243.5 // °C

	kelvinOffset = 273.15
)

// KelvinToCelsius converts a temperature from kelvin to degrees Celsius.
func KelvinToCelsius(t float64) float64 {
	return t - kelvinOffset
}

// DewpointFromSpecificHumidity computes the dewpoint temperature in
// degrees Celsius from pressure (hPa) and specific humidity (kg/kg),
// inverting Bolton's saturation vapor pressure formula.
func DewpointFromSpecificHumidity(pressureHPa, q float64) float64 {
	// Mixing ratio from specific humidity.
	w := q / (1 - q)

	// Partial pressure of water vapor.
	e := pressureHPa * w / (epsilon + w)
	if e <= 0 {
		return math.NaN()
	}

	val := math.Log(e / boltonE0)
	return boltonB * val / (boltonA - val)
}
