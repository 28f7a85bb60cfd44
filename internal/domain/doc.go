// Package domain models landslide hazard data for Kecamatan Cireunghas
// (Sukabumi, Jawa Barat) and the rule engine that turns rainfall and slope
// elevation into a risk verdict.
//
// # Coordinates
//
// Every coordinate held in memory is latitude-first ([Coordinate] has Lat
// then Lon). GeoJSON documents use [lon, lat] order (RFC 7946); conversion
// happens once, at the load boundary in package catalog. Nothing downstream
// of the catalog ever sees a longitude-first pair.
//
// # Weather Data Source
//
// Current conditions come from the OpenWeatherMap "current weather" endpoint
// for a single fixed coordinate (default -6.9485, 107.0203). Units:
//
//	main.temp      degrees Celsius (units=metric), rounded to an integer
//	main.humidity  percent, 0-100
//	wind.speed     metres per second, converted to km/h (x3.6) and rounded
//	rain.1h        millimetres over the last hour, optional (absent = 0)
//
// Rounding is half-up (floor(x+0.5)), matching the dashboard this service
// replaced, so -2.5 rounds to -2.
//
// Estimated daily rainfall is rain.1h x 24, rounded. This is a linear
// extrapolation of the last hour, not a forecast.
//
// # Risk Classification
//
// The rule table is evaluated top to bottom, first match wins:
//
//	rainfall == 0 and elevation == 0   -> Awaiting (no data entered yet)
//	rainfall > 200 and elevation > 500 -> High
//	rainfall > 100 or  elevation > 300 -> Medium
//	otherwise                          -> Low
//
// Rainfall is millimetres per day, elevation is metres above sea level.
// Both comparisons in the High rule are strict. The Awaiting rule must come
// first because (0, 0) would otherwise classify as Low. Negative or
// non-finite inputs are rejected with a [ValidationError] before the table
// is consulted.
//
// Labels, descriptions and styling tokens are kept in a separate lookup
// ([VerdictFor]) so the rule table can be tested without presentation
// strings. The strings are Indonesian and are preserved verbatim.
package domain
