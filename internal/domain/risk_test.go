package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		rainfall  float64
		elevation float64
		expected  RiskLevel
	}{
		{"no data sentinel", 0, 0, RiskAwaiting},
		{"both strictly above high", 201, 501, RiskHigh},
		{"rain at high edge", 200, 501, RiskMedium},
		{"both at high edge", 200, 500, RiskMedium},
		{"elevation at high edge", 201, 500, RiskMedium},
		{"rain above medium", 101, 0, RiskMedium},
		{"rain at medium edge", 100, 0, RiskLow},
		{"elevation above medium", 0, 301, RiskMedium},
		{"elevation at medium edge", 0, 300, RiskLow},
		{"small rain only", 1, 0, RiskLow},
		{"small elevation only", 0, 1, RiskLow},
		{"fractional rain", 0.1, 0, RiskLow},
		{"heavy rain low slope", 500, 10, RiskMedium},
		{"high slope no rain", 0, 900, RiskMedium},
		{"extreme", 1000, 1000, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(RiskInput{RainfallMM: tt.rainfall, ElevationM: tt.elevation}))
		})
	}
}

func TestClassify_NonZeroInputsNeverAwait(t *testing.T) {
	for r := 0.0; r <= 400; r += 25 {
		for e := 0.0; e <= 800; e += 50 {
			in := RiskInput{RainfallMM: r, ElevationM: e}
			got := Classify(in)
			if r == 0 && e == 0 {
				assert.Equal(t, RiskAwaiting, got)
				continue
			}
			assert.Contains(t, []RiskLevel{RiskLow, RiskMedium, RiskHigh}, got, "input %+v", in)
			assert.Equal(t, got, Classify(in), "classification must be deterministic")
		}
	}
}

func TestRiskInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		input RiskInput
		field string
	}{
		{"negative rainfall", RiskInput{RainfallMM: -1}, "rainfall_mm"},
		{"negative elevation", RiskInput{ElevationM: -0.5}, "elevation_m"},
		{"NaN rainfall", RiskInput{RainfallMM: math.NaN()}, "rainfall_mm"},
		{"infinite elevation", RiskInput{ElevationM: math.Inf(1)}, "elevation_m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.True(t, IsValidation(err))
		})
	}

	assert.NoError(t, RiskInput{}.Validate())
	assert.NoError(t, RiskInput{RainfallMM: 120, ElevationM: 450}.Validate())
}

func TestAssess(t *testing.T) {
	v, err := Assess(RiskInput{})
	require.NoError(t, err)
	assert.Equal(t, "Menunggu Data", v.Label)
	assert.Equal(t, "Klik Sinkron API untuk mengambil data cuaca asli.", v.Description)

	v, err = Assess(RiskInput{RainfallMM: 50, ElevationM: 100})
	require.NoError(t, err)
	assert.Equal(t, RiskLow, v.Level)
	assert.Equal(t, "RISIKO RENDAH", v.Label)
	assert.Equal(t, "Kondisi saat ini tergolong aman dari potensi longsor.", v.Description)

	v, err = Assess(RiskInput{RainfallMM: 150, ElevationM: 100})
	require.NoError(t, err)
	assert.Equal(t, "RISIKO SEDANG", v.Label)
	assert.Equal(t, "Waspada. Potensi pergerakan tanah meningkat seiring hujan.", v.Description)

	v, err = Assess(RiskInput{RainfallMM: 250, ElevationM: 600})
	require.NoError(t, err)
	assert.Equal(t, "RISIKO TINGGI", v.Label)
	assert.Equal(t, "Bahaya! Potensi longsor ekstrem. Segera evakuasi wilayah lereng.", v.Description)
	assert.Equal(t, "bg-red-100 text-red-700 border-red-200", v.Style)

	_, err = Assess(RiskInput{RainfallMM: -5})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestVerdictFor_UnknownFallsBackToAwaiting(t *testing.T) {
	assert.Equal(t, VerdictFor(RiskAwaiting), VerdictFor(RiskLevel(42)))
}

func TestRiskLevel_Text(t *testing.T) {
	for _, l := range []RiskLevel{RiskAwaiting, RiskLow, RiskMedium, RiskHigh} {
		b, err := l.MarshalText()
		require.NoError(t, err)

		var back RiskLevel
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, l, back)
	}

	var l RiskLevel
	assert.Error(t, l.UnmarshalText([]byte("extreme")))
	assert.Equal(t, "RiskLevel(9)", RiskLevel(9).String())
}
