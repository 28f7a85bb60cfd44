package domain

// Verdict is a classified risk level with its display strings.
type Verdict struct {
	Level       RiskLevel `json:"level"`
	Label       string    `json:"label"`
	Style       string    `json:"style"`
	Description string    `json:"description"`
}

var verdicts = map[RiskLevel]Verdict{
	RiskAwaiting: {
		Level:       RiskAwaiting,
		Label:       "Menunggu Data",
		Style:       "bg-gray-100 text-gray-400 border-gray-200",
		Description: "Klik Sinkron API untuk mengambil data cuaca asli.",
	},
	RiskLow: {
		Level:       RiskLow,
		Label:       "RISIKO RENDAH",
		Style:       "bg-green-100 text-green-700 border-green-200",
		Description: "Kondisi saat ini tergolong aman dari potensi longsor.",
	},
	RiskMedium: {
		Level:       RiskMedium,
		Label:       "RISIKO SEDANG",
		Style:       "bg-orange-100 text-orange-700 border-orange-200",
		Description: "Waspada. Potensi pergerakan tanah meningkat seiring hujan.",
	},
	RiskHigh: {
		Level:       RiskHigh,
		Label:       "RISIKO TINGGI",
		Style:       "bg-red-100 text-red-700 border-red-200",
		Description: "Bahaya! Potensi longsor ekstrem. Segera evakuasi wilayah lereng.",
	},
}

// VerdictFor returns the display verdict for a level. Unknown levels fall
// back to Awaiting.
func VerdictFor(level RiskLevel) Verdict {
	if v, ok := verdicts[level]; ok {
		return v
	}
	return verdicts[RiskAwaiting]
}

// Assess validates the input, classifies it, and returns the full verdict.
func Assess(in RiskInput) (Verdict, error) {
	if err := in.Validate(); err != nil {
		return Verdict{}, err
	}
	return VerdictFor(Classify(in)), nil
}
