package render

// Style holds the page geometry and typography of rendered documents.
// Distances are millimetres on an A4 portrait page.
type Style struct {
	FontFamily string
	HeaderSize float64
	BodySize   float64

	MarginX    float64
	TopY       float64
	BodyWidth  float64
	LineHeight float64

	HeaderAdvance float64
	RuleOffset    float64
	RuleEndX      float64
	RuleWidth     float64

	PageBreakY float64

	LetterX     float64
	LetterTopY  float64
	LetterWidth float64
}

// DefaultStyle is the plain ATS-friendly layout.
func DefaultStyle() Style {
	return Style{
		FontFamily: "Helvetica",
		HeaderSize: 12,
		BodySize:   11,

		MarginX:    20,
		TopY:       20,
		BodyWidth:  170,
		LineHeight: 5,

		HeaderAdvance: 8,
		RuleOffset:    2,
		RuleEndX:      190,
		RuleWidth:     0.2,

		PageBreakY: 280,

		LetterX:     10,
		LetterTopY:  10,
		LetterWidth: 180,
	}
}
