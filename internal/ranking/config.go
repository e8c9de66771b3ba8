package ranking

// BM25Params holds the keyword scorer parameters.
type BM25Params struct {
	K1        float64 `yaml:"k1" json:"k1"`                 // term-frequency saturation, default 1.5
	B         float64 `yaml:"b" json:"b"`                   // length normalization strength in [0, 1]; 0 disables it
	AvgLength float64 `yaml:"avg_length" json:"avg_length"` // reference length in tokens, default 1500
}

// DefaultBM25Params returns k1=1.5, b=0.75, avgLength=1500.
func DefaultBM25Params() BM25Params {
	return BM25Params{K1: 1.5, B: 0.75, AvgLength: 1500}
}

// ApplyDefaults replaces non-positive K1 and AvgLength, and a B outside
// [0, 1], with their defaults.
func (p *BM25Params) ApplyDefaults() {
	def := DefaultBM25Params()
	if p.K1 <= 0 {
		p.K1 = def.K1
	}
	if p.B < 0 || p.B > 1 {
		p.B = def.B
	}
	if p.AvgLength <= 0 {
		p.AvgLength = def.AvgLength
	}
}

const (
	// normalizationPerKeyword is the per-keyword cap used to map raw BM25 sums into [0, 1].
	normalizationPerKeyword = 2.0

	// PhraseBonusPerMatch is added for every phrase contained in the text.
	PhraseBonusPerMatch = 0.15
	// MaxPhraseBonus caps the total phrase bonus.
	MaxPhraseBonus = 0.5
)
