// Package fonts resolves font faces for stamp rendering with a best-effort
// search over installed system fonts and an embedded Go-font fallback, so a
// face is always available regardless of the host's font inventory.
package fonts

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects a stamp text weight tier.
type Weight string

const (
	WeightRegular Weight = "regular"
	WeightMedium  Weight = "medium"
	WeightBold    Weight = "bold"
)

// Serif candidates per weight, ordered by preference. The search order is
// fixed so the same runtime font inventory always resolves the same file.
var candidatePaths = map[Weight][]string{
	WeightBold: {
		"/usr/share/fonts/truetype/liberation/LiberationSerif-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSerif-Bold.ttf",
		"/System/Library/Fonts/Supplemental/Times New Roman Bold.ttf",
		"C:/Windows/Fonts/timesbd.ttf",
		"C:/Windows/Fonts/arialbd.ttf",
	},
	WeightMedium: {
		"/usr/share/fonts/truetype/liberation/LiberationSerif-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSerif-Bold.ttf",
		"/System/Library/Fonts/Supplemental/Georgia Bold.ttf",
		"C:/Windows/Fonts/georgiab.ttf",
		"C:/Windows/Fonts/calibrib.ttf",
	},
	WeightRegular: {
		"/usr/share/fonts/truetype/liberation/LiberationSerif-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSerif.ttf",
		"/System/Library/Fonts/Supplemental/Times New Roman.ttf",
		"C:/Windows/Fonts/times.ttf",
		"C:/Windows/Fonts/arial.ttf",
	},
}

func embeddedTTF(w Weight) []byte {
	switch w {
	case WeightBold:
		return gobold.TTF
	case WeightMedium:
		return gomedium.TTF
	default:
		return goregular.TTF
	}
}

type faceKey struct {
	size   int
	weight Weight
}

// Resolver loads and caches font faces. Safe for concurrent use.
type Resolver struct {
	mu     sync.Mutex
	parsed map[Weight]*opentype.Font
	faces  map[faceKey]font.Face
}

// NewResolver creates an empty resolver; fonts are parsed lazily.
func NewResolver() *Resolver {
	return &Resolver{
		parsed: make(map[Weight]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns a usable face for the given pixel size and weight. It never
// fails: unreadable or unparsable candidates advance the search, and the
// embedded Go font of the matching weight is the terminal fallback.
func (r *Resolver) Face(size int, weight Weight) font.Face {
	if size < 1 {
		size = 1
	}
	switch weight {
	case WeightRegular, WeightMedium, WeightBold:
	default:
		weight = WeightRegular
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := faceKey{size: size, weight: weight}
	if face, ok := r.faces[key]; ok {
		return face
	}

	fnt := r.parsed[weight]
	if fnt == nil {
		fnt = loadWeight(weight)
		r.parsed[weight] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// The embedded fonts are known-good; a face failure here means the
		// cached system font is unusable at this size. Fall back hard.
		fallback, _ := opentype.Parse(embeddedTTF(weight))
		face, _ = opentype.NewFace(fallback, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		r.parsed[weight] = fallback
	}

	r.faces[key] = face
	return face
}

func loadWeight(w Weight) *opentype.Font {
	for _, path := range candidatePaths[w] {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if fnt, err := opentype.Parse(data); err == nil {
			return fnt
		}
	}
	fnt, _ := opentype.Parse(embeddedTTF(w))
	return fnt
}
