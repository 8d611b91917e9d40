package vision

import (
	"github.com/blazeintel/havf-core/internal/athlete"
)

// classWhitelist is the per-sport set of classes a detection must belong
// to in order to survive the confidence/whitelist filter (§4.8 step 3).
var classWhitelist = map[string]map[string]bool{
	"football":   {"person": true, "sports ball": true},
	"baseball":   {"person": true, "sports ball": true, "baseball bat": true},
	"basketball": {"person": true, "sports ball": true},
}

// Detector runs object detection over a decoded frame.
type Detector interface {
	Detect(pixels []byte, width, height int) []athlete.Detection
}

// FallbackDetector is the functional, non-ML detector every worker falls
// back to when a real model can't be loaded (§4.8 step 2, §10.6). It
// scans the frame in fixed-size grid cells, scores each by horizontal/
// vertical edge density, and classifies high-density cells with a crude
// color heuristic. It never raises and always returns a non-empty
// detection set for a non-empty frame.
type FallbackDetector struct {
	CellSize int
}

// NewFallbackDetector returns a FallbackDetector with the default 32px
// grid cell used by the reference implementation this is ported from.
func NewFallbackDetector() *FallbackDetector {
	return &FallbackDetector{CellSize: 32}
}

// Detect implements Detector. pixels is raw grayscale-equivalent byte
// intensities in row-major order (width*height bytes); callers decode
// whatever frame format they receive down to this shape before calling.
func (d *FallbackDetector) Detect(pixels []byte, width, height int) []athlete.Detection {
	if len(pixels) == 0 || width <= 0 || height <= 0 {
		return []athlete.Detection{{Class: "unknown", ClassID: -1, Confidence: 0.1, BBox: athlete.BBox{0, 0, 1, 1}}}
	}

	cell := d.CellSize
	if cell <= 0 {
		cell = 32
	}

	var detections []athlete.Detection

	for y := 0; y < height; y += cell {
		for x := 0; x < width; x += cell {
			w := minInt(cell, width-x)
			h := minInt(cell, height-y)
			density := edgeDensity(pixels, width, height, x, y, w, h)
			if density < 0.35 {
				continue
			}

			mean := meanIntensity(pixels, width, height, x, y, w, h)
			class, classID := classifyByIntensity(mean, density)

			detections = append(detections, athlete.Detection{
				Class:      class,
				ClassID:    classID,
				Confidence: clampConfidence(density),
				BBox:       athlete.BBox{float64(x), float64(y), float64(x + w), float64(y + h)},
			})
		}
	}

	if len(detections) == 0 {
		detections = append(detections, athlete.Detection{
			Class: "person", ClassID: cocoPerson, Confidence: 0.25,
			BBox: athlete.BBox{0, 0, float64(width), float64(height)},
		})
	}

	return detections
}

// edgeDensity approximates a Sobel-like horizontal+vertical gradient
// magnitude averaged over the cell, normalized to roughly [0, 1].
func edgeDensity(pixels []byte, width, height, x0, y0, w, h int) float64 {
	var sum float64
	var count int

	for y := y0; y < y0+h-1 && y < height-1; y++ {
		for x := x0; x < x0+w-1 && x < width-1; x++ {
			i := y*width + x
			gx := int(pixels[i+1]) - int(pixels[i])
			gy := int(pixels[i+width]) - int(pixels[i])
			mag := absInt(gx) + absInt(gy)
			sum += float64(mag)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) / 255.0
}

func meanIntensity(pixels []byte, width, height, x0, y0, w, h int) float64 {
	var sum float64
	var count int
	for y := y0; y < y0+h && y < height; y++ {
		for x := x0; x < x0+w && x < width; x++ {
			sum += float64(pixels[y*width+x])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// COCO class IDs the fallback detector emits, matching the real model's
// vocabulary so downstream consumers don't need a separate code path.
const (
	cocoPerson      = 0
	cocoSportsBall  = 32
	cocoBaseballBat = 34
)

// classifyByIntensity applies the crude color/brightness heuristic: a
// mid-brightness, moderately dense region reads as skin-tone-ish (person);
// a small, very dense, bright region reads as a round reflective object
// (sports ball); anything else defaults to person, the most common class
// in any sport frame.
func classifyByIntensity(mean, density float64) (string, int) {
	switch {
	case mean > 150 && density > 0.6:
		return "sports ball", cocoSportsBall
	case mean > 80 && mean < 180:
		return "person", cocoPerson
	default:
		return "person", cocoPerson
	}
}

// FilterBySport applies the confidence threshold and per-sport class
// whitelist (§4.8 step 3). Unknown sports pass every class through
// unfiltered rather than dropping every detection.
func FilterBySport(detections []athlete.Detection, sport string, confidenceThreshold float64) []athlete.Detection {
	whitelist, known := classWhitelist[sport]

	var out []athlete.Detection
	for _, d := range detections {
		if d.Confidence < confidenceThreshold {
			continue
		}
		if known && !whitelist[d.Class] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func clampConfidence(x float64) float64 {
	if x > 0.99 {
		return 0.99
	}
	if x < 0 {
		return 0
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
