package phash

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/bits"
	"sort"
	"strings"

	"github.com/nfnt/resize"
)

// ErrInvalidImage is returned when an image has zero area and cannot be hashed.
var ErrInvalidImage = errors.New("phash: invalid image with zero area")

// ErrInvalidBlockSize is returned when the configured block does not fit the
// 64 bits of a Fingerprint or exceeds the sample grid.
var ErrInvalidBlockSize = errors.New("phash: block size exceeds fingerprint capacity")

const (
	DefaultSampleSize = 32
	DefaultBlockSize  = 8

	// coefficientDeadBand is the margin above the median an AC coefficient
	// must clear before its bit is set, at the default sample size. Mostly
	// blank pages leave near-zero AC energy where raw pixel jitter would
	// otherwise flip bits at random.
	coefficientDeadBand = 12.0
)

// DefaultROI is the bottom strip where viewers render page indicators.
var DefaultROI = Region{Left: 0.2, Top: 0.75, Right: 0.8, Bottom: 0.98}

// Fingerprint is a 64-bit DCT perceptual hash. Two fingerprints are
// comparable only when produced by the same Hasher configuration.
type Fingerprint uint64

// Distance returns the Hamming distance to another fingerprint.
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(uint64(f ^ other))
}

// String renders the fingerprint as a 64-character bit string, matching the
// order bit 63 (DC position) first.
func (f Fingerprint) String() string {
	var b strings.Builder
	for i := 63; i >= 0; i-- {
		if f&(1<<uint(i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Pair holds the full-frame fingerprint together with the ROI fingerprint of
// the same capture.
type Pair struct {
	Full Fingerprint
	ROI  Fingerprint
}

// Region describes a sub-rectangle of an image as ratios of its bounds,
// each in [0,1].
type Region struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Crop returns the pixel rectangle this region selects within bounds.
func (r Region) Crop(bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(w*r.Left),
		bounds.Min.Y+int(h*r.Top),
		bounds.Min.X+int(w*r.Right),
		bounds.Min.Y+int(h*r.Bottom),
	)
}

// Hasher computes DCT perceptual fingerprints.
//
// SampleSize is the square edge images are downsampled to before the DCT.
// BlockSize is the edge of the low-frequency block kept from the transform;
// BlockSize*BlockSize must not exceed 64 and BlockSize must not exceed
// SampleSize, or Hash reports ErrInvalidBlockSize. The zero value of either
// field falls back to the defaults (32 and 8).
type Hasher struct {
	SampleSize int
	BlockSize  int
	ROI        Region
}

// NewHasher returns a Hasher with the default transform parameters and ROI.
func NewHasher() *Hasher {
	return &Hasher{
		SampleSize: DefaultSampleSize,
		BlockSize:  DefaultBlockSize,
		ROI:        DefaultROI,
	}
}

// Hash computes the full-frame fingerprint of img.
func (h *Hasher) Hash(img image.Image) (Fingerprint, error) {
	if img == nil {
		return 0, ErrInvalidImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, ErrInvalidImage
	}

	sample := h.SampleSize
	if sample == 0 {
		sample = DefaultSampleSize
	}
	block := h.BlockSize
	if block == 0 {
		block = DefaultBlockSize
	}
	if block < 1 || block > sample || block*block > 64 {
		return 0, ErrInvalidBlockSize
	}

	scaled := resize.Resize(uint(sample), uint(sample), img, resize.Bicubic)

	gray := make([][]float64, sample)
	sb := scaled.Bounds()
	for y := 0; y < sample; y++ {
		gray[y] = make([]float64, sample)
		for x := 0; x < sample; x++ {
			c := color.GrayModel.Convert(scaled.At(sb.Min.X+x, sb.Min.Y+y))
			gray[y][x] = float64(c.(color.Gray).Y)
		}
	}

	freq := dct2d(gray)

	// Lowest-frequency block minus the DC term, binarized against the
	// block median. The DC bit stays 0 so every fingerprint keeps the
	// same 64-bit layout. Coefficients inside the dead band over the
	// median count as flat; the band scales with the transform's
	// coefficient magnitude, which grows with the sample area.
	coeffs := make([]float64, 0, block*block-1)
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			if x == 0 && y == 0 {
				continue
			}
			coeffs = append(coeffs, freq[y][x])
		}
	}
	median := medianOf(coeffs)
	band := coefficientDeadBand * float64(sample*sample) / (DefaultSampleSize * DefaultSampleSize)

	var fp Fingerprint
	bit := block*block - 1
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			if x == 0 && y == 0 {
				bit--
				continue
			}
			if freq[y][x] > median+band {
				fp |= 1 << uint(bit)
			}
			bit--
		}
	}
	return fp, nil
}

// HashROI computes the fingerprint of the hasher's ROI strip. Degenerate
// regions fall back to the full frame, mirroring Hash for such inputs.
func (h *Hasher) HashROI(img image.Image) (Fingerprint, error) {
	if img == nil {
		return 0, ErrInvalidImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, ErrInvalidImage
	}

	crop := h.ROI.Crop(bounds)
	if crop.Dx() <= 0 || crop.Dy() <= 0 {
		return h.Hash(img)
	}

	sub := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(sub, sub.Bounds(), img, crop.Min, draw.Src)
	return h.Hash(sub)
}

// HashPair computes the full-frame and ROI fingerprints of one capture.
func (h *Hasher) HashPair(img image.Image) (Pair, error) {
	full, err := h.Hash(img)
	if err != nil {
		return Pair{}, err
	}
	roi, err := h.HashROI(img)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Full: full, ROI: roi}, nil
}

// dct2d applies the type-II discrete cosine transform to the rows and then
// the columns of a square matrix.
func dct2d(m [][]float64) [][]float64 {
	n := len(m)
	rows := make([][]float64, n)
	for i, row := range m {
		rows[i] = dct1d(row)
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = rows[y][x]
		}
		t := dct1d(col)
		for y := 0; y < n; y++ {
			out[y][x] = t[y]
		}
	}
	return out
}

func dct1d(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += v[i] * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		out[k] = sum
	}
	return out
}

func medianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
