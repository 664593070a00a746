// ABOUTME: Local perceptual hashing compatible with FuzzySearch hashes
// ABOUTME: Implements an 8x8 gradient hash with DCT preprocessing

// Package imagehash computes perceptual hashes locally using the same
// parameters as the FuzzySearch service: an 8x8 gradient hash with DCT
// preprocessing, packed big-endian into a signed 64-bit integer. Hashes
// produced here are directly comparable to the hash and searched_hash
// fields in API responses.
package imagehash

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"math/bits"

	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// The gradient hash compares horizontally adjacent values, so an 8x8
// hash needs a 9x8 grid. DCT preprocessing works on a grid twice that
// size and keeps the low-frequency block.
const (
	hashWidth  = 8
	hashHeight = 8

	gridWidth  = hashWidth + 1
	gridHeight = hashHeight
)

// HashBytes decodes an image and returns its perceptual hash. JPEG,
// PNG, GIF, BMP, and WebP inputs are supported.
func HashBytes(data []byte) (int64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}

	return HashImage(img), nil
}

// HashImage returns the perceptual hash of an already-decoded image.
func HashImage(img image.Image) int64 {
	small := resize.Resize(gridWidth*2, gridHeight*2, img, resize.Lanczos3)
	grid := lowFrequencies(dct2d(grayValues(small)))

	// Gradient bits: set when a value is brighter than its left
	// neighbor, packed row-major with the first bit highest.
	var hash uint64
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth-1; x++ {
			hash <<= 1
			if grid[y][x+1] > grid[y][x] {
				hash |= 1
			}
		}
	}

	return int64(hash)
}

// Distance returns the Hamming distance between two hashes, matching
// the distance field reported by the API.
func Distance(a, b int64) uint64 {
	return uint64(bits.OnesCount64(uint64(a) ^ uint64(b)))
}

// grayValues converts an image to a row-major luminance matrix.
func grayValues(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	values := make([][]float64, height)
	for y := 0; y < height; y++ {
		values[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			values[y][x] = 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
		}
	}

	return values
}

// dct2d performs a type-II discrete cosine transform on each row, then
// each column.
func dct2d(input [][]float64) [][]float64 {
	height := len(input)
	width := len(input[0])

	rows := make([][]float64, height)
	for y := 0; y < height; y++ {
		rows[y] = dct1d(input[y])
	}

	output := make([][]float64, height)
	for y := 0; y < height; y++ {
		output[y] = make([]float64, width)
	}

	column := make([]float64, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			column[y] = rows[y][x]
		}
		transformed := dct1d(column)
		for y := 0; y < height; y++ {
			output[y][x] = transformed[y]
		}
	}

	return output
}

// dct1d performs a type-II discrete cosine transform. Input sizes are
// tiny so the direct O(n^2) form is fine.
func dct1d(input []float64) []float64 {
	n := len(input)
	output := make([]float64, n)

	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += input[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		output[k] = sum
	}

	return output
}

// lowFrequencies crops the DCT output to the top-left block the hash
// operates on.
func lowFrequencies(freq [][]float64) [][]float64 {
	cropped := make([][]float64, gridHeight)
	for y := 0; y < gridHeight; y++ {
		cropped[y] = freq[y][:gridWidth]
	}
	return cropped
}
