// Package palette derives category display colors.
//
// A color is drawn from one of eight palettes: one candidate per channel is
// picked, jittered by [-15, 15) and clamped to [50, 255], which keeps colors
// away from near-black. The same seed always yields the same color.
package palette

import (
	"fmt"
	"math/rand/v2"
)

// RGB is a display color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type channels struct {
	r, g, b []int
}

var palettes = [...]channels{
	{r: []int{52, 168, 83}, g: []int{168, 224, 144}, b: []int{83, 144, 120}},
	{r: []int{255, 183, 77}, g: []int{152, 87, 47}, b: []int{77, 47, 30}},
	{r: []int{103, 58, 183}, g: []int{123, 104, 238}, b: []int{183, 149, 255}},
	{r: []int{233, 30, 99}, g: []int{156, 39, 176}, b: []int{103, 58, 183}},
	{r: []int{0, 150, 136}, g: []int{76, 175, 80}, b: []int{139, 195, 74}},
	{r: []int{255, 87, 34}, g: []int{255, 152, 0}, b: []int{255, 193, 7}},
	{r: []int{63, 81, 181}, g: []int{33, 150, 243}, b: []int{3, 169, 244}},
	{r: []int{156, 39, 176}, g: []int{233, 30, 99}, b: []int{244, 67, 54}},
}

const (
	jitter   = 15
	minLevel = 50
	maxLevel = 255
)

// ColorFor returns the color selected by seed.
func ColorFor(seed uint64) RGB {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	p := palettes[rng.IntN(len(palettes))]

	pick := func(candidates []int) uint8 {
		v := candidates[rng.IntN(len(candidates))] + rng.IntN(2*jitter) - jitter
		return uint8(min(max(v, minLevel), maxLevel))
	}
	return RGB{R: pick(p.r), G: pick(p.g), B: pick(p.b)}
}
