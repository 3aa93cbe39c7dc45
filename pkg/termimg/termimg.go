// Package termimg renders images into terminal cells using half-block
// characters: each character cell carries two vertically stacked pixels,
// the top one as the foreground color of "▀" and the bottom one as the
// background color.
package termimg

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// Background fills the pixels an image leaves transparent
type Background int

const (
	BackgroundDark Background = iota
	BackgroundLight
	BackgroundChecker
	BackgroundCustom
)

// Options controls rendering
type Options struct {
	// Cols and Rows are the target size in terminal cells. Each cell is
	// one pixel wide and two pixels tall.
	Cols int
	Rows int

	Background Background

	// CustomColor backs BackgroundCustom
	CustomColor color.RGBA
}

var (
	darkFill    = color.RGBA{R: 0x1a, G: 0x1d, B: 0x23, A: 0xff}
	lightFill   = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	checkerEven = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	checkerOdd  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
)

// Render scales the image to the target cell grid and emits ANSI
// truecolor escape sequences, one line per cell row.
func Render(img image.Image, opts Options) string {
	if opts.Cols < 1 || opts.Rows < 1 {
		return ""
	}

	pw, ph := opts.Cols, opts.Rows*2
	scaled := image.NewRGBA(image.Rect(0, 0, pw, ph))
	// CatmullRom is slow but the grids here are terminal-sized
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	var b strings.Builder
	for row := 0; row < opts.Rows; row++ {
		for col := 0; col < pw; col++ {
			top := composite(scaled.RGBAAt(col, row*2), opts, col, row*2)
			bot := composite(scaled.RGBAAt(col, row*2+1), opts, col, row*2+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
				top.R, top.G, top.B, bot.R, bot.G, bot.B, halfBlock)
		}
		b.WriteString("\x1b[0m")
		if row < opts.Rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// composite blends a premultiplied pixel over the configured background
func composite(px color.RGBA, opts Options, x, y int) color.RGBA {
	bg := backgroundAt(opts, x, y)
	if px.A == 0xff {
		return px
	}
	if px.A == 0 {
		return bg
	}
	inv := uint32(0xff - px.A)
	return color.RGBA{
		R: px.R + uint8(uint32(bg.R)*inv/0xff),
		G: px.G + uint8(uint32(bg.G)*inv/0xff),
		B: px.B + uint8(uint32(bg.B)*inv/0xff),
		A: 0xff,
	}
}

// backgroundAt returns the underlay color for a pixel. The checker
// pattern uses 4x4 pixel tiles so it stays readable at cell resolution.
func backgroundAt(opts Options, x, y int) color.RGBA {
	switch opts.Background {
	case BackgroundLight:
		return lightFill
	case BackgroundChecker:
		if (x/4+y/4)%2 == 0 {
			return checkerEven
		}
		return checkerOdd
	case BackgroundCustom:
		c := opts.CustomColor
		c.A = 0xff
		return c
	default:
		return darkFill
	}
}

// ParseHexColor reads "#rrggbb" or "#rgb"
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	var c color.RGBA
	c.A = 0xff
	switch len(s) {
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
		return c, err
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
		return c, err
	default:
		return c, fmt.Errorf("invalid hex color %q", s)
	}
}
