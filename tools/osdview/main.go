// Package osdview renders display content through the scanline renderer
// and writes the result as an image, previewing exactly what the overlay
// hardware would paint.
package osdview

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"

	"github.com/penfold42/FF-OSD/osd"
)

var (
	flags = flag.NewFlagSet("osdview", flag.ExitOnError)

	out    = flags.String("o", "osd.png", "output file, .png or .gif")
	cols   = flags.Int("cols", 16, "columns of the display")
	double = flags.Uint("double", 0, "bitmask of double height rows")
	scale  = flags.Int("scale", 4, "integer upscale factor")
)

const usageString = `Preview the OSD renderer output.

Usage: %s [flags] <row> [row ...]

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "osdview")
	flags.PrintDefaults()
}

var (
	fg = color.RGBA{0xff, 0xff, 0xff, 0xff}
	bg = color.RGBA{0x10, 0x10, 0x60, 0xff}
)

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])
	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(1)
	}

	d := &osd.Display{Cols: *cols, Heights: uint8(*double), On: true}
	d.SetText(flags.Args()...)

	var buf osd.PixelBuffer
	buf.InitGuards()
	height := d.Height()
	osd.Render(&buf, d, height)

	img := image.NewRGBA(image.Rect(0, 0, *cols*8, height))
	for y := 0; y < height; y++ {
		for x := 0; x < *cols*8; x++ {
			c := bg
			if buf.Row[y][x/16]&(0x8000>>(x%16)) != 0 {
				c = fg
			}
			img.SetRGBA(x, y, c)
		}
	}

	big := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx()**scale, img.Rect.Dy()**scale))
	draw.NearestNeighbor.Scale(big, big.Rect, img, img.Rect, draw.Src, nil)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".gif":
		q := quantize.MedianCutQuantizer{}
		pal := q.Quantize(make(color.Palette, 0, 16), big)
		frame := image.NewPaletted(big.Rect, pal)
		draw.Draw(frame, big.Rect, big, image.Point{}, draw.Src)
		err = gif.EncodeAll(f, &gif.GIF{
			Image: []*image.Paletted{frame},
			Delay: []int{0},
		})
	default:
		err = png.Encode(f, big)
	}
	if err != nil {
		log.Fatalln("encode image:", err)
	}
}
