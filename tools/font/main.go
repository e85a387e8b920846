// Package font converts a glyph sheet image into the row encoded table
// used by the scanline renderer. The sheet holds the printable ASCII range
// in a 16 by 6 grid of 8x8 cells; any pixel brighter than half scale is
// set.
package font

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/image/bmp"
)

var (
	flags = flag.NewFlagSet("font", flag.ExitOnError)

	pkg    = flags.String("pkg", "osd8x8", "package name of the generated file")
	out    = flags.String("o", "data.go", "output file")
	offset = flags.Uint("start", 0x20, "character code of the first cell")
)

const usageString = `Glyph sheet to OSD font converter.

Usage: %s [flags] <sheet.png|sheet.bmp>

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "font")
	flags.PrintDefaults()
}

const (
	cellW = 8
	cellH = 8
	cols  = 16
	count = 96
)

var tmpl = template.Must(template.New("data").Parse(
	`// Code generated by tools/font. DO NOT EDIT.

package {{.Pkg}}

var table = [...]byte{
{{range .Glyphs}}	{{range .Rows}}{{printf "0x%02x, " .}}{{end}}// {{printf "0x%02x" .Code}} {{.Name}}
{{end}}}
`))

type glyph struct {
	Code uint
	Name string
	Rows [cellH]byte
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}
	sheet := flags.Arg(0)

	f, err := os.Open(sheet)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(sheet)) {
	case ".bmp":
		img, err = bmp.Decode(f)
	default:
		img, err = png.Decode(f)
	}
	if err != nil {
		log.Fatalln("decode sheet:", err)
	}

	glyphs := make([]glyph, count)
	for i := range glyphs {
		g := &glyphs[i]
		g.Code = *offset + uint(i)
		g.Name = name(byte(g.Code))
		x0 := (i % cols) * cellW
		y0 := (i / cols) * cellH
		for y := 0; y < cellH; y++ {
			var row byte
			for x := 0; x < cellW; x++ {
				if lit(img, x0+x, y0+y) {
					row |= 0x80 >> x
				}
			}
			g.Rows[y] = row
		}
	}

	o, err := os.Create(*out)
	if err != nil {
		log.Fatalln(err)
	}
	defer o.Close()
	err = tmpl.Execute(o, struct {
		Pkg    string
		Glyphs []glyph
	}{*pkg, glyphs})
	if err != nil {
		log.Fatalln("write output:", err)
	}
}

func lit(img image.Image, x, y int) bool {
	b := img.Bounds()
	r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return (r+g+bl)/3 >= 0x8000
}

func name(c byte) string {
	switch {
	case c == ' ':
		return "space"
	case c > 0x20 && c < 0x7f:
		return string(c)
	}
	return "block"
}
