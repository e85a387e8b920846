//go:build !stm32

// Host build: runs the overlay pipeline against a synthetic video signal
// and prints what the scanline DMA would paint. Useful for poking at the
// renderer and the menu without flashing hardware.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/penfold42/FF-OSD/config"
	"github.com/penfold42/FF-OSD/internal/vidsig"
	"github.com/penfold42/FF-OSD/osd"
)

// hostChain satisfies the timer chain interface with plain bookkeeping.
type hostChain struct {
	armed bool
	cols  int
}

func (c *hostChain) Arm()                  { c.armed = true }
func (c *hostChain) Disarm()               { c.armed = false }
func (c *hostChain) Rewind()               {}
func (c *hostChain) StartFrame(osd.Timing) {}
func (c *hostChain) WidenWatch()           {}
func (c *hostChain) Apply(osd.Timing)      {}
func (c *hostChain) SetBox(cols int)       { c.cols = cols }

func main() {
	frames := flag.Int("frames", 3, "frames to simulate")
	text := flag.String("text", "FlashFloppy\nDSKA0042.ADF", "display content")
	flag.Parse()

	var (
		clk   vidsig.Clock
		gen   vidsig.Generator
		buf   osd.PixelBuffer
		chain hostChain
	)
	buf.InitGuards()

	cfg := config.New(config.NewMemFlash())
	cfg.Log = os.Stderr
	disp := &osd.Display{Rows: 2, Cols: 16, On: true}
	disp.SetText(strings.Split(*text, "\n")...)
	cfg.Normal = disp

	det := osd.NewDetector(&chain, cfg.Timing())
	var notify osd.Notifier
	sup := osd.Supervisor{
		Det:     det,
		Chain:   &chain,
		Clock:   &clk,
		Buf:     &buf,
		Content: cfg,
		Notify:  &notify,
		Log:     os.Stderr,
	}

	for f := 0; f < *frames; f++ {
		gen.Frame(det)
		clk.Set(gen.Now())
		sup.Step()
		fmt.Printf("frame %d, phase %v, height %d\n",
			f, det.Position().Phase, det.Height())
	}
	dump(&buf, det.Height(), chain.cols)

	// A burst without sync shows the watchdog kicking in.
	clk.Advance(200 * time.Millisecond)
	sup.Step()
}

// dump draws the pixel buffer as ASCII art, two columns per buffer bit to
// roughly square the aspect ratio.
func dump(buf *osd.PixelBuffer, height, cols int) {
	if cols <= 0 {
		cols = osd.MaxCols
	}
	for y := 0; y < height; y++ {
		line := make([]byte, 0, cols*8)
		for x := 0; x < cols*8; x++ {
			w := buf.Row[y][x/16]
			if w&(0x8000>>(x%16)) != 0 {
				line = append(line, '#')
			} else {
				line = append(line, ' ')
			}
		}
		fmt.Println(string(line))
	}
}
