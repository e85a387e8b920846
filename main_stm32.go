//go:build stm32

package main

import (
	"sync/atomic"
	"time"
	_ "unsafe" // for linkname

	"github.com/penfold42/FF-OSD/config"
	"github.com/penfold42/FF-OSD/console"
	"github.com/penfold42/FF-OSD/drivers/amigakbd"
	"github.com/penfold42/FF-OSD/drivers/buttons"
	"github.com/penfold42/FF-OSD/drivers/lcd"
	"github.com/penfold42/FF-OSD/drivers/timechain"
	"github.com/penfold42/FF-OSD/osd"
	"github.com/penfold42/FF-OSD/stm32"
)

// Pin assignment. CSYNC must sit on an EXTI line of the 9_5 group and
// VSYNC on the 15_10 group, everything else is free.
const (
	pinCSync = 8  // PA8
	pinVSync = 12 // PB12

	pinBtnClk = 13 // PC13, rotary clock or left button
	pinBtnDat = 14 // PC14, rotary data or right button
	pinBtnSel = 15 // PC15, select button

	pinKbClk  = 9 // PB9, Amiga keyboard clock
	pinKbData = 5 // PB5, Amiga keyboard data
	pinKbHold = 4 // PB4, open drain clamp on the keyboard clock

	pinRotA = 0 // PB0..PB2, open drain into the Gotek rotary header
)

var (
	buf   osd.PixelBuffer
	det   *osd.Detector
	btns  buttons.Sampler
	amiga amigakbd.Keyboard
	snoop lcd.Decoder
	cons  console.Console

	// Sync polarity latched for the edge handler, true when the active
	// pulse level is high. Updated under Critical.
	syncHigh bool

	// Local button state reported back over the direct I2C protocol.
	reportButtons atomic.Uint32
)

// Composite sync or keyboard clock edge. Both share the EXTI9_5 group.
//
//go:nosplit
//go:linkname exti9_5Handler IRQ23_Handler
//go:interrupthandler
func exti9_5Handler() {
	pending := stm32.EXTI.PR.Load()
	stm32.EXTI.PR.Store(pending)
	if pending&(1<<pinCSync) != 0 {
		start := stm32.PortA.Read(pinCSync) == syncHigh
		det.CSync(start, stm32.Nanotime())
	}
	if pending&(1<<pinKbClk) != 0 {
		amiga.ClockEdge(!stm32.PortB.Read(pinKbData))
	}
}

// Vertical sync edge.
//
//go:nosplit
//go:linkname exti15_10Handler IRQ40_Handler
//go:interrupthandler
func exti15_10Handler() {
	stm32.EXTI.PR.Store(1 << pinVSync)
	det.VSync()
}

// 5ms input tick.
//
//go:nosplit
//go:linkname tim4Handler IRQ30_Handler
//go:interrupthandler
func tim4Handler() {
	stm32.TIM4.SR.Store(0)
	btns.Sample(
		stm32.PortC.Read(pinBtnClk),
		stm32.PortC.Read(pinBtnDat),
		stm32.PortC.Read(pinBtnSel))
}

// I2C1 slave event. OAR1 answers the direct protocol address, OAR2 the LCD
// backpack.
//
//go:nosplit
//go:linkname i2c1EvHandler IRQ31_Handler
//go:interrupthandler
func i2c1EvHandler() {
	i2c := stm32.I2C1
	sr1 := i2c.SR1.Load()
	if sr1&stm32.I2CADDR != 0 {
		sr2 := i2c.SR2.Load() // clears ADDR
		const dualf = 1 << 7
		if sr2&dualf != 0 {
			snoop.Start(lcd.AddrBackpack)
		} else {
			snoop.Start(lcd.AddrDirect)
		}
	}
	if sr1&stm32.I2CRXNE != 0 {
		snoop.Push(byte(i2c.DR.Load()))
	}
	if sr1&stm32.I2CTXE != 0 && i2c.SR2.Load()&stm32.I2CTRA != 0 {
		i2c.DR.Store(reportButtons.Load())
	}
	if sr1&stm32.I2CSTOPF != 0 {
		i2c.CR1.SetBits(stm32.I2CPE) // clears STOPF
		snoop.Stop()
	}
}

//go:nosplit
//go:linkname i2c1ErrHandler IRQ32_Handler
//go:interrupthandler
func i2c1ErrHandler() {
	stm32.I2C1.SR1.ClearBits(stm32.I2CErrBits)
	snoop.Stop()
}

// gotekPins drives the emulated rotary header, open drain and active low.
type gotekPins struct{}

func (gotekPins) Set(pin int, asserted bool) {
	if asserted {
		stm32.PortB.Clear(pinRotA + pin)
	} else {
		stm32.PortB.Set(pinRotA + pin)
	}
}

// kbHold clamps the Amiga keyboard clock so keystrokes stay between us and
// the keyboard while the menu is open.
type kbHold struct{}

func (kbHold) Hold(on bool) {
	if on {
		stm32.PortB.Clear(pinKbHold)
	} else {
		stm32.PortB.Set(pinKbHold)
	}
}

func setupPins() {
	stm32.PortA.Configure(pinCSync, stm32.ModeInputFloat)
	stm32.PortB.Configure(pinVSync, stm32.ModeInputFloat)
	for _, p := range []int{pinBtnClk, pinBtnDat, pinBtnSel} {
		stm32.PortC.Configure(p, stm32.ModeInputPull)
		stm32.PortC.Set(p) // pull up
	}
	stm32.PortB.Configure(pinKbClk, stm32.ModeInputFloat)
	stm32.PortB.Configure(pinKbData, stm32.ModeInputFloat)
	for _, p := range []int{pinKbHold, pinRotA, pinRotA + 1, pinRotA + 2} {
		stm32.PortB.Set(p) // released
		stm32.PortB.Configure(p, stm32.ModeOutputOpen)
	}

	stm32.RouteEXTI(pinCSync, 0) // PA8
	stm32.RouteEXTI(pinVSync, 1) // PB12
	stm32.RouteEXTI(pinKbClk, 1) // PB9
	stm32.EXTI.RTSR.SetBits(1<<pinCSync | 1<<pinVSync)
	stm32.EXTI.FTSR.SetBits(1<<pinCSync | 1<<pinKbClk)
	stm32.EXTI.IMR.SetBits(1<<pinCSync | 1<<pinVSync | 1<<pinKbClk)
}

func setupUSART() {
	// PA9 TX, 115200 8N1 from the 72MHz APB2 clock.
	stm32.PortA.Configure(9, stm32.ModeOutputAlt)
	stm32.USART1.BRR.Store(stm32.SysclkHz / 115200)
	stm32.USART1.CR1.Store(stm32.UsartUE | stm32.UsartTE)
}

func setupI2C() {
	// I2C1 on the default PB6 SCL, PB7 SDA.
	stm32.PortB.Configure(6, stm32.ModeOutputAltOpen)
	stm32.PortB.Configure(7, stm32.ModeOutputAltOpen)
	stm32.I2C1.CR2.Store(36) // APB1 clock in MHz
	stm32.I2C1.OAR1.Store(uint32(lcd.AddrDirect) << 1)
	const endual = 1 << 0
	stm32.I2C1.OAR2.Store(uint32(lcd.AddrBackpack)<<1 | endual)
	stm32.I2C1.CR1.Store(stm32.I2CPE | stm32.I2CACK | stm32.I2CNOSTRCH)
}

// drainConsole moves buffered log output to the UART without blocking the
// frame work.
type uartWriter struct{}

func (uartWriter) Write(p []byte) (int, error) {
	n := 0
	for _, b := range p {
		if !stm32.USART1.WriteReady() {
			break
		}
		stm32.USART1.WriteByte(b)
		n++
	}
	return n, nil
}

func main() {
	stm32.EnableClocks()
	stm32.EnableCycleCounter()
	setupPins()
	setupUSART()
	setupI2C()

	clk := stm32.Clock{}
	cfg := config.New(&stm32.SettingsFlash{})
	cfg.Log = &cons
	if err := cfg.Load(); err != nil {
		cons.Write([]byte("config: " + err.Error() + "\n"))
	}
	syncHigh = cfg.Timing().Polarity

	snoop.Init(cfg.Rows, 16)
	cfg.Normal = &snoop.Display

	chain := timechain.New(&buf)
	chain.Apply(cfg.Timing())
	det = osd.NewDetector(chain, cfg.Timing())

	var notify osd.Notifier
	gotek := buttons.Emulator{Pins: gotekPins{}, Clock: clk}
	amiga.Pin = kbHold{}

	sup := osd.Supervisor{
		Det:      det,
		Chain:    chain,
		Clock:    clk,
		Buf:      &buf,
		Content:  cfg,
		Notify:   &notify,
		Log:      &cons,
		Input:    &btns,
		Critical: stm32.Critical,
	}
	sup.OnButtons = func(b osd.Buttons) {
		b |= snoop.Buttons()
		kb, menu := amiga.Snapshot()
		b |= kb
		if menu && !cfg.ConfigActive() {
			b |= osd.ButtonSelect
		}
		stm32.Critical(func() { cfg.Process(b) })
		gotek.Update(b, cfg.ConfigActive())
		amiga.Grab(cfg.ConfigActive())
		reportButtons.Store(uint32(b &^ osd.ButtonProcessed))
	}
	buf.InitGuards()

	// TIM4: 5ms periodic input tick.
	stm32.TIM4.PSC.Store(stm32.SysclkHz/1_000_000 - 1) // 1us per count
	stm32.TIM4.ARR.Store(5_000 - 1)
	stm32.TIM4.DIER.Store(stm32.TimUIE)
	stm32.TIM4.CR1.Store(stm32.TimCEN)

	stm32.EnableVideoIRQs()
	cons.Write([]byte("FF OSD up\n"))

	held := false
	var uart uartWriter
	for {
		sup.Step()
		snoop.Process()
		if h := amiga.Held(); h != held {
			held = h
			if h {
				notify.Post(clk.Now(), "Keyboard Held")
			} else {
				notify.Post(clk.Now(), "Keyboard Released")
			}
		}
		cons.Drain(uart, 16)
		time.Sleep(time.Millisecond)
	}
}
