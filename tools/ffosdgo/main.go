package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/penfold42/FF-OSD/tools/font"
	"github.com/penfold42/FF-OSD/tools/osdview"
	"github.com/penfold42/FF-OSD/tools/serialtest"
)

const usageString = `ffosdgo is a tool for development of the FF OSD firmware.

Usage:

	%s <command> [arguments]

The commands are:

	font       convert glyph sheets into renderer font tables
	osdview    preview the scanline renderer output as an image
	serialtest scan the device's serial console for expected output
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "font":
		font.Main(flag.Args())
	case "osdview":
		osdview.Main(flag.Args())
	case "serialtest":
		serialtest.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
