// Package serialtest attaches to the device's serial console through a
// terminal program running under a pty and scans the output for expected
// lines. The exit code reports whether everything expected was seen before
// the timeout.
package serialtest

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aymanbagabas/go-pty"
	"github.com/buildkite/shellwords"
)

var (
	flags = flag.NewFlagSet("serialtest", flag.ExitOnError)

	command = flags.String("cmd", "picocom -q -b 115200 /dev/ttyUSB0",
		"terminal command to run under a pty")
	expect  = flags.String("expect", "FF OSD up", "comma separated lines to wait for")
	send    = flags.String("send", "", "bytes to write to the console after attach")
	timeout = flags.Duration("timeout", 30*time.Second, "give up after this long")
)

const usageString = `Scan the serial console for expected output.

Usage: %s [flags]

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "serialtest")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	argv, err := shellwords.Split(*command)
	if err != nil {
		log.Fatalln("parse command:", err)
	}
	if len(argv) == 0 {
		flags.Usage()
		os.Exit(1)
	}

	term, err := pty.New()
	if err != nil {
		log.Fatalln("open pty:", err)
	}
	defer term.Close()

	cmd := term.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		log.Fatalln("start command:", err)
	}

	if *send != "" {
		if _, err := term.Write([]byte(*send)); err != nil {
			log.Fatalln("write console:", err)
		}
	}

	pending := strings.Split(*expect, ",")
	done := make(chan bool, 1)
	go func() {
		scanner := bufio.NewScanner(term)
		for scanner.Scan() {
			line := scanner.Text()
			log.Println(line)
			if len(pending) > 0 && strings.Contains(line, pending[0]) {
				pending = pending[1:]
				if len(pending) == 0 {
					done <- true
					return
				}
			}
		}
		done <- false
	}()

	ok := false
	select {
	case ok = <-done:
	case <-time.After(*timeout):
		log.Println("timeout, still waiting for:", pending)
	}

	cmd.Process.Kill()
	cmd.Wait()
	if !ok {
		os.Exit(1)
	}
}
