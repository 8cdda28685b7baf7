package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"

	"beatbox/config"
	"beatbox/kit"
	"beatbox/midiout"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "sounds":
		dir := ""
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		showKit(dir)
	case "ports":
		listPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Kit Inspector")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  sounds [dir]  - Show the sounds of a kit (built-in kit when no dir)")
	fmt.Println("  ports         - List MIDI output ports")
}

func showKit(dir string) {
	rate := beep.SampleRate(config.DefaultRate)

	var k *kit.Kit
	if dir == "" {
		k = kit.Default(rate)
	} else {
		loaded, err := kit.Load(dir, rate)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		k = loaded
	}

	fmt.Printf("Kit: %s (%d sounds)\n\n", k.Name, len(k.Sounds))
	for _, s := range k.Sounds {
		note := "-"
		if s.Note > 0 {
			note = fmt.Sprintf("%d", s.Note)
		}
		fmt.Printf("  %-10s %8v  note %s\n", s.Name, s.Sample.Duration().Round(time.Millisecond), note)
	}
}

func listPorts() {
	ports := midiout.Ports()
	if len(ports) == 0 {
		fmt.Println("No MIDI output ports")
		return
	}

	fmt.Println("=== MIDI Output Ports ===")
	for i, name := range ports {
		fmt.Printf("  %d: %s\n", i, name)
	}
}
