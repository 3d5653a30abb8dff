// Command list-adapters prints the Bluetooth state and the local adapters.
//
// Without the simpleble build tag it uses BlueZ over D-Bus on Linux:
//
//	go run ./cmd/list-adapters
//
// With the native library built (see cmd/simplegoble-build):
//
//	go run -tags simpleble ./cmd/list-adapters
package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simpleble/simplegoble"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	enabled, err := simplegoble.BluetoothEnabled()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Bluetooth enabled: %t\n", enabled)

	adapters, err := simplegoble.GetAdapters()
	if err != nil {
		log.Fatal(err)
	}
	defer adapters.Close()
	log.Debugf("found %d adapters", len(adapters))

	if len(adapters) == 0 {
		fmt.Println("No adapters found.")
		return
	}

	for _, a := range adapters {
		id, err := a.Identifier()
		if err != nil {
			log.Fatal(err)
		}
		addr, err := a.Address()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Adapter: %s [%s]\n", id, addr)
	}
}
