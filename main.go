// Command telemetry fires a single debug event through the pipeline and
// prints the resulting last-event snapshot, mirroring what the in-app debug
// panel shows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"telemetry/config"
	"telemetry/tracker"
)

func main() {
	category := flag.String("category", "Test", "event category")
	action := flag.String("action", "Debug", "event action")
	label := flag.String("label", "", "optional event label")
	flag.Parse()

	log.Print("loading config")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Enabled() {
		log.Print("collector credentials not set; events will be skipped, not delivered")
	}

	t := tracker.New(cfg)

	trackErr := t.RunDebugEvent(context.Background(), *category, *action, *label)
	if trackErr != nil {
		log.Printf("debug event failed: %v", trackErr)
	}

	snap := t.LastEvent()
	if snap == nil {
		log.Fatal("no event snapshot recorded")
	}
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("encode snapshot: %v", err)
	}
	fmt.Println(string(out))

	if trackErr != nil {
		os.Exit(1)
	}
}
