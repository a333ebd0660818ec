// Command photo-export dumps the photos one session submitted to disk, named
// by item key, so coordinators can audit a checklist after the event.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/examops/checkbot/internal/checklist/storage/sqlite"
	"github.com/examops/checkbot/internal/platform/config"
)

func main() {
	dbPath := flag.String("db", filepath.Join("data", "checklist.db"), "Path to the checklist sqlite database")
	sessionID := flag.String("session", "", "Session id whose photos to export")
	outDir := flag.String("out", "photos", "Directory to write the exported photos into")
	flag.Parse()

	if *sessionID == "" {
		config.Exitf("session id is required")
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		config.Exitf("open checklist store: %v", err)
	}
	defer store.Close()

	photos, err := store.PhotosBySession(context.Background(), *sessionID)
	if err != nil {
		config.Exitf("list photos: %v", err)
	}
	if len(photos) == 0 {
		fmt.Printf("no photos stored for session %s\n", *sessionID)
		return
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		config.Exitf("create output dir: %v", err)
	}
	for _, photo := range photos {
		name := photo.FileName
		if name == "" {
			name = photo.ItemKey + ".jpg"
		}
		target := filepath.Join(*outDir, fmt.Sprintf("%s_%s", photo.ItemKey, name))
		if err := os.WriteFile(target, photo.Content, 0o644); err != nil {
			config.Exitf("write %s: %v", target, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", target, len(photo.Content))
	}
}
