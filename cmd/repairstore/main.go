// Operator tool: if the wallet store envelope no longer parses, move
// it aside so the next launch starts from an empty store. Refuses to
// touch a loadable envelope — recovery of a readable store is never
// implicit.
//
// Usage: go run ./cmd/repairstore
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/solkeep/internal/config"
	"github.com/AlexZinkM/solkeep/internal/store"
)

type probe struct {
	Version int                     `json:"version"`
	Records map[string]store.Record `json:"records"`
}

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	path, err := config.StoreFilePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Println("no store file at", path, "- nothing to repair")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot read store:", err)
		os.Exit(1)
	}

	var p probe
	if err := json.Unmarshal(raw, &p); err == nil && p.Version == store.Version {
		fmt.Println("store at", path, "parses fine - refusing to touch it")
		os.Exit(1)
	}

	aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if err := os.Rename(path, aside); err != nil {
		fmt.Fprintln(os.Stderr, "cannot move store aside:", err)
		os.Exit(1)
	}
	fmt.Println("moved corrupt store to", aside)
	fmt.Println("the next launch starts with an empty store; the master key in the keychain is untouched")
}
