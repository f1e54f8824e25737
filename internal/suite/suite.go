// Package suite defines the OmniScribe end-to-end scenarios: the DOM contract
// the deployed app is expected to expose, and the four scripted walkthroughs
// that exercise it.
//
// The contract below (button indices, text markers) mirrors the deployed UI
// and is owned by the app, not by this harness. It may drift silently across
// app versions; treat failures here as contract drift candidates before
// suspecting the harness.
package suite

import (
	"fmt"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/harness"
	"github.com/Josephaswisher/omniscribe/internal/scenario"
)

// Nav bar button indices, left to right.
const (
	NavHome    = 0
	NavFolders = 1
	NavRecord  = 2
	NavSearch  = 3
	NavActions = 4

	NavButtonCount = 5
)

// Structural selectors.
const (
	NavButtons    = "nav button"
	HeaderButtons = "header button"
	IconButtons   = "button:has(svg)"
	AnyButton     = "button"
)

// Visible text markers per view.
const (
	AppTitle         = "OmniScribe V2"
	MarkerHomeEmpty  = "No recordings yet"
	MarkerFolders    = "Folders"
	MarkerPersonal   = "Personal"
	MarkerWork       = "Work"
	MarkerIdeas      = "Ideas"
	MarkerSearch     = "Search"
	MarkerActions    = "Actions"
	MarkerSettings   = "Settings"
	MarkerRecording  = "REC"
	MarkerRawParser  = "Raw"
	MarkerCloudSync  = "Supabase Sync"
	MarkerConnected  = "Connected"
	TimerTextLocator = `text=/\d+:\d+/`
)

// API endpoints probed directly, outside page navigation.
const (
	NotesPath   = "/api/notes"
	ParsersPath = "/api/parsers"
)

// sessionOptions builds the per-scenario session options from runner config.
func sessionOptions(cfg *config.Config, permissions ...string) harness.Options {
	return harness.Options{
		BaseURL:        cfg.BaseURL,
		Headless:       cfg.Headless,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		Permissions:    permissions,
		NavTimeout:     cfg.NavTimeout,
		ActionTimeout:  cfg.ActionTimeout,
		ArtifactDir:    cfg.ArtifactDir,
	}
}

// All returns every scenario in run order.
func All(cfg *config.Config) []scenario.Scenario {
	return []scenario.Scenario{
		Walkthrough(cfg),
		Diagnostics(cfg),
		Recording(cfg),
		LocalMode(cfg),
	}
}

// Select returns the named scenarios, or all of them when names is empty.
func Select(cfg *config.Config, names []string) ([]scenario.Scenario, error) {
	all := All(cfg)
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]scenario.Scenario, len(all))
	for _, sc := range all {
		byName[sc.Name] = sc
	}

	var selected []scenario.Scenario
	for _, name := range names {
		sc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (known: walkthrough, diagnostics, recording, localmode)", name)
		}
		selected = append(selected, sc)
	}
	return selected, nil
}

// settle returns the configured post-navigation delay.
func settle(cfg *config.Config) time.Duration {
	if cfg.SettleDelay > 0 {
		return cfg.SettleDelay
	}
	return config.DefaultSettleDelay
}
