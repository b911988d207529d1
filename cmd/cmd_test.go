package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/pea"
	"github.com/etnz/pea/config"
)

func TestInspect(t *testing.T) {
	name := filepath.Join(t.TempDir(), "save.json")
	ledger := pea.NewLedger(pea.NewDate(2019, time.January, 1), pea.EUR(1000))
	if err := pea.SaveLedger(name, ledger); err != nil {
		t.Fatal(err)
	}

	got, err := inspect(name, "$.date")
	if err != nil {
		t.Fatalf("inspect() error = %v", err)
	}
	if got != `"2019-01-01"` {
		t.Errorf("inspect($.date) = %s, want %q", got, "2019-01-01")
	}

	if _, err := inspect(name, "$["); err == nil {
		t.Error("inspect() with an invalid query expected an error")
	}
	if _, err := inspect(filepath.Join(t.TempDir(), "missing.json"), "$"); err == nil {
		t.Error("inspect() of a missing file expected an error")
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := markdownToHTML("| A | B |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("markdownToHTML() error = %v", err)
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>1</td>") {
		t.Errorf("markdownToHTML() = %s, want a table", html)
	}
}

func TestOpenSimulation_Journal(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.DataDir = dir
	cfg.Journal = filepath.Join(dir, "journal.db")

	sim, err := openSimulation(cfg, cfg.Ledger())
	if err != nil {
		t.Fatalf("openSimulation() error = %v", err)
	}
	defer sim.Close()
	if sim.journal == nil {
		t.Fatal("journal is not opened")
	}
	if _, err := sim.engine.AdvanceMonth(); err != nil {
		t.Fatalf("AdvanceMonth() error = %v", err)
	}
	events, err := sim.journal.Events(t.Context())
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 1 || events[0].Kind != pea.EventAdvance {
		t.Errorf("Events() = %+v, want a single advance", events)
	}
}
