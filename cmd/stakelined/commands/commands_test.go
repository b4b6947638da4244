package commands

import (
	"testing"
)

func TestNewRunCmd(t *testing.T) {
	cmd := NewRunCmd()

	if cmd == nil {
		t.Fatal("NewRunCmd returned nil")
	}

	if cmd.Use != "run" {
		t.Errorf("Use mismatch: got %s, want run", cmd.Use)
	}
}

func TestNewSweepCmd(t *testing.T) {
	cmd := NewSweepCmd()

	if cmd == nil {
		t.Fatal("NewSweepCmd returned nil")
	}

	if cmd.Use != "sweep" {
		t.Errorf("Use mismatch: got %s, want sweep", cmd.Use)
	}
}

func TestNewPeriodsCmd(t *testing.T) {
	cmd := NewPeriodsCmd()

	if cmd == nil {
		t.Fatal("NewPeriodsCmd returned nil")
	}

	if cmd.Use != "periods" {
		t.Errorf("Use mismatch: got %s, want periods", cmd.Use)
	}
}

func TestNewStakesCmd(t *testing.T) {
	cmd := NewStakesCmd()

	if cmd == nil {
		t.Fatal("NewStakesCmd returned nil")
	}

	if cmd.Use != "stakes" {
		t.Errorf("Use mismatch: got %s, want stakes", cmd.Use)
	}

	userFlag := cmd.Flags().Lookup("user")
	if userFlag == nil {
		t.Error("--user flag should exist")
	}
}

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd()

	if cmd == nil {
		t.Fatal("NewConfigCmd returned nil")
	}

	if len(cmd.Commands()) != 2 {
		t.Errorf("expected init and show subcommands, got %d", len(cmd.Commands()))
	}
}

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	if cmd == nil {
		t.Fatal("NewVersionCmd returned nil")
	}

	if cmd.Use != "version" {
		t.Errorf("Use mismatch: got %s, want version", cmd.Use)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion returned empty string")
	}
}
