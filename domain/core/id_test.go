package core

import (
	"strings"
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("NewID returned empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestParseRunID_RejectsEmpty(t *testing.T) {
	if _, err := ParseRunID("   "); err == nil {
		t.Error("expected error for blank run ID")
	}
	id, err := ParseRunID("run-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "run-123" {
		t.Errorf("expected run-123, got %s", id)
	}
}

func TestNewHash_StableAndShort(t *testing.T) {
	a := NewHash([]byte("daiin daiin qokedy"))
	b := NewHash([]byte("daiin daiin qokedy"))
	if a != b {
		t.Error("hash of identical content should match")
	}
	if len(a.Short()) != 12 {
		t.Errorf("expected 12-char short hash, got %q", a.Short())
	}
	if !strings.HasPrefix(a.String(), a.Short()) {
		t.Error("short hash should prefix the full hash")
	}
}
