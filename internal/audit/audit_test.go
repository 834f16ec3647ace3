package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clinicore/user-directory/pkg/logger"
)

func TestTrail_WriteAndReadBack(t *testing.T) {
	logger.Init(false)

	tmpDir := t.TempDir()
	trailPath := filepath.Join(tmpDir, "audit.log")

	trail, err := Open(trailPath)
	if err != nil {
		t.Fatalf("Failed to open trail: %v", err)
	}
	defer trail.Close()

	entries := []Entry{
		{Action: ActionCreate, ActorID: 1, ActorRole: "admin", UserID: 10, Email: "a@x.com", Timestamp: time.Now()},
		{Action: ActionUpdate, ActorID: 1, ActorRole: "admin", UserID: 10, Email: "a@x.com", Timestamp: time.Now()},
		{Action: ActionDelete, ActorID: 2, ActorRole: "manager", UserID: 10, Email: "a@x.com", Timestamp: time.Now()},
	}

	for _, entry := range entries {
		if err := trail.Record(entry); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
	}

	got, err := trail.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read trail: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	if got[0].Action != ActionCreate || got[2].Action != ActionDelete {
		t.Fatalf("Entries out of order: %+v", got)
	}
	if got[2].ActorRole != "manager" {
		t.Fatalf("Expected manager actor, got %s", got[2].ActorRole)
	}
}

func TestTrail_SurvivesReopen(t *testing.T) {
	logger.Init(false)

	tmpDir := t.TempDir()
	trailPath := filepath.Join(tmpDir, "audit.log")

	trail, err := Open(trailPath)
	if err != nil {
		t.Fatalf("Failed to open trail: %v", err)
	}

	entry := Entry{Action: ActionCreate, ActorID: 1, ActorRole: "admin", UserID: 7, Email: "b@x.com", Timestamp: time.Now()}
	if err := trail.Record(entry); err != nil {
		t.Fatalf("Failed to record entry: %v", err)
	}
	if err := trail.Close(); err != nil {
		t.Fatalf("Failed to close trail: %v", err)
	}

	// Reopen and keep appending
	trail, err = Open(trailPath)
	if err != nil {
		t.Fatalf("Failed to reopen trail: %v", err)
	}
	defer trail.Close()

	entry.Action = ActionDelete
	if err := trail.Record(entry); err != nil {
		t.Fatalf("Failed to record after reopen: %v", err)
	}

	got, err := trail.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read trail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries after reopen, got %d", len(got))
	}
	if got[0].Action != ActionCreate || got[1].Action != ActionDelete {
		t.Fatalf("Unexpected entries: %+v", got)
	}
}

func TestTrail_EmptyFile(t *testing.T) {
	logger.Init(false)

	trail, err := Open(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil {
		t.Fatalf("Failed to open trail: %v", err)
	}
	defer trail.Close()

	got, err := trail.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read empty trail: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Expected no entries, got %d", len(got))
	}
}
