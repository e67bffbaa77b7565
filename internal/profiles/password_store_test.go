package profiles

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

// fileOnlyStore builds a store pinned to the file backend in a temp dir, so
// tests never touch the machine's real keyring.
func fileOnlyStore(t *testing.T) *PasswordStore {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		FileDir:         t.TempDir(),
		FilePasswordFunc: func(_ string) (string, error) {
			return fileKey(), nil
		},
	})
	if err != nil {
		t.Fatalf("failed to open file keyring: %v", err)
	}
	return &PasswordStore{ring: ring, fallback: true}
}

func TestPasswordRoundTrip(t *testing.T) {
	ps := fileOnlyStore(t)

	if err := ps.Save("db.example.com", 5432, "appdb", "app", "s3cret"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := ps.Get("db.example.com", 5432, "appdb", "app")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("Get = %q, want 's3cret'", got)
	}

	if err := ps.Delete("db.example.com", 5432, "appdb", "app"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := ps.Get("db.example.com", 5432, "appdb", "app"); !errors.Is(err, ErrPasswordNotFound) {
		t.Errorf("Get after Delete = %v, want ErrPasswordNotFound", err)
	}
}

func TestGetMissingPassword(t *testing.T) {
	ps := fileOnlyStore(t)

	if _, err := ps.Get("nowhere", 5432, "db", "u"); !errors.Is(err, ErrPasswordNotFound) {
		t.Errorf("Get = %v, want ErrPasswordNotFound", err)
	}
}

func TestSaveEmptyPasswordIsNoop(t *testing.T) {
	ps := fileOnlyStore(t)

	if err := ps.Save("h", 5432, "db", "u", ""); err != nil {
		t.Fatalf("Save of empty password failed: %v", err)
	}
	if _, err := ps.Get("h", 5432, "db", "u"); !errors.Is(err, ErrPasswordNotFound) {
		t.Error("empty password should not be stored")
	}
}

func TestDeleteMissingPasswordIsNoop(t *testing.T) {
	ps := fileOnlyStore(t)

	if err := ps.Delete("h", 5432, "db", "u"); err != nil {
		t.Errorf("Delete of missing password should succeed, got %v", err)
	}
}

func TestPasswordKeyShape(t *testing.T) {
	got := passwordKey("db.example.com", 5432, "appdb", "app")
	if got != "app@db.example.com:5432/appdb" {
		t.Errorf("passwordKey = %q", got)
	}
}

func TestFileKeyStable(t *testing.T) {
	first := fileKey()
	if first == "" {
		t.Fatal("fileKey returned empty")
	}
	if len(first) != 64 { // hex sha256
		t.Errorf("fileKey length = %d, want 64", len(first))
	}
	if second := fileKey(); second != first {
		t.Error("fileKey must be stable across calls")
	}
}
