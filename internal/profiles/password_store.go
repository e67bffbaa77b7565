package profiles

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "workgrid-studio"
	fileKeySalt = "workgrid-studio-keyring-v1"
)

// ErrPasswordNotFound is returned when no password is stored for a profile
var ErrPasswordNotFound = errors.New("password not found in keyring")

// Native keyring backends per OS, in preference order. The file backend is
// always last so profiles keep working on machines without a keyring
// service.
var platformBackends = map[string][]keyring.BackendType{
	"darwin":  {keyring.KeychainBackend, keyring.FileBackend},
	"linux":   {keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.FileBackend},
	"windows": {keyring.WinCredBackend, keyring.FileBackend},
}

// PasswordStore keeps connection passwords in the OS keyring, falling back
// to an encrypted file under the config dir when no native backend is
// available.
type PasswordStore struct {
	ring     keyring.Keyring
	fallback bool
}

// NewPasswordStore opens the keyring with platform-appropriate backends.
func NewPasswordStore(configDir string) (*PasswordStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: allowedBackends(),
		FileDir:         filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(_ string) (string, error) {
			return fileKey(), nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &PasswordStore{ring: ring, fallback: usingFileFallback()}, nil
}

// IsUsingFallback returns true if the password store is using the file
// backend instead of the native OS keyring.
func (ps *PasswordStore) IsUsingFallback() bool {
	return ps.fallback
}

// Save stores a password in the keyring. Empty passwords are not stored.
func (ps *PasswordStore) Save(host string, port int, database, user, password string) error {
	if password == "" {
		return nil
	}

	key := passwordKey(host, port, database, user)
	err := ps.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(password),
		Label:       serviceName + ": " + key,
		Description: "Database connection password for " + serviceName,
	})
	if err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves a password from the keyring
func (ps *PasswordStore) Get(host string, port int, database, user string) (string, error) {
	item, err := ps.ring.Get(passwordKey(host, port, database, user))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a password from the keyring. Deleting a password that was
// never stored is not an error.
func (ps *PasswordStore) Delete(host string, port int, database, user string) error {
	err := ps.ring.Remove(passwordKey(host, port, database, user))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

// passwordKey identifies one profile's password, in the same shape as
// connection ids.
func passwordKey(host string, port int, database, user string) string {
	return fmt.Sprintf("%s@%s:%d/%s", user, host, port, database)
}

func allowedBackends() []keyring.BackendType {
	if backends, ok := platformBackends[runtime.GOOS]; ok {
		return backends
	}
	return []keyring.BackendType{keyring.FileBackend}
}

// usingFileFallback reports whether the file backend is all this machine
// has to offer.
func usingFileFallback() bool {
	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			return false
		}
	}
	return true
}

// fileKey derives the passphrase protecting the file-backend keyring. It
// mixes a machine identifier with the current user and a fixed salt, so the
// key is stable across restarts but useless on another machine.
func fileKey() string {
	parts := []string{machineIdentifier(), currentUser(), fileKeySalt}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" { // Windows
		return u
	}
	return "uid-" + strconv.Itoa(os.Getuid())
}

// machineIdentifier returns a stable per-machine string, falling back to
// the hostname when no platform source is available.
func machineIdentifier() string {
	if id := platformMachineID(); id != "" {
		return id
	}
	host, _ := os.Hostname()
	return host
}

func platformMachineID() string {
	switch runtime.GOOS {
	case "linux":
		for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
			if data, err := os.ReadFile(path); err == nil {
				return strings.TrimSpace(string(data))
			}
		}
	case "darwin":
		if out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output(); err == nil {
			return parseQuotedField(string(out), "IOPlatformUUID")
		}
	case "windows":
		if out, err := exec.Command("wmic", "csproduct", "get", "UUID").Output(); err == nil {
			return parseWmicValue(string(out))
		}
	}
	return ""
}

// parseQuotedField pulls `field = "value"` out of ioreg output.
func parseQuotedField(output, field string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, field) {
			continue
		}
		if _, value, found := strings.Cut(line, "="); found {
			return strings.Trim(strings.TrimSpace(value), "\"")
		}
	}
	return ""
}

// parseWmicValue returns the first non-header line of `wmic ... get` output.
func parseWmicValue(output string) string {
	lines := strings.Split(output, "\n")
	for _, line := range lines[1:] {
		if v := strings.TrimSpace(line); v != "" {
			return v
		}
	}
	return ""
}
