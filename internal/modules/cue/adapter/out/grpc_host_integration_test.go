package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	cueout "moodooro/internal/modules/cue/adapter/out"
	"moodooro/internal/modules/cue/domain"
)

func TestGRPCHostIntegrationBellPlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a plugin binary")
	}
	binPath, checksum := buildBellPlugin(t)
	manifest := domain.Manifest{
		Name:    "bell",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  checksum,
		Enabled: true,
		Events:  []domain.EventKind{domain.EventFocusComplete, domain.EventBreakComplete},
	}

	host := cueout.NewGRPCHost()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := host.CheckLifecycle(ctx, manifest); err != nil {
		t.Fatalf("check lifecycle: %v", err)
	}
	metadata, err := host.GetMetadata(ctx, manifest)
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if metadata.Name != "bell" || len(metadata.Events) != 2 {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}
	err = host.Notify(ctx, manifest, domain.Event{
		Kind:     domain.EventFocusComplete,
		Subject:  "Algebra",
		Duration: 25 * time.Minute,
		At:       time.Now(),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
}

func buildBellPlugin(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "bell-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/bell")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build bell plugin: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built plugin: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
