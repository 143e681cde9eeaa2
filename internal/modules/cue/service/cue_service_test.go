package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"moodooro/internal/modules/cue/domain"
	"moodooro/internal/modules/cue/service"
)

type staticStore struct {
	manifests []domain.Manifest
	err       error
}

func (s staticStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, s.err
}

type fakeHost struct {
	notified     []string
	notifyErr    map[string]error
	lifecycleErr error
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error {
	return h.lifecycleErr
}

func (h *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Events: m.Events}, nil
}

func (h *fakeHost) Notify(_ context.Context, m domain.Manifest, _ domain.Event) error {
	if err := h.notifyErr[m.Name]; err != nil {
		return err
	}
	h.notified = append(h.notified, m.Name)
	return nil
}

type fakeChime struct{ err error }

func (fakeChime) Name() string { return "bell" }

func (c fakeChime) Ring(context.Context, domain.Event) error { return c.err }

func fakeBinary(t *testing.T, name string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	payload := []byte("binary:" + name)
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(payload)
	return path, hex.EncodeToString(sum[:])
}

func manifest(t *testing.T, name string, enabled bool, events ...domain.EventKind) domain.Manifest {
	t.Helper()
	bin, sum := fakeBinary(t, name)
	return domain.Manifest{Name: name, Version: "1.0.0", Binary: bin, SHA256: sum, Enabled: enabled, Events: events}
}

var focusDone = domain.Event{Kind: domain.EventFocusComplete, Duration: 25 * time.Minute, At: time.Now()}

func TestNotifyFansOutToSubscribedPlugins(t *testing.T) {
	t.Parallel()
	tampered := manifest(t, "tampered", true, domain.EventFocusComplete)
	tampered.SHA256 = strings.Repeat("0", 64)
	store := staticStore{manifests: []domain.Manifest{
		manifest(t, "chime", true, domain.EventFocusComplete),
		manifest(t, "breaks-only", true, domain.EventBreakComplete),
		manifest(t, "disabled", false, domain.EventFocusComplete),
		manifest(t, "flaky", true, domain.EventFocusComplete, domain.EventBreakComplete),
		tampered,
	}}
	host := &fakeHost{notifyErr: map[string]error{"flaky": errors.New("connection refused")}}
	svc := service.NewCueService(store, host, fakeChime{}, zap.NewNop())

	report := svc.Notify(context.Background(), focusDone)
	if strings.Join(report.Delivered, ",") != "bell,chime" {
		t.Fatalf("unexpected deliveries: %v", report.Delivered)
	}
	if len(host.notified) != 1 || host.notified[0] != "chime" {
		t.Fatalf("unexpected plugin calls: %v", host.notified)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("expected flaky and tampered failures, got %+v", report.Failures)
	}
	if report.Failures[1].Target != "tampered" || !strings.Contains(report.Failures[1].Err, "checksum mismatch") {
		t.Fatalf("expected checksum failure for tampered plugin, got %+v", report.Failures[1])
	}
}

func TestNotifySwallowsBellAndManifestErrors(t *testing.T) {
	t.Parallel()
	svc := service.NewCueService(
		staticStore{err: errors.New("permission denied")},
		&fakeHost{},
		fakeChime{err: errors.New("no tty")},
		zap.NewNop(),
	)
	report := svc.Notify(context.Background(), focusDone)
	if len(report.Delivered) != 0 || len(report.Failures) != 2 {
		t.Fatalf("expected two swallowed failures, got %+v", report)
	}

	report = svc.Notify(context.Background(), domain.Event{Kind: "lunch"})
	if len(report.Failures) != 1 || report.Failures[0].Target != "event" {
		t.Fatalf("expected unknown event to be reported, got %+v", report)
	}
}

func TestNotifyWithoutPluginsOnlyRingsBell(t *testing.T) {
	t.Parallel()
	svc := service.NewCueService(nil, nil, fakeChime{}, zap.NewNop())
	report := svc.Notify(context.Background(), focusDone)
	if len(report.Delivered) != 1 || report.Delivered[0] != "bell" {
		t.Fatalf("expected bell delivery, got %+v", report)
	}
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	good := manifest(t, "good", true, domain.EventFocusComplete)
	bad := manifest(t, "bad", true, domain.EventFocusComplete)
	bad.SHA256 = strings.Repeat("0", 64)
	missing := manifest(t, "missing", true, domain.EventFocusComplete)
	missing.Binary = filepath.Join(t.TempDir(), "nope")

	svc := service.NewCueService(staticStore{manifests: []domain.Manifest{good, bad, missing}}, &fakeHost{}, nil, zap.NewNop())
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected three results, got %d", len(results))
	}
	if !results[0].LifecycleOK || !results[0].ChecksumValid || results[0].Error != "" {
		t.Fatalf("expected healthy plugin, got %+v", results[0])
	}
	if results[1].ChecksumValid || results[1].Error != "checksum mismatch" {
		t.Fatalf("expected checksum mismatch, got %+v", results[1])
	}
	if results[2].BinaryReachable {
		t.Fatalf("expected unreachable binary, got %+v", results[2])
	}
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	a := manifest(t, "twin", true, domain.EventFocusComplete)
	b := manifest(t, "twin", true, domain.EventBreakComplete)
	svc := service.NewCueService(staticStore{manifests: []domain.Manifest{a, b}}, nil, nil, zap.NewNop())
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}

	svc = service.NewCueService(staticStore{manifests: []domain.Manifest{a}}, nil, nil, zap.NewNop())
	plugins, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plugins) != 1 || plugins[0].Events[0] != "focus_complete" {
		t.Fatalf("unexpected plugins: %+v", plugins)
	}
}
