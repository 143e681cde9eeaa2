package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"moodooro/internal/modules/cue/domain"
	"moodooro/internal/modules/cue/dto"
	cueout "moodooro/internal/modules/cue/port/out"
)

type CueService struct {
	store  cueout.ManifestStore
	host   cueout.Host
	chime  cueout.Chime
	logger *zap.Logger
}

// NewCueService wires the cue targets. chime and host may be nil to disable
// the bell or plugins.
func NewCueService(store cueout.ManifestStore, host cueout.Host, chime cueout.Chime, logger *zap.Logger) *CueService {
	return &CueService{store: store, host: host, chime: chime, logger: logger}
}

// Notify delivers event to the bell and to every enabled plugin that
// subscribed to its kind. It never fails; problems end up in the report.
func (s *CueService) Notify(ctx context.Context, event domain.Event) dto.Report {
	report := dto.Report{}
	if err := event.Kind.Validate(); err != nil {
		report.Failures = append(report.Failures, dto.Failure{Target: "event", Err: err.Error()})
		return report
	}
	if s.chime != nil {
		if err := s.chime.Ring(ctx, event); err != nil {
			report.Failures = append(report.Failures, dto.Failure{Target: s.chime.Name(), Err: err.Error()})
		} else {
			report.Delivered = append(report.Delivered, s.chime.Name())
		}
	}
	if s.host == nil || s.store == nil {
		return report
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		report.Failures = append(report.Failures, dto.Failure{Target: "manifests", Err: err.Error()})
		return report
	}
	for _, m := range manifests {
		if !m.Enabled || !m.Handles(event.Kind) {
			continue
		}
		if err := s.deliver(ctx, m, event); err != nil {
			s.logger.Debug("cue plugin failed", zap.String("plugin", m.Name), zap.Error(err))
			report.Failures = append(report.Failures, dto.Failure{Target: m.Name, Err: err.Error()})
			continue
		}
		report.Delivered = append(report.Delivered, m.Name)
	}
	return report
}

func (s *CueService) deliver(ctx context.Context, manifest domain.Manifest, event domain.Event) error {
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return err
	}
	return s.host.Notify(ctx, manifest, event)
}

func (s *CueService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		events := make([]string, 0, len(m.Events))
		for _, e := range m.Events {
			events = append(events, string(e))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Events: events})
	}
	return out, nil
}

func (s *CueService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *CueService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
