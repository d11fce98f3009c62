// Package report generates and retains the per-client PDF artifacts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wealthops/risk-profiler/internal/models"
)

// Manager maps a (client_id, version) pair to a persisted PDF. Handles are
// deterministic: "{client_id}_v{version}", stored as "<handle>.pdf" under
// the reports directory.
type Manager struct {
	dir          string
	retainLatest bool
	log          *zap.Logger
}

func NewManager(dir string, retainLatest bool, log *zap.Logger) *Manager {
	return &Manager{dir: dir, retainLatest: retainLatest, log: log}
}

// Handle returns the deterministic artifact name for a client and version.
func Handle(clientID string, version int) string {
	return fmt.Sprintf("%s_v%d", clientID, version)
}

// Path resolves a handle to its on-disk location.
func (m *Manager) Path(handle string) string {
	return filepath.Join(m.dir, handle+".pdf")
}

// Generate renders the report and, when retention is on, removes every
// prior version for the same client. Cleanup failures are logged, never
// propagated: generation success does not depend on them.
func (m *Manager) Generate(clientID string, a models.RiskAssessment, version int) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	handle := Handle(clientID, version)
	if err := renderPDF(m.Path(handle), clientID, a); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	m.log.Info("report generated",
		zap.String("client_id", clientID),
		zap.Int("version", version),
		zap.String("handle", handle))

	if m.retainLatest && version > 1 {
		m.cleanupOlder(clientID, version)
	}
	return handle, nil
}

func (m *Manager) cleanupOlder(clientID string, keep int) {
	for v := range m.versions(clientID) {
		if v == keep {
			continue
		}
		path := m.Path(Handle(clientID, v))
		if err := os.Remove(path); err != nil {
			m.log.Warn("failed to remove stale report",
				zap.String("client_id", clientID),
				zap.Int("version", v),
				zap.Error(err))
		}
	}
}

// LatestVersion scans stored artifacts for a client and returns the highest
// version found, or 0 when none exist. Independent of the in-memory record,
// so it can be used for recovery checks.
func (m *Manager) LatestVersion(clientID string) int {
	latest := 0
	for v := range m.versions(clientID) {
		if v > latest {
			latest = v
		}
	}
	return latest
}

// LatestPath returns the on-disk path of the newest report for a client.
func (m *Manager) LatestPath(clientID string) (string, bool) {
	latest := m.LatestVersion(clientID)
	if latest == 0 {
		return "", false
	}
	return m.Path(Handle(clientID, latest)), true
}

// versions lists the stored report versions for one client. Artifacts of
// other clients never match: the glob is anchored on the full client id.
func (m *Manager) versions(clientID string) map[int]struct{} {
	out := make(map[int]struct{})
	matches, err := filepath.Glob(filepath.Join(m.dir, clientID+"_v*.pdf"))
	if err != nil {
		return out
	}
	prefix := clientID + "_v"
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), ".pdf")
		v, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
		if err != nil || v < 1 {
			continue
		}
		out[v] = struct{}{}
	}
	return out
}
