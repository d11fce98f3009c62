// Package profiler holds the intake core: the risk scorer, the intent
// heuristics and the profile state machine that moves a client record
// through collecting, reviewing, confirmation, completion and editing.
package profiler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wealthops/risk-profiler/internal/agent"
	"github.com/wealthops/risk-profiler/internal/models"
	"github.com/wealthops/risk-profiler/internal/store"
)

// ReportStore persists a rendered assessment for a client at a version and
// returns the artifact handle.
type ReportStore interface {
	Generate(clientID string, a models.RiskAssessment, version int) (string, error)
}

// Machine owns every status transition. Agent output never drives status
// directly: payloads are validated here and completion is only reachable
// through an explicit user confirmation.
type Machine struct {
	store    store.Store
	agent    agent.Converser
	reports  ReportStore
	confirms ConfirmationDetector
	edits    EditResolver
	log      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMachine(sessions store.Store, conv agent.Converser, reports ReportStore, log *zap.Logger) *Machine {
	return &Machine{
		store:    sessions,
		agent:    conv,
		reports:  reports,
		confirms: NewKeywordConfirmation(),
		edits:    NewKeywordEditResolver(),
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lock serializes mutation per client. The transport is expected to send at
// most one in-flight request per client; this guards version and status
// against lost updates if it does not.
func (m *Machine) lock(clientID string) func() {
	m.mu.Lock()
	l, ok := m.locks[clientID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[clientID] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (m *Machine) dropLock(clientID string) {
	m.mu.Lock()
	delete(m.locks, clientID)
	m.mu.Unlock()
}

// TurnResult is the outcome of one user turn.
type TurnResult struct {
	Reply           string
	ProfileComplete bool
	Status          models.ProfileStatus
	Version         int
	Assessment      *models.RiskAssessment
	Summary         map[string]string
	ReportHandle    string
}

// StartSession creates a COLLECTING record and obtains the opening
// greeting. The session is only stored once the greeting succeeds.
func (m *Machine) StartSession(ctx context.Context) (*models.ClientProfile, string, error) {
	p := models.NewClientProfile(uuid.New().String())

	greeting, err := m.agent.Converse(ctx, agent.GreetingPrompt())
	if err != nil {
		return nil, "", fmt.Errorf("agent greeting failed: %w", err)
	}
	greeting = agent.StripJSON(greeting)

	p.AppendMessage(models.RoleAssistant, greeting)
	m.store.Put(p)
	m.log.Info("session started", zap.String("client_id", p.ClientID))
	return p, greeting, nil
}

// ProcessTurn is the main entry point: one user utterance in, one
// assistant reply and a possibly advanced profile out.
func (m *Machine) ProcessTurn(ctx context.Context, clientID, content string) (*TurnResult, error) {
	defer m.lock(clientID)()

	p, ok := m.store.Get(clientID)
	if !ok {
		return nil, ErrUnknownSession
	}
	p.AppendMessage(models.RoleUser, content)

	// Confirmation fires from REVIEWING, and again from CONFIRMED so that
	// a failed finalization can be retried by re-confirming.
	if (p.Status == models.StatusReviewing || p.Status == models.StatusConfirmed) &&
		m.confirms.IsConfirmation(content) {
		return m.finalize(ctx, p)
	}

	if req := m.edits.ResolveEdit(content); req != nil {
		return m.handleEdit(ctx, p, req)
	}

	return m.collectTurn(ctx, p)
}

// finalize runs CONFIRMED -> COMPLETE: request the completion payload,
// validate it, generate the artifact at the current version. A profile
// can only be confirmed once every attribute is collected.
func (m *Machine) finalize(ctx context.Context, p *models.ClientProfile) (*TurnResult, error) {
	if !p.IsComplete() {
		return nil, &MissingFieldsError{Fields: p.MissingFields()}
	}

	p.Status = models.StatusConfirmed
	p.Touch()
	m.store.Put(p)

	reply, err := m.agent.Converse(ctx, agent.FinalizePrompt(p))
	if err != nil {
		return nil, fmt.Errorf("agent finalization failed: %w", err)
	}

	payload := agent.ExtractJSON(reply)
	if payload == nil || !payloadComplete(payload) {
		// Malformed or missing completion JSON where one was expected.
		// Logged, not raised: the record stays CONFIRMED and the caller
		// may re-confirm to retry.
		m.log.Warn("protocol violation: expected completion payload",
			zap.String("client_id", p.ClientID))
		p.AppendMessage(models.RoleAssistant, reply)
		m.store.Put(p)
		return &TurnResult{
			Reply:   reply,
			Status:  p.Status,
			Version: p.Version,
			Summary: p.Summary(),
		}, nil
	}

	assessment := m.assessmentFromPayload(payload, p)
	handle, err := m.reports.Generate(p.ClientID, assessment, p.Version)
	if err != nil {
		// Stay at CONFIRMED; version untouched; retry is safe.
		m.store.Put(p)
		return nil, &ArtifactWriteError{ClientID: p.ClientID, Version: p.Version, Err: err}
	}

	display := agent.StripJSON(reply)
	if display == "" {
		display = "Your risk profile is complete. The report is ready for download."
	}
	p.AppendMessage(models.RoleAssistant, display)
	p.LastReportHandle = handle
	p.Status = models.StatusComplete
	p.Touch()
	m.store.Put(p)
	m.log.Info("profile complete",
		zap.String("client_id", p.ClientID),
		zap.Int("version", p.Version),
		zap.Int("risk_score", assessment.RiskScore))

	return &TurnResult{
		Reply:           display,
		ProfileComplete: true,
		Status:          p.Status,
		Version:         p.Version,
		Assessment:      &assessment,
		Summary:         p.Summary(),
		ReportHandle:    handle,
	}, nil
}

// handleEdit applies a correction request. With a value the profile is
// updated and returns to REVIEWING (EDITING is a transient marker on the
// way); without one the record parks in EDITING until the value arrives.
// REVIEWING is only reachable once the profile is complete: an edit
// arriving mid-collection applies the value and continues collecting.
func (m *Machine) handleEdit(ctx context.Context, p *models.ClientProfile, req *EditRequest) (*TurnResult, error) {
	if req.HasValue {
		if err := p.SetField(req.Field, req.Value); err != nil {
			p.Status = models.StatusEditing
			p.Touch()
			reply := fmt.Sprintf("I couldn't use that value: %v. What should %s be?", err, req.Field)
			p.AppendMessage(models.RoleAssistant, reply)
			m.store.Put(p)
			return m.turnResult(p, reply), nil
		}

		if !p.IsComplete() {
			p.Status = models.StatusCollecting
			return m.collectTurn(ctx, p)
		}

		p.Status = models.StatusEditing
		reply, err := m.agent.Converse(ctx, agent.EditAckPrompt(p, req.Field))
		if err != nil {
			return nil, fmt.Errorf("agent edit acknowledgment failed: %w", err)
		}
		reply = agent.StripJSON(reply)
		reply = reply + "\n\n" + m.reviewBlock(p)
		p.Status = models.StatusReviewing
		p.Touch()
		p.AppendMessage(models.RoleAssistant, reply)
		m.store.Put(p)
		return m.turnResult(p, reply), nil
	}

	p.Status = models.StatusEditing
	p.Touch()
	reply, err := m.agent.Converse(ctx, agent.AskValuePrompt(p, req.Field))
	if err != nil {
		return nil, fmt.Errorf("agent edit prompt failed: %w", err)
	}
	reply = agent.StripJSON(reply)
	p.AppendMessage(models.RoleAssistant, reply)
	m.store.Put(p)
	return m.turnResult(p, reply), nil
}

// collectTurn forwards the conversation to the agent, applies any gathered
// field values and promotes the record to REVIEWING when it becomes
// complete.
func (m *Machine) collectTurn(ctx context.Context, p *models.ClientProfile) (*TurnResult, error) {
	reply, err := m.agent.Converse(ctx, agent.TurnPrompt(p))
	if err != nil {
		return nil, fmt.Errorf("agent turn failed: %w", err)
	}

	display := reply
	if payload := agent.ExtractJSON(reply); payload != nil {
		display = agent.StripJSON(reply)
		if payloadComplete(payload) {
			// The agent tried to finish without a confirmed review. The
			// payload is discarded and the conversation continues.
			m.log.Warn("protocol violation: completion payload without confirmation",
				zap.String("client_id", p.ClientID),
				zap.String("status", string(p.Status)))
		} else {
			m.applyFields(p, payload)
		}
	}

	if (p.Status == models.StatusCollecting || p.Status == models.StatusEditing) && p.IsComplete() {
		p.Status = models.StatusReviewing
		p.Touch()
		display = strings.TrimSpace(display + "\n\n" + m.reviewBlock(p))
	}

	p.AppendMessage(models.RoleAssistant, display)
	m.store.Put(p)
	return m.turnResult(p, display), nil
}

// applyFields feeds agent-gathered values through the same validated
// update path as a direct edit. Bad values are dropped, not trusted.
func (m *Machine) applyFields(p *models.ClientProfile, payload map[string]any) {
	fields, ok := payload["fields"].(map[string]any)
	if !ok {
		return
	}
	for name, raw := range fields {
		key, ok := models.ResolveFieldKey(name)
		if !ok {
			m.log.Debug("agent sent unknown field", zap.String("field", name))
			continue
		}
		if err := p.SetField(key, raw); err != nil {
			m.log.Debug("agent sent invalid field value",
				zap.String("field", string(key)),
				zap.Error(err))
		}
	}
}

func (m *Machine) reviewBlock(p *models.ClientProfile) string {
	return "Here is your profile summary:\n" +
		strings.Join(p.SummaryLines(), "\n") +
		"\n\nDoes everything look correct? Say \"confirm\" to generate your risk report, or tell me what to change."
}

func (m *Machine) turnResult(p *models.ClientProfile, reply string) *TurnResult {
	return &TurnResult{
		Reply:   reply,
		Status:  p.Status,
		Version: p.Version,
		Summary: p.Summary(),
	}
}

// GetProfile returns the live record.
func (m *Machine) GetProfile(clientID string) (*models.ClientProfile, error) {
	p, ok := m.store.Get(clientID)
	if !ok {
		return nil, ErrUnknownSession
	}
	return p, nil
}

// UpdateField is the direct (non-conversational) field update. On a
// COMPLETE profile it moves the record to EDITING; the version only moves
// on the subsequent regeneration.
func (m *Machine) UpdateField(clientID, field string, raw any) (*models.ClientProfile, error) {
	defer m.lock(clientID)()

	p, ok := m.store.Get(clientID)
	if !ok {
		return nil, ErrUnknownSession
	}

	known, err := p.UpdateField(field, raw)
	if !known {
		return nil, &UnknownFieldError{Name: field}
	}
	if err != nil {
		return nil, err
	}

	if p.Status == models.StatusComplete {
		p.Status = models.StatusEditing
		p.Touch()
	}
	m.store.Put(p)
	return p, nil
}

// Regenerate rebuilds the assessment from the scorer and writes a fresh
// artifact at the next version. The version is only advanced once the
// artifact is durably written.
func (m *Machine) Regenerate(ctx context.Context, clientID string) (*models.ClientProfile, *models.RiskAssessment, error) {
	defer m.lock(clientID)()

	p, ok := m.store.Get(clientID)
	if !ok {
		return nil, nil, ErrUnknownSession
	}
	if !p.IsComplete() {
		return nil, nil, &MissingFieldsError{Fields: p.MissingFields()}
	}

	assessment := Assess(p)
	next := p.Version + 1
	handle, err := m.reports.Generate(p.ClientID, assessment, next)
	if err != nil {
		return nil, nil, &ArtifactWriteError{ClientID: p.ClientID, Version: next, Err: err}
	}

	p.Version = next
	p.LastReportHandle = handle
	p.Status = models.StatusComplete
	p.Touch()
	m.store.Put(p)
	m.log.Info("report regenerated",
		zap.String("client_id", p.ClientID),
		zap.Int("version", p.Version))
	return p, &assessment, nil
}

// DeleteSession removes the record. Stored artifacts are left in place.
func (m *Machine) DeleteSession(clientID string) error {
	defer m.lock(clientID)()

	if !m.store.Delete(clientID) {
		return ErrUnknownSession
	}
	m.dropLock(clientID)
	m.log.Info("session deleted", zap.String("client_id", clientID))
	return nil
}

func payloadComplete(payload map[string]any) bool {
	complete, _ := payload["profile_complete"].(bool)
	return complete
}

// assessmentFromPayload validates the completion payload, deriving the
// category from the score when the agent omitted it and falling back to
// the scorer's tables for anything else missing. Insights and next steps
// are trusted verbatim when present.
func (m *Machine) assessmentFromPayload(payload map[string]any, p *models.ClientProfile) models.RiskAssessment {
	fallback := Assess(p)

	score := fallback.RiskScore
	if raw, ok := payload["risk_score"].(float64); ok && raw >= 1 && raw <= 100 {
		score = int(raw)
	}

	category := CategoryForScore(score)
	if raw, ok := payload["risk_category"].(string); ok {
		if parsed, err := models.ParseRiskTolerance(raw); err == nil {
			category = parsed
		}
	}

	allocation := AllocationForCategory(category)
	if raw, ok := payload["allocation"].(map[string]any); ok {
		allocation = models.Allocation{
			Stocks:       pct(raw, "stocks", allocation.Stocks),
			Bonds:        pct(raw, "bonds", allocation.Bonds),
			Cash:         pct(raw, "cash", allocation.Cash),
			Alternatives: pct(raw, "alternatives", allocation.Alternatives),
		}
	}

	insights := stringList(payload["insights"])
	if len(insights) == 0 {
		insights = fallback.Insights
	}
	nextSteps := stringList(payload["next_steps"])
	if len(nextSteps) == 0 {
		nextSteps = fallback.NextSteps
	}

	return models.RiskAssessment{
		RiskScore:    score,
		RiskCategory: category,
		Allocation:   allocation,
		Insights:     insights,
		NextSteps:    nextSteps,
	}
}

func pct(raw map[string]any, key string, def int) int {
	if v, ok := raw[key].(float64); ok {
		return int(v)
	}
	return def
}

func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
