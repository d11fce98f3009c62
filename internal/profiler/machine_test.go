package profiler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wealthops/risk-profiler/internal/models"
	"github.com/wealthops/risk-profiler/internal/report"
	"github.com/wealthops/risk-profiler/internal/store"
)

// scriptedAgent replays canned replies in order.
type scriptedAgent struct {
	replies []string
	calls   int
}

func (a *scriptedAgent) Converse(_ context.Context, _ string) (string, error) {
	if a.calls >= len(a.replies) {
		return "Could you tell me more?", nil
	}
	reply := a.replies[a.calls]
	a.calls++
	return reply, nil
}

type failingReports struct{}

func (failingReports) Generate(string, models.RiskAssessment, int) (string, error) {
	return "", errors.New("disk full")
}

func newTestMachine(t *testing.T, conv *scriptedAgent) (*Machine, *report.Manager) {
	t.Helper()
	reports := report.NewManager(t.TempDir(), true, zap.NewNop())
	m := NewMachine(store.NewMemory(), conv, reports, zap.NewNop())
	return m, reports
}

const completionJSON = `All done! {"profile_complete": true, "risk_score": 88, "risk_category": "aggressive",
"allocation": {"stocks": 80, "bonds": 10, "cash": 5, "alternatives": 5},
"insights": ["long horizon", "high capacity"], "next_steps": ["open account"]}`

func fieldsReply(comment string, fields string) string {
	return fmt.Sprintf(`%s {"fields": {%s}}`, comment, fields)
}

func TestEndToEndIntakeFlow(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome! How old are you?",
		fieldsReply("Thanks! How long will you invest?", `"age": 28`),
		fieldsReply("Got it. How would you describe your risk tolerance?", `"investment_horizon": 30`),
		fieldsReply("Understood. What is your main goal?", `"risk_tolerance": "aggressive"`),
		fieldsReply("Great. What is your annual income?", `"investment_goal": "wealth_building"`),
		fieldsReply("And your existing investments?", `"annual_income": 120000`),
		fieldsReply("Perfect, let me summarize.", `"existing_investments": 50000`),
		completionJSON,
	}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, greeting, err := m.StartSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Welcome! How old are you?", greeting)
	assert.Equal(t, models.StatusCollecting, p.Status)
	assert.Equal(t, 1, p.Version)

	turns := []string{
		"I'm 28",
		"30 years",
		"aggressive",
		"wealth building",
		"120000",
		"about 50000",
	}
	var last *TurnResult
	for _, turn := range turns {
		last, err = m.ProcessTurn(ctx, p.ClientID, turn)
		require.NoError(t, err)
		assert.False(t, last.ProfileComplete)
	}

	// All six collected: auto-promoted to REVIEWING with a summary block.
	assert.Equal(t, models.StatusReviewing, last.Status)
	assert.Contains(t, last.Reply, "Age: 28")
	assert.Contains(t, last.Reply, "Aggressive")
	assert.Contains(t, last.Reply, "$120,000")

	// Confirmation moves through CONFIRMED to COMPLETE and generates v1.
	result, err := m.ProcessTurn(ctx, p.ClientID, "confirm")
	require.NoError(t, err)
	assert.True(t, result.ProfileComplete)
	assert.Equal(t, models.StatusComplete, result.Status)
	assert.Equal(t, 1, result.Version)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, 88, result.Assessment.RiskScore)
	assert.Equal(t, models.ToleranceAggressive, result.Assessment.RiskCategory)
	assert.Equal(t, []string{"long horizon", "high capacity"}, result.Assessment.Insights)
	assert.Equal(t, report.Handle(p.ClientID, 1), result.ReportHandle)
	assert.Equal(t, 1, reports.LatestVersion(p.ClientID))
}

func TestPrematureCompletionPayloadIsDiscarded(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome!",
		// Agent tries to finish on the very first turn.
		completionJSON,
	}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)

	result, err := m.ProcessTurn(ctx, p.ClientID, "hello")
	require.NoError(t, err)
	assert.False(t, result.ProfileComplete)
	assert.Equal(t, models.StatusCollecting, result.Status)
	assert.Equal(t, 0, reports.LatestVersion(p.ClientID))

	// The record never saw CONFIRMED or COMPLETE.
	stored, err := m.GetProfile(p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCollecting, stored.Status)
}

func TestMalformedFinalizationKeepsConfirmed(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome!",
		"Sure, everything is set.", // no JSON where completion was expected
		completionJSON,             // retry succeeds
	}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)
	setStatus(t, m, p.ClientID, models.StatusReviewing)

	result, err := m.ProcessTurn(ctx, p.ClientID, "yes, confirm")
	require.NoError(t, err)
	assert.False(t, result.ProfileComplete)
	assert.Equal(t, models.StatusConfirmed, result.Status)

	// Re-confirming retries finalization.
	result, err = m.ProcessTurn(ctx, p.ClientID, "confirm")
	require.NoError(t, err)
	assert.True(t, result.ProfileComplete)
	assert.Equal(t, models.StatusComplete, result.Status)
}

func TestArtifactWriteFailureStaysConfirmed(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome!",
		completionJSON,
	}}
	m := NewMachine(store.NewMemory(), conv, failingReports{}, zap.NewNop())

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)
	setStatus(t, m, p.ClientID, models.StatusReviewing)

	_, err = m.ProcessTurn(ctx, p.ClientID, "confirm")
	var writeErr *ArtifactWriteError
	require.ErrorAs(t, err, &writeErr)

	stored, err := m.GetProfile(p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, 1, stored.Version)
	assert.Empty(t, stored.LastReportHandle)
}

func TestConversationalEditReturnsToReviewing(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome!",
		"Updated! Let me recap.",
	}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)
	setStatus(t, m, p.ClientID, models.StatusReviewing)

	result, err := m.ProcessTurn(ctx, p.ClientID, "Actually I'm 30, not 28")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewing, result.Status)
	assert.Equal(t, "30", result.Summary["Age"])
	assert.Contains(t, result.Reply, "Age: 30")
}

func TestEditOnIncompleteProfileKeepsCollecting(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome! How old are you?",
		fieldsReply("Thanks! How long will you invest?", `"age": 30`),
		"Could you tell me about your investment timeline?",
	}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)

	// A correction on the very first turn: the value is applied but the
	// record stays in collection, since five attributes are still unset.
	result, err := m.ProcessTurn(ctx, p.ClientID, "Actually I'm 30")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCollecting, result.Status)
	assert.Equal(t, "30", result.Summary["Age"])
	assert.False(t, result.ProfileComplete)

	// An affirmative while collecting is just another turn, never a
	// confirmation of an incomplete profile.
	result, err = m.ProcessTurn(ctx, p.ClientID, "yes")
	require.NoError(t, err)
	assert.False(t, result.ProfileComplete)
	assert.Equal(t, models.StatusCollecting, result.Status)
	assert.Equal(t, 0, reports.LatestVersion(p.ClientID))
}

func TestConfirmationOnIncompleteProfileIsRejected(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	setStatus(t, m, p.ClientID, models.StatusReviewing)

	_, err = m.ProcessTurn(ctx, p.ClientID, "confirm")
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, models.FieldOrder, missing.Fields)

	stored, err := m.GetProfile(p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewing, stored.Status)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, 0, reports.LatestVersion(p.ClientID))
}

func TestEditWithoutValueParksInEditing(t *testing.T) {
	conv := &scriptedAgent{replies: []string{
		"Welcome!",
		"Of course - what should your income be?",
		fieldsReply("Thanks, updated.", `"annual_income": 200000`),
	}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)
	setStatus(t, m, p.ClientID, models.StatusReviewing)

	result, err := m.ProcessTurn(ctx, p.ClientID, "Can I change my income?")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEditing, result.Status)

	// The answer flows through the ordinary turn and repromotes to REVIEWING.
	result, err = m.ProcessTurn(ctx, p.ClientID, "200000")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewing, result.Status)
	assert.Equal(t, "$200,000", result.Summary["Annual Income"])
}

func TestRegenerateIdempotence(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)

	stored, _, err := m.Regenerate(ctx, p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, models.StatusComplete, stored.Status)

	stored, _, err = m.Regenerate(ctx, p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Version)

	// Keep-latest retention: exactly one artifact, at the newest version.
	assert.Equal(t, 3, reports.LatestVersion(p.ClientID))
	_, ok := reports.LatestPath(p.ClientID)
	assert.True(t, ok)
	assert.Equal(t, report.Handle(p.ClientID, 3), stored.LastReportHandle)
}

func TestRegenerateIncompleteProfile(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)

	_, _, err = m.Regenerate(ctx, p.ClientID)
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, models.FieldOrder, missing.Fields)
}

func TestEditAfterComplete(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, reports := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)
	completeProfile(t, m, p.ClientID)

	// First generation puts the record at COMPLETE, version 2.
	stored, _, err := m.Regenerate(ctx, p.ClientID)
	require.NoError(t, err)
	require.Equal(t, models.StatusComplete, stored.Status)
	baseVersion := stored.Version

	// Direct update moves to EDITING without touching the version.
	stored, err = m.UpdateField(p.ClientID, "income", "200000")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEditing, stored.Status)
	assert.Equal(t, baseVersion, stored.Version)

	// Regeneration bumps the version and leaves one artifact.
	stored, _, err = m.Regenerate(ctx, p.ClientID)
	require.NoError(t, err)
	assert.Equal(t, baseVersion+1, stored.Version)
	assert.Equal(t, models.StatusComplete, stored.Status)
	assert.Equal(t, baseVersion+1, reports.LatestVersion(p.ClientID))
}

func TestUpdateFieldErrors(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)

	_, err = m.UpdateField(p.ClientID, "shoe_size", "42")
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)

	_, err = m.UpdateField(p.ClientID, "age", "not a number")
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = m.UpdateField("nope", "age", "30")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestDeleteSession(t *testing.T) {
	conv := &scriptedAgent{replies: []string{"Welcome!"}}
	m, _ := newTestMachine(t, conv)

	ctx := context.Background()
	p, _, err := m.StartSession(ctx)
	require.NoError(t, err)

	require.NoError(t, m.DeleteSession(p.ClientID))
	assert.ErrorIs(t, m.DeleteSession(p.ClientID), ErrUnknownSession)

	_, err = m.GetProfile(p.ClientID)
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = m.ProcessTurn(ctx, p.ClientID, "hello")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

// completeProfile fills all six attributes through the direct update path.
func completeProfile(t *testing.T, m *Machine, clientID string) {
	t.Helper()
	for field, value := range map[string]string{
		"age":                  "28",
		"investment_horizon":   "30",
		"risk_tolerance":       "aggressive",
		"investment_goal":      "wealth_building",
		"annual_income":        "120000",
		"existing_investments": "50000",
	} {
		_, err := m.UpdateField(clientID, field, value)
		require.NoError(t, err)
	}
}

// setStatus forces a status for scenario setup.
func setStatus(t *testing.T, m *Machine, clientID string, status models.ProfileStatus) {
	t.Helper()
	p, err := m.GetProfile(clientID)
	require.NoError(t, err)
	p.Status = status
	m.store.Put(p)
}
