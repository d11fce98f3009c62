package agent

import (
	"fmt"
	"strings"

	"github.com/wealthops/risk-profiler/internal/models"
)

const systemPrompt = `You are a professional wealth management advisor specializing in client onboarding and risk profiling.

Your goal is to gather the following information through natural conversation:
1. Age and investment timeline (investment horizon in years)
2. Risk tolerance (conservative, moderate, aggressive)
3. Primary investment goal (retirement, wealth_building, income_generation, capital_preservation)
4. Annual income
5. Existing investment portfolio value

Guidelines:
- Ask ONE question at a time
- Be conversational and empathetic
- Provide brief educational context when needed
- Never decide on your own that profiling is finished; the system tells you when to finalize

After your conversational reply, append a JSON object recording any values the client has stated so far, in this exact shape (omit fields you do not know yet):
{"fields": {"age": 28, "investment_horizon": 30, "risk_tolerance": "aggressive", "investment_goal": "wealth_building", "annual_income": 120000, "existing_investments": 50000}}`

const completionInstruction = `The client has confirmed the profile summary. Respond ONLY with JSON in this exact format:
{
"profile_complete": true,
"risk_score": <1-100>,
"risk_category": "<conservative|moderate|aggressive>",
"allocation": {"stocks": <pct>, "bonds": <pct>, "cash": <pct>, "alternatives": <pct>},
"insights": ["insight1", "insight2", "insight3"],
"next_steps": ["step1", "step2", "step3"]
}

Risk scoring logic:
- Conservative: 1-35 (age 50+, short horizon, low risk tolerance)
- Moderate: 36-65 (age 30-50, medium horizon, balanced approach)
- Aggressive: 66-100 (age <30, long horizon, high risk tolerance)

Portfolio allocation rules:
- Conservative: 30% stocks, 50% bonds, 15% cash, 5% alternatives
- Moderate: 60% stocks, 30% bonds, 5% cash, 5% alternatives
- Aggressive: 80% stocks, 10% bonds, 5% cash, 5% alternatives`

// GreetingPrompt opens a new session.
func GreetingPrompt() string {
	return systemPrompt + "\n\nStart the conversation: greet the client warmly and ask the first question."
}

// TurnPrompt builds the ordinary next-question prompt from the recorded
// conversation. History already includes the latest user message.
func TurnPrompt(p *models.ClientProfile) string {
	return fmt.Sprintf("%s\n\nPrevious conversation:\n%s\n\nContinue the conversation.",
		systemPrompt, renderHistory(p))
}

// FinalizePrompt requests the completion payload after the client confirmed
// the reviewed summary.
func FinalizePrompt(p *models.ClientProfile) string {
	return fmt.Sprintf("%s\n\nClient profile:\n%s\n\nPrevious conversation:\n%s\n\n%s",
		systemPrompt, strings.Join(p.SummaryLines(), "\n"), renderHistory(p), completionInstruction)
}

// EditAckPrompt asks the agent to acknowledge an applied correction and
// walk the client through the updated summary.
func EditAckPrompt(p *models.ClientProfile, field models.FieldKey) string {
	return fmt.Sprintf("%s\n\nThe client corrected %s. The updated profile is:\n%s\n\nAcknowledge the change briefly and ask the client to confirm the updated summary. Do not append a fields JSON object.",
		systemPrompt, field, strings.Join(p.SummaryLines(), "\n"))
}

// AskValuePrompt asks the agent to request the replacement value for a
// field the client wants to change.
func AskValuePrompt(p *models.ClientProfile, field models.FieldKey) string {
	return fmt.Sprintf("%s\n\nThe client wants to change %s but has not said the new value. Ask what it should be. Do not append a fields JSON object.",
		systemPrompt, field)
}

func renderHistory(p *models.ClientProfile) string {
	lines := make([]string, 0, len(p.ConversationHistory))
	for _, msg := range p.ConversationHistory {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}
