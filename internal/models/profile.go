package models

import (
	"time"
)

type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

type InvestmentGoal string

const (
	GoalRetirement          InvestmentGoal = "retirement"
	GoalWealthBuilding      InvestmentGoal = "wealth_building"
	GoalIncomeGeneration    InvestmentGoal = "income_generation"
	GoalCapitalPreservation InvestmentGoal = "capital_preservation"
)

// ProfileStatus tracks where a client record is in the intake flow.
type ProfileStatus string

const (
	StatusCollecting ProfileStatus = "collecting"
	StatusReviewing  ProfileStatus = "reviewing"
	StatusConfirmed  ProfileStatus = "confirmed"
	StatusComplete   ProfileStatus = "complete"
	StatusEditing    ProfileStatus = "editing"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ClientProfile is the versioned intake record for one session.
// Attribute fields are pointers: nil means "not collected yet".
type ClientProfile struct {
	ClientID            string          `json:"client_id"`
	Age                 *int            `json:"age"`
	InvestmentHorizon   *int            `json:"investment_horizon"`
	RiskTolerance       *RiskTolerance  `json:"risk_tolerance"`
	InvestmentGoal      *InvestmentGoal `json:"investment_goal"`
	AnnualIncome        *float64        `json:"annual_income"`
	ExistingInvestments *float64        `json:"existing_investments"`
	Status              ProfileStatus   `json:"status"`
	Version             int             `json:"version"`
	LastReportHandle    string          `json:"last_report_handle,omitempty"`
	ConversationHistory []ChatMessage   `json:"conversation_history"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func NewClientProfile(clientID string) *ClientProfile {
	now := time.Now().UTC()
	return &ClientProfile{
		ClientID:  clientID,
		Status:    StatusCollecting,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *ClientProfile) AppendMessage(role, content string) {
	p.ConversationHistory = append(p.ConversationHistory, ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// Touch refreshes the mutation timestamp.
func (p *ClientProfile) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

// IsComplete reports whether all six intake attributes have been collected.
func (p *ClientProfile) IsComplete() bool {
	return p.Age != nil &&
		p.InvestmentHorizon != nil &&
		p.RiskTolerance != nil &&
		p.InvestmentGoal != nil &&
		p.AnnualIncome != nil &&
		p.ExistingInvestments != nil
}

// MissingFields returns the still-unset field keys in declaration order.
func (p *ClientProfile) MissingFields() []FieldKey {
	var missing []FieldKey
	for _, key := range FieldOrder {
		if !p.has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

func (p *ClientProfile) has(key FieldKey) bool {
	switch key {
	case FieldAge:
		return p.Age != nil
	case FieldInvestmentHorizon:
		return p.InvestmentHorizon != nil
	case FieldRiskTolerance:
		return p.RiskTolerance != nil
	case FieldInvestmentGoal:
		return p.InvestmentGoal != nil
	case FieldAnnualIncome:
		return p.AnnualIncome != nil
	case FieldExistingInvestments:
		return p.ExistingInvestments != nil
	}
	return false
}

// Allocation is the recommended portfolio split, in whole percentages.
type Allocation struct {
	Stocks       int `json:"stocks"`
	Bonds        int `json:"bonds"`
	Cash         int `json:"cash"`
	Alternatives int `json:"alternatives"`
}

// RiskAssessment is derived on confirmation; it is not stored beyond the
// generated report artifact.
type RiskAssessment struct {
	RiskScore    int           `json:"risk_score"`
	RiskCategory RiskTolerance `json:"risk_category"`
	Allocation   Allocation    `json:"allocation"`
	Insights     []string      `json:"insights"`
	NextSteps    []string      `json:"next_steps"`
}
