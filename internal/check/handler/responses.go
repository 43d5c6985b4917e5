package handler

import (
	"time"

	"vetflow/internal/check"
	"vetflow/internal/sla"
)

type resultResponse struct {
	Type           string     `json:"type"`
	Classification string     `json:"classification"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type checkResponse struct {
	ID              string           `json:"id"`
	CandidateID     string           `json:"candidateId"`
	CandidateName   string           `json:"candidateName"`
	Status          string           `json:"status"`
	StatusEnteredAt time.Time        `json:"statusEnteredAt"`
	RequiredTypes   []string         `json:"requiredTypes"`
	Results         []resultResponse `json:"results"`
	ConsentGiven    bool             `json:"consentGiven"`
	ConsentDate     *time.Time       `json:"consentDate,omitempty"`
	InitiatedDate   time.Time        `json:"initiatedDate"`
	InitiatedBy     string           `json:"initiatedBy"`
	CompletedDate   *time.Time       `json:"completedDate,omitempty"`
	OverallVerdict  string           `json:"overallVerdict,omitempty"`
	ReviewerID      string           `json:"reviewerId,omitempty"`
	ReviewerNotes   string           `json:"reviewerNotes,omitempty"`
}

func toCheckResponse(c check.Check) checkResponse {
	out := checkResponse{
		ID:              c.ID.String(),
		CandidateID:     c.CandidateID.String(),
		CandidateName:   c.CandidateName,
		Status:          string(c.Status),
		StatusEnteredAt: c.StatusEnteredAt,
		ConsentGiven:    c.ConsentGiven,
		ConsentDate:     c.ConsentDate,
		InitiatedDate:   c.InitiatedDate,
		InitiatedBy:     c.InitiatedBy.String(),
		CompletedDate:   c.CompletedDate,
		ReviewerNotes:   c.ReviewerNotes,
	}
	for _, t := range c.RequiredTypes {
		out.RequiredTypes = append(out.RequiredTypes, string(t))
	}
	for _, r := range c.Results {
		out.Results = append(out.Results, resultResponse{
			Type:           string(r.Type),
			Classification: string(r.Classification),
			CompletedAt:    r.CompletedAt,
			Notes:          r.Notes,
		})
	}
	if c.OverallVerdict != nil {
		out.OverallVerdict = string(*c.OverallVerdict)
	}
	if c.ReviewerID != nil {
		out.ReviewerID = c.ReviewerID.String()
	}
	return out
}

type slaResponse struct {
	CheckID         string     `json:"checkId"`
	DaysElapsed     int        `json:"daysElapsed"`
	TargetDate      time.Time  `json:"targetDate"`
	DaysRemaining   int        `json:"daysRemaining"`
	PercentComplete int        `json:"percentComplete"`
	SLAStatus       string     `json:"slaStatus"`
	Breached        bool       `json:"breached"`
	BreachedDate    *time.Time `json:"breachedDate,omitempty"`
}

func toSLAResponse(st sla.Status) slaResponse {
	return slaResponse{
		CheckID:         st.CheckID.String(),
		DaysElapsed:     st.DaysElapsed,
		TargetDate:      st.TargetDate,
		DaysRemaining:   st.DaysRemaining,
		PercentComplete: st.PercentComplete,
		SLAStatus:       string(st.Classification),
		Breached:        st.Breached,
		BreachedDate:    st.BreachedDate,
	}
}

type historyResponse struct {
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ChangedBy      string    `json:"changedBy"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Automated      bool      `json:"automated"`
}
