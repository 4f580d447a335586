package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// MovementRequest represents a settled movement to classify.
type MovementRequest struct {
	Direction         string     `json:"direction"`
	Description       string     `json:"description"`
	Amount            string     `json:"amount"`
	FallbackAccountID string     `json:"fallback_account_id,omitempty"`
	Date              Date       `json:"date"`
	CostCenterID      *string    `json:"cost_center_id,omitempty"`
	Origin            *OriginDTO `json:"origin,omitempty"`
}

func (r *MovementRequest) amount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, errors.New("invalid amount format")
	}
	return amount, nil
}

// ToMovement converts to the classifier input.
func (r *MovementRequest) ToMovement() (domain.Movement, error) {
	amount, err := r.amount()
	if err != nil {
		return domain.Movement{}, err
	}
	return domain.Movement{
		Direction:         domain.Direction(r.Direction),
		Description:       r.Description,
		Amount:            amount,
		FallbackAccountID: r.FallbackAccountID,
	}, nil
}

// ToUseCaseInput converts to use case input.
func (r *MovementRequest) ToUseCaseInput(createdBy string) (usecase.ClassifyAndPostInput, error) {
	amount, err := r.amount()
	if err != nil {
		return usecase.ClassifyAndPostInput{}, err
	}
	if r.Date.IsZero() {
		return usecase.ClassifyAndPostInput{}, errors.New("date is required")
	}
	return usecase.ClassifyAndPostInput{
		Direction:         domain.Direction(r.Direction),
		Description:       r.Description,
		Amount:            amount,
		FallbackAccountID: r.FallbackAccountID,
		Date:              r.Date.Time,
		CostCenterID:      r.CostCenterID,
		Origin:            r.Origin.toDomain(),
		CreatedBy:         createdBy,
	}, nil
}

// MovementBatchRequest classifies and posts several movements atomically.
type MovementBatchRequest struct {
	Movements []MovementRequest `json:"movements"`
}

// ToUseCaseInput converts every movement, stopping at the first malformed one.
func (r *MovementBatchRequest) ToUseCaseInput(createdBy string) ([]usecase.ClassifyAndPostInput, error) {
	inputs := make([]usecase.ClassifyAndPostInput, len(r.Movements))
	for i := range r.Movements {
		in, err := r.Movements[i].ToUseCaseInput(createdBy)
		if err != nil {
			return nil, err
		}
		inputs[i] = in
	}
	return inputs, nil
}

// ClassificationResponse is a classifier proposal.
type ClassificationResponse struct {
	DebitAccountID   string `json:"debit_account_id"`
	CreditAccountID  string `json:"credit_account_id"`
	AppliedAccountID string `json:"applied_account_id"`
	CounterAccountID string `json:"counter_account_id"`
	Source           string `json:"source"`
	MatchedTerm      string `json:"matched_term,omitempty"`
	Confidence       int    `json:"confidence"`
	Rationale        string `json:"rationale"`
}

// ClassificationFromDomain converts a domain classification to response.
func ClassificationFromDomain(c *domain.Classification) *ClassificationResponse {
	return &ClassificationResponse{
		DebitAccountID:   c.DebitAccountID,
		CreditAccountID:  c.CreditAccountID,
		AppliedAccountID: c.AppliedAccountID,
		CounterAccountID: c.CounterAccountID,
		Source:           string(c.Source),
		MatchedTerm:      c.MatchedTerm,
		Confidence:       c.Confidence,
		Rationale:        c.Rationale,
	}
}

// PreviewResponse is a dry-run classification.
type PreviewResponse struct {
	Classification *ClassificationResponse `json:"classification"`
	Status         string                  `json:"status"`
}

// PreviewFromUseCase converts a use case preview to response.
func PreviewFromUseCase(p *usecase.Preview) *PreviewResponse {
	return &PreviewResponse{
		Classification: ClassificationFromDomain(p.Classification),
		Status:         string(p.Status),
	}
}

// PostedMovementResponse is a posted entry with the classification behind it.
type PostedMovementResponse struct {
	Entry          *EntryResponse          `json:"entry"`
	Classification *ClassificationResponse `json:"classification"`
}

// PostedMovementFromUseCase converts a posted movement to response.
func PostedMovementFromUseCase(p *usecase.PostedMovement) *PostedMovementResponse {
	return &PostedMovementResponse{
		Entry:          EntryFromDomain(p.Entry),
		Classification: ClassificationFromDomain(p.Classification),
	}
}

// PostedMovementsFromUseCase converts a posted batch to responses.
func PostedMovementsFromUseCase(posted []*usecase.PostedMovement) []*PostedMovementResponse {
	result := make([]*PostedMovementResponse, len(posted))
	for i, p := range posted {
		result[i] = PostedMovementFromUseCase(p)
	}
	return result
}

// MovementBatchResponse is the outcome of a movement batch.
type MovementBatchResponse struct {
	Posted []*PostedMovementResponse `json:"posted"`
	Total  int                       `json:"total"`
}
