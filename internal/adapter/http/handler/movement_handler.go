package handler

import (
	"context"
	"net/http"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/usecase"
)

// PostingService defines the behavior needed by MovementHandler.
type PostingService interface {
	Classify(ctx context.Context, m domain.Movement) (*usecase.Preview, error)
	ClassifyAndPost(ctx context.Context, input usecase.ClassifyAndPostInput) (*usecase.PostedMovement, error)
	ClassifyAndPostBatch(ctx context.Context, inputs []usecase.ClassifyAndPostInput) ([]*usecase.PostedMovement, error)
}

// MovementHandler handles classification of settled movements.
type MovementHandler struct {
	postingUC PostingService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(postingUC PostingService) *MovementHandler {
	return &MovementHandler{postingUC: postingUC}
}

// Classify previews the classification of a movement without posting.
func (h *MovementHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	m, err := req.ToMovement()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	preview, err := h.postingUC.Classify(r.Context(), m)
	if err != nil {
		writeDomainError(w, "failed to classify movement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewFromUseCase(preview))
}

// ClassifyAndPost classifies a movement and posts the resulting entry.
func (h *MovementHandler) ClassifyAndPost(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(operatorID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	posted, err := h.postingUC.ClassifyAndPost(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to post movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostedMovementFromUseCase(posted))
}

// Batch classifies and posts several movements atomically.
func (h *MovementHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inputs, err := req.ToUseCaseInput(operatorID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	posted, err := h.postingUC.ClassifyAndPostBatch(r.Context(), inputs)
	if err != nil {
		writeDomainError(w, "failed to post movements", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementBatchResponse{
		Posted: dto.PostedMovementsFromUseCase(posted),
		Total:  len(posted),
	})
}
