package dto

import (
	"agenda-api/domain/models"
)

// FriendSummary is the lightweight rendering of one friend reference.
type FriendSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PersonaResponse is the externally visible persona: its record fields plus
// the friend set expanded to summaries, in store order.
type PersonaResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Friends []FriendSummary `json:"friends"`
}

// CreatePersonaRequest is the POST /personas payload. Friends must be
// present but may be empty, so it is checked as non-nil rather than with a
// required tag (validator rejects empty slices).
type CreatePersonaRequest struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required"`
	Phone   string   `json:"phone" validate:"required"`
	Friends []string `json:"friends"`
}

// UpdatePersonaRequest is the PUT /persona payload. Email selects the
// persona and is never modified.
type UpdatePersonaRequest struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required"`
	Phone   string   `json:"phone" validate:"required"`
	Friends []string `json:"friends"`
}

// DeletePersonaRequest is the DELETE /persona payload.
type DeletePersonaRequest struct {
	Email string `json:"email"`
}

// MutationResponse wraps a successful create or update.
type MutationResponse struct {
	Message string           `json:"message"`
	Persona *PersonaResponse `json:"persona"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// PersonaToResponse maps a stored persona and its resolved friends to the
// external representation.
func PersonaToResponse(persona *models.Persona, friends []FriendSummary) *PersonaResponse {
	if persona == nil {
		return nil
	}
	if friends == nil {
		friends = []FriendSummary{}
	}
	return &PersonaResponse{
		ID:      persona.ID.String(),
		Name:    persona.Name,
		Email:   persona.Email,
		Phone:   persona.Phone,
		Friends: friends,
	}
}

// PersonasToFriendSummaries maps stored personas to friend summaries,
// preserving store order.
func PersonasToFriendSummaries(personas []models.Persona) []FriendSummary {
	summaries := make([]FriendSummary, len(personas))
	for i, p := range personas {
		summaries[i] = FriendSummary{
			ID:    p.ID.String(),
			Name:  p.Name,
			Email: p.Email,
			Phone: p.Phone,
		}
	}
	return summaries
}
