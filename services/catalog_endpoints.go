package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samosa1610/murfAI/repository"
)

// CatalogEndpoints serves the interviewer characters and interview types the
// frontend shows on the setup screen.
type CatalogEndpoints struct {
	repo *repository.GORMRepository
}

func NewCatalogEndpoints(repo *repository.GORMRepository) *CatalogEndpoints {
	return &CatalogEndpoints{repo: repo}
}

func (e *CatalogEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/characters", e.GetCharactersHandler)
	r.Get("/characters/{id}", e.GetCharacterHandler)
	r.Get("/interview-types", e.GetInterviewTypesHandler)
}

func (e *CatalogEndpoints) GetCharactersHandler(w http.ResponseWriter, r *http.Request) {
	characters, err := e.repo.GetCharacters(r.Context())
	if err != nil {
		slog.Error("Failed to get characters", "error", err)
		http.Error(w, "Failed to get characters", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"characters": characters,
		"count":      len(characters),
	})
}

func (e *CatalogEndpoints) GetCharacterHandler(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "id")
	if characterID == "" {
		http.Error(w, "Character ID is required", http.StatusBadRequest)
		return
	}

	character, err := e.repo.GetCharacter(r.Context(), characterID)
	if err != nil {
		slog.Error("Failed to get character", "error", err, "character_id", characterID)
		http.Error(w, "Failed to get character", http.StatusInternalServerError)
		return
	}
	if character == nil {
		http.Error(w, "Character not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"character": character,
	})
}

func (e *CatalogEndpoints) GetInterviewTypesHandler(w http.ResponseWriter, r *http.Request) {
	interviewTypes, err := e.repo.GetInterviewTypes(r.Context())
	if err != nil {
		slog.Error("Failed to get interview types", "error", err)
		http.Error(w, "Failed to get interview types", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interview_types": interviewTypes,
		"count":           len(interviewTypes),
	})
}
