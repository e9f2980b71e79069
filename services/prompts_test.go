package services

import (
	"strings"
	"testing"

	"github.com/samosa1610/murfAI/models"
)

func janeCharacter() *models.Character {
	return &models.Character{ID: "jane", Name: "Jane Doe", Role: "Tech Lead"}
}

func technicalType() *models.InterviewType {
	return &models.InterviewType{ID: "technical", Name: "Technical"}
}

func TestBuildGreeting(t *testing.T) {
	greeting := BuildGreeting(janeCharacter(), technicalType())

	want := "Hello! I'm Jane Doe, your Tech Lead. Today we'll be conducting a technical interview. Feel free to start by introducing yourself."
	if greeting != want {
		t.Errorf("BuildGreeting() = %q, want %q", greeting, want)
	}
}

func TestBuildGreetingLowercasesTypeName(t *testing.T) {
	caseStudy := &models.InterviewType{ID: "case-study", Name: "Case Study"}
	greeting := BuildGreeting(janeCharacter(), caseStudy)

	if !strings.Contains(greeting, "case study interview") {
		t.Errorf("greeting should lowercase the type name, got %q", greeting)
	}
}

func TestBuildFollowUpPrompt(t *testing.T) {
	transcript := "I led the migration to a microservices architecture."
	prompt := BuildFollowUpPrompt(janeCharacter(), technicalType(), 2, 5, transcript)

	checks := []string{
		"Jane Doe",
		"Tech Lead",
		"technical interview",
		transcript,
		"2 of 5",
		"follow-up question",
	}
	for _, want := range checks {
		if !strings.Contains(prompt, want) {
			t.Errorf("follow-up prompt missing %q", want)
		}
	}
}

func TestBuildFollowUpPromptQuotesTranscript(t *testing.T) {
	// A transcript with quotes must not break the prompt structure
	transcript := `I said "it depends" and explained why.`
	prompt := BuildFollowUpPrompt(janeCharacter(), technicalType(), 1, 5, transcript)

	if !strings.Contains(prompt, "it depends") {
		t.Errorf("prompt should carry the transcript verbatim, got %q", prompt)
	}
}
