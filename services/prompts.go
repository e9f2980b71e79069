package services

import (
	"fmt"
	"strings"

	"github.com/samosa1610/murfAI/models"
)

// Prompt construction for the three generation calls a session makes: the
// greeting (not sent to the model, spoken verbatim), the per-turn follow-up
// question, and the end-of-session feedback request.

// BuildGreeting returns the fixed greeting that opens a session.
func BuildGreeting(character *models.Character, interviewType *models.InterviewType) string {
	return fmt.Sprintf("Hello! I'm %s, your %s. Today we'll be conducting a %s interview. Feel free to start by introducing yourself.",
		character.Name,
		character.Role,
		strings.ToLower(interviewType.Name),
	)
}

// BuildFollowUpPrompt creates a role-conditioned prompt for the next
// interviewer question, embedding the candidate's verbatim transcript and the
// current position in the session.
func BuildFollowUpPrompt(character *models.Character, interviewType *models.InterviewType, currentQuestion, totalQuestions int, transcript string) string {
	typeName := strings.ToLower(interviewType.Name)

	return fmt.Sprintf(`You are %s, a %s conducting a %s interview.
The candidate just said: %q

Based on this response and the interview context:
- Character: %s (%s)
- Interview Type: %s
- Current Question Number: %d of %d

Generate a relevant follow-up question that:
1. Is specific to the %s interview type
2. Shows expertise in %s role
3. Builds upon the candidate's previous response
4. Helps assess their skills and experience

Keep the question concise and professional.`,
		character.Name,
		character.Role,
		typeName,
		transcript,
		character.Name,
		character.Role,
		interviewType.Name,
		currentQuestion,
		totalQuestions,
		typeName,
		character.Role,
	)
}

// BuildFeedbackPrompt creates the structured end-of-session feedback request.
// The model is instructed to answer with a JSON object; ParseFeedback handles
// the cases where it does not.
func BuildFeedbackPrompt(character *models.Character, totalQuestions int) string {
	return fmt.Sprintf(`As %s, a %s, provide a comprehensive interview feedback based on the candidate's responses.
Include:
1. Overall score (out of 10)
2. Key strengths (3 points)
3. Areas for improvement (3 points)
4. Interview duration
5. Number of questions answered (%d)

Format the response as a JSON object with these fields:
{
  "score": number,
  "strengths": string[],
  "improvements": string[],
  "duration": string,
  "questionsAnswered": number
}

Respond with the JSON object only, no surrounding text.`,
		character.Name,
		character.Role,
		totalQuestions,
	)
}
