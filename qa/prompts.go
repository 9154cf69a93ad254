package qa

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Prompt file names read by LoadPrompts.
const (
	CoursePromptFile     = "chatbot_system_prompt.txt"
	ClassifierPromptFile = "classifier_system_prompt.txt"
	NonCoursePromptFile  = "non_course_system_prompt.txt"
)

// Prompts holds the system prompts used by an Assistant.
type Prompts struct {
	// Course answers questions from retrieved course information.
	Course string

	// Classifier must reply with exactly YES or NO.
	Classifier string

	// NonCourse answers questions unrelated to courses.
	NonCourse string
}

const defaultCoursePrompt = `You are a helpful Rutgers University course assistant.
Your primary goal is to identify the specific course or courses the user is asking about and give concise, relevant information about them.

Pay attention to the conversation history. When the user asks a follow-up such as "what about the prerequisites?" or refers to "it" or "that class", answer about the most recently discussed course. If it is unclear which course is meant, ask for clarification.

Always start with the course code and title:
    Course Code: [Code] - Title: [Title]

Then answer only what was asked, for example meeting times per section, prerequisites, instructors, description, credits or core requirements, using bullet points for lists.

Use only the provided "Relevant Course Information". If the answer is not there, say so.
Be concise. Do not use quotes, backticks or code blocks.`

const defaultClassifierPrompt = `You decide whether a question is about university courses or academics, including course content, prerequisites, schedules, instructors, credits, majors, transfer credit and registration.
Reply with exactly one word: YES if it is, NO if it is not.`

const defaultNonCoursePrompt = `You are the Rutgers University course finder assistant.
The user asked something that is not about courses. Answer briefly and politely, and remind them that you can help find Rutgers courses, prerequisites, instructors and transfer equivalencies.`

// DefaultPrompts returns the built-in prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		Course:     defaultCoursePrompt,
		Classifier: defaultClassifierPrompt,
		NonCourse:  defaultNonCoursePrompt,
	}
}

// LoadPrompts reads prompt overrides from dir. Missing or empty files keep
// the built-in prompt.
func LoadPrompts(dir string) (Prompts, error) {
	prompts := DefaultPrompts()

	files := []struct {
		name   string
		target *string
	}{
		{CoursePromptFile, &prompts.Course},
		{ClassifierPromptFile, &prompts.Classifier},
		{NonCoursePromptFile, &prompts.NonCourse},
	}

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Prompts{}, fmt.Errorf("read prompt %s: %w", f.name, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			*f.target = text
		}
	}
	return prompts, nil
}
