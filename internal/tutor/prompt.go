package tutor

import (
	"fmt"
	"strings"
)

const tutorSystemPrompt = `You are an AI tutor helping students learn artificial intelligence and machine learning.
Explain concepts clearly, use practical examples, and keep the tone encouraging.
Use plain text with simple markdown (headings, bullet lists). No LaTeX.`

const quizSystemPrompt = `You are an AI tutor writing multiple-choice quiz questions for students.

Rules:
- Each question has exactly 4 options.
- Exactly one option is correct. correct_answer is its letter: A, B, C or D.
- Distractors should be plausible misconceptions, not jokes.
- The explanation says briefly why the correct answer is right.
- Questions must be answerable from general knowledge of the topic.`

// Subject is the topic a request is about.
type Subject struct {
	Title       string
	Description string
}

func buildQueryMessage(prompt string, subject *Subject) string {
	var b strings.Builder
	if subject != nil {
		fmt.Fprintf(&b, "Topic: %s\n", subject.Title)
		if subject.Description != "" {
			fmt.Fprintf(&b, "Topic description: %s\n", subject.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("Explain this clearly for students: ")
	b.WriteString(prompt)
	b.WriteString("\n\nProvide:\n- Clear explanation\n- Practical examples\n- Key concepts")
	return b.String()
}

func buildExplainMessage(s Subject) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain the topic %q", s.Title)
	if s.Description != "" {
		fmt.Fprintf(&b, " (%s)", s.Description)
	}
	b.WriteString(" to a student who is new to it.\n\nCover:\n")
	b.WriteString("1. Definition and overview\n")
	b.WriteString("2. Key concepts\n")
	b.WriteString("3. How it works\n")
	b.WriteString("4. Real-world applications\n")
	b.WriteString("5. Benefits and limitations")
	return b.String()
}

func buildQuizMessage(s Subject, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", s.Title)
	if s.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", s.Description)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", n)
	return b.String()
}
