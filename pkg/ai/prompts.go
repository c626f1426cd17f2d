package ai

import (
	"fmt"
	"strings"
)

// TemplatePrompt renders the prompt that asks a provider to draft a correction
// template from a teacher's assignment instructions.
func TemplatePrompt(instructions string, maxScore int) string {
	b := strings.Builder{}
	b.WriteString("You are an AI assistant helping a teacher create a grading template for an assignment.\n\n")
	fmt.Fprintf(&b, "Below are the assignment instructions written by the teacher. The assignment has a maximum score of %d gold coins.\n\n", maxScore)
	b.WriteString("Your task is to create a detailed correction template that will be used to evaluate student submissions. The template should:\n\n")
	b.WriteString("1. Identify the key requirements and criteria from the assignment instructions\n")
	b.WriteString("2. Establish clear grading rubrics for each section\n")
	b.WriteString("3. Specify how points (gold coins) should be allocated for meeting each requirement\n")
	b.WriteString("4. Include specific evaluation questions that should be asked when grading\n\n")
	b.WriteString("The correction template should be designed to help another AI evaluate student submissions consistently and fairly.\n\n")
	b.WriteString("ASSIGNMENT INSTRUCTIONS:\n")
	b.WriteString(instructions)
	b.WriteString("\n\nPlease create a detailed correction template that will enable consistent and fair grading of student submissions.")
	return b.String()
}

// GradingPrompt renders the rubric-backed grading prompt used when an approved
// correction template is available.
func GradingPrompt(instructions, correctionTemplate, submission string, maxScore int) string {
	b := strings.Builder{}
	b.WriteString("You are an AI assistant helping grade a student's assignment submission.\n\n")
	b.WriteString("Below are:\n")
	b.WriteString("1. The assignment instructions written by the teacher\n")
	b.WriteString("2. A correction template with grading criteria\n")
	b.WriteString("3. The student's submission\n\n")
	b.WriteString("Your task is to evaluate the student's submission according to the correction template.\n\n")
	b.WriteString("ASSIGNMENT INSTRUCTIONS:\n")
	b.WriteString(instructions)
	b.WriteString("\n\nCORRECTION TEMPLATE:\n")
	b.WriteString(correctionTemplate)
	b.WriteString("\n\nSTUDENT SUBMISSION:\n")
	b.WriteString(submission)
	fmt.Fprintf(&b, "\n\nBased on the correction template, please evaluate the student's submission and provide a final score as an integer value out of %d.\n\n", maxScore)
	b.WriteString("The output should only contain the numeric score (as an integer) without any additional text. For example: 8")
	return b.String()
}

// SimpleGradingPrompt renders the direct grading prompt used when no correction
// template has been approved for the assignment.
func SimpleGradingPrompt(instructions, submission string, maxScore int) string {
	b := strings.Builder{}
	b.WriteString("You are an AI assistant helping grade a student's assignment submission.\n\n")
	b.WriteString("Below are:\n")
	b.WriteString("1. The assignment instructions written by the teacher\n")
	b.WriteString("2. The student's submission\n\n")
	fmt.Fprintf(&b, "The assignment has a maximum score of %d gold coins.\n\n", maxScore)
	b.WriteString("ASSIGNMENT INSTRUCTIONS:\n")
	b.WriteString(instructions)
	b.WriteString("\n\nSTUDENT SUBMISSION:\n")
	b.WriteString(submission)
	b.WriteString("\n\nPlease evaluate the student's submission according to the assignment instructions. Allocate points (gold coins) based on how well the student has met the requirements.\n\n")
	b.WriteString("The output should only contain the numeric score (as an integer) without any additional text. For example: 8")
	return b.String()
}
