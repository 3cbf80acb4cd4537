package llm

import (
	"fmt"
	"strings"
)

const classifySystemPrompt = "You are an expense categorization expert. Respond with exactly one category name and nothing else."

const rankSystemPrompt = "You are an expense categorization expert. Respond only in the exact line format requested."

// regionalHints steers the model on merchant names it may not know.
var regionalHints = []string{
	"Swiggy, Zomato, restaurants, cafes = Food",
	"Raw ingredients, fruits, vegetables, supermarkets = Grocery",
	"Ola, Uber, Rapido, BMTC, metro = Transport",
	"Netflix, BookMyShow, Hotstar = Entertainment",
	"Amazon, Flipkart, Myntra = Shopping",
}

// buildClassifyPrompt asks for exactly one label from labels.
func buildClassifyPrompt(note string, labels []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Expense note: %q\n", note)
	fmt.Fprintf(&sb, "Available categories: %s\n\n", strings.Join(labels, ", "))
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Choose ONLY from the available categories.\n")
	sb.WriteString("2. Consider Indian merchant names and context:\n")
	for _, hint := range regionalHints {
		fmt.Fprintf(&sb, "   - %s\n", hint)
	}
	sb.WriteString("3. If unclear, prefer \"Other\" when it is available.\n")
	sb.WriteString("4. Respond with just the category name, nothing else.\n\n")
	sb.WriteString("Category:")

	return sb.String()
}

// buildRankPrompt asks for up to three "name:score" lines over labels.
func buildRankPrompt(note string, labels []string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this expense note and suggest the top 3 most likely categories with confidence scores.\n\n")
	fmt.Fprintf(&sb, "Expense note: %q\n\n", note)
	fmt.Fprintf(&sb, "Available categories: %s\n\n", strings.Join(labels, ", "))
	sb.WriteString("Consider Indian context and category distinctions:\n")
	for _, hint := range regionalHints {
		fmt.Fprintf(&sb, "- %s\n", hint)
	}
	sb.WriteString("\nRespond in this exact format, one category per line, confidence from 0 to 100:\n")
	sb.WriteString("Category1:Confidence1\nCategory2:Confidence2\nCategory3:Confidence3\n\n")
	sb.WriteString("Example:\nGrocery:85\nFood:10\nOther:5")

	return sb.String()
}
