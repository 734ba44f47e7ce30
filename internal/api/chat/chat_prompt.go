package chat

import (
	"fmt"
	"strings"
)

const greeting = "Hello! I am the vegan nutrition assistant. Ask me anything about plant-based eating and I will do my best to help."

const promptTemplate = `You are a friendly and knowledgeable vegan nutrition expert answering user questions. Your goal is to explain nutrition information simply and to give detailed, accurate and practical advice.

Here is relevant information extracted from documents:

%s

The conversation so far:
%s

Based on the information and conversation above, write an in-depth, analytical answer to the question below as a nutrition expert. Where possible, add concrete examples and relevant background knowledge.

Question: %s

Friendly and analytical answer:`

func renderPrompt(results []SearchResult, history, question string) string {
	contexts := make([]string, 0, len(results))
	for _, r := range results {
		contexts = append(contexts, r.Chunk.Content)
	}
	return fmt.Sprintf(promptTemplate, strings.Join(contexts, "\n\n"), history, question)
}
