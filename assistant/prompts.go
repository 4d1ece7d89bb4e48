package assistant

import "fmt"

const suggestionPrompt = `Given the following task description, suggest 3-5 structured todo items.

Description: %s

For each suggestion, provide:
- title (concise, action-oriented)
- description (brief explanation)
- priority (low/medium/high/urgent)

Respond in JSON format:
{
  "suggestions": [
    {"title": "...", "description": "...", "priority": "..."}
  ]
}`

const prioritizationPrompt = `Analyze and prioritize these todo items based on due dates, current priorities, and content importance.

Todos: %s

Provide:
- Ranked list of todos
- Recommended priority adjustment if needed
- Brief reasoning for ranking

Respond in JSON format:
{
  "ranked_todos": [
    {"todo_id": 1, "title": "...", "recommended_priority": "...", "reasoning": "..."}
  ]
}`

const breakdownPrompt = `Break down the following complex task into manageable subtasks with dependencies.

Task: %s

Provide:
- Subtasks in logical order
- Dependencies between subtasks (indices of dependent subtasks)
- Estimated execution order

Respond in JSON format:
{
  "subtasks": [
    {"title": "...", "estimated_order": 1, "dependencies": []}
  ]
}`

func buildSuggestionPrompt(description string) string {
	return fmt.Sprintf(suggestionPrompt, description)
}

func buildPrioritizationPrompt(todosJSON string) string {
	return fmt.Sprintf(prioritizationPrompt, todosJSON)
}

func buildBreakdownPrompt(task string) string {
	return fmt.Sprintf(breakdownPrompt, task)
}
