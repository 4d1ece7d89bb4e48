package assistant

import (
	"fmt"
	"sort"

	"github.com/hatcher/todoai/models"
)

func fallbackSuggestions() SuggestionResponse {
	return SuggestionResponse{Suggestions: []Suggestion{
		{Title: "Review your task description", Description: "Break down what you need to accomplish", Priority: models.PriorityHigh},
		{Title: "Set clear goals", Description: "Define specific, measurable objectives", Priority: models.PriorityMedium},
		{Title: "Create an action plan", Description: "Outline steps needed to complete the task", Priority: models.PriorityMedium},
	}}
}

// fallbackPrioritization ranks by priority, then by due date with undated
// todos last. Ties keep their input order.
func fallbackPrioritization(todos []TodoSummary) PrioritizationResponse {
	sorted := make([]TodoSummary, len(todos))
	copy(sorted, todos)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})

	ranked := make([]RankedTodo, 0, len(sorted))
	for _, t := range sorted {
		ranked = append(ranked, RankedTodo{
			TodoID:              t.ID,
			Title:               t.Title,
			RecommendedPriority: t.Priority,
			Reasoning:           fmt.Sprintf("Based on priority (%s) and due date", t.Priority),
		})
	}
	return PrioritizationResponse{RankedTodos: ranked}
}

func fallbackBreakdown() BreakdownResponse {
	return BreakdownResponse{Subtasks: []Subtask{
		{Title: "Define requirements", EstimatedOrder: 1, Dependencies: []int{}},
		{Title: "Plan implementation", EstimatedOrder: 2, Dependencies: []int{0}},
		{Title: "Execute the plan", EstimatedOrder: 3, Dependencies: []int{1}},
	}}
}
