package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// RenderBubble draws a text item of the thread. User messages hug the right
// edge, system messages the left. Cards are rendered separately by CardModel.
func RenderBubble(item model.DialogItem, theme themes.Theme, width int) string {
	bubbleWidth := max(width*3/4, 20)

	if item.Type == model.MessageUser {
		text := theme.UserBubble.MaxWidth(bubbleWidth).Render(wrap(item.Text, bubbleWidth-2))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, text)
	}

	style := theme.SystemBubble
	if item.ShowGoToAction {
		style = theme.ErrorBubble
	}
	lines := []string{style.MaxWidth(bubbleWidth).Render(wrap(item.Text, bubbleWidth-4))}

	if item.ShowGoToAction {
		lines = append(lines, theme.Suggestion.Render("Start a new conversation (ctrl+r)"))
	}
	if item.Deeplink != "" {
		lines = append(lines, theme.Subtitle.Render("↗ "+item.Deeplink))
	}
	if len(item.RecommendQuestions) > 0 {
		if item.QuestionTitle != "" {
			lines = append(lines, theme.Subtitle.Render(item.QuestionTitle))
		}
		for _, q := range item.RecommendQuestions {
			lines = append(lines, theme.Suggestion.Render("• "+q.QuestionContent))
		}
	}
	if item.WithFeedback {
		hint := "Not helpful? ctrl+f"
		if len(item.FeedbackOptions) > 0 {
			opts := make([]string, 0, len(item.FeedbackOptions))
			for i, o := range item.FeedbackOptions {
				opts = append(opts, fmt.Sprintf("%d %s", i+1, o.OptionContent))
			}
			hint = "Why? " + strings.Join(opts, " / ") + " (alt+number)"
		}
		lines = append(lines, theme.Page.Render(hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// wrap breaks text on spaces so that no line exceeds width cells.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
