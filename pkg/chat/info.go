package chat

import (
	"fmt"
	"strings"
	"time"
)

type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type OpeningHours struct {
	Days  string `json:"days"`
	Hours string `json:"hours"`
}

// InfoPanel is the static fitness centre information shown next to the chat.
type InfoPanel struct {
	QuickLinks  []Link         `json:"quick_links"`
	Hours       []OpeningHours `json:"hours"`
	CurrentTime string         `json:"current_time"`
}

func NewInfoPanel(now time.Time) InfoPanel {
	return InfoPanel{
		QuickLinks: []Link{
			{Title: "Popular Workouts"},
			{Title: "Dietary Guidelines"},
			{Title: "Consult a Trainer"},
		},
		Hours: []OpeningHours{
			{Days: "Monday-Friday", Hours: "6:00 AM - 10:00 PM"},
			{Days: "Saturday-Sunday", Hours: "7:00 AM - 8:00 PM"},
		},
		CurrentTime: now.Format("03:04 PM"),
	}
}

func (p InfoPanel) Markdown() string {
	var sb strings.Builder
	sb.WriteString("### Quick Links\n\n")
	for _, l := range p.QuickLinks {
		fmt.Fprintf(&sb, "- [%s](%s)\n", l.Title, l.URL)
	}
	sb.WriteString("\n### Fitness Center Hours\n\n")
	for _, h := range p.Hours {
		fmt.Fprintf(&sb, "- %s: %s\n", h.Days, h.Hours)
	}
	fmt.Fprintf(&sb, "\nCurrent Time: %s\n", p.CurrentTime)
	return sb.String()
}

const Disclaimer = "This is an AI assistant for general fitness information only. " +
	"For personalized fitness plans or medical advice, consult a professional."

func Header(provider string) string {
	return fmt.Sprintf("# 🏃 AI Fitness Assistant\n\nPowered by %s\n", provider)
}
