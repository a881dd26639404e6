// Package prompt builds the context sent to the generative fallback.
package prompt

import (
	"fmt"
	"strings"

	"github.com/themobileprof/fitzone-bot/internal/facility"
	"github.com/themobileprof/fitzone-bot/pkg/llm"
)

// AssistantName is how the fallback introduces itself.
const AssistantName = "FitZone Assistant"

// Builder constructs prompts for the generative fallback
type Builder struct {
	system string
}

// NewBuilder renders the system prompt once; data is not retained.
func NewBuilder(data *facility.Data) *Builder {
	return &Builder{system: BuildSystemPrompt(data)}
}

// SystemPrompt returns the prebuilt system prompt.
func (b *Builder) SystemPrompt() string {
	return b.system
}

// BuildMessages pairs the system prompt with a single user turn.
func (b *Builder) BuildMessages(userMessage string) []llm.ChatMessage {
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: b.system},
		{Role: llm.RoleUser, Content: userMessage},
	}
}

// BuildSystemPrompt lays out the assistant's rules followed by every field of
// the facility record. Missing values fall back to a neutral placeholder.
func BuildSystemPrompt(data *facility.Data) string {
	if data == nil {
		data = &facility.Data{}
	}

	var sb strings.Builder
	contact := data.Contact

	fmt.Fprintf(&sb, "You are %s, a friendly and helpful AI chatbot for %s.\n\n", AssistantName, data.Name())

	sb.WriteString("YOUR IDENTITY:\n")
	fmt.Fprintf(&sb, "- Your name is %q\n", AssistantName)
	fmt.Fprintf(&sb, "- You are an AI assistant specifically for %s\n", data.Name())
	sb.WriteString("- You help users with gym-related questions\n\n")

	sb.WriteString("PERSONALITY:\n")
	sb.WriteString("- Be friendly, professional, and encouraging\n")
	sb.WriteString("- Use emojis moderately (1-2 per response)\n")
	sb.WriteString("- Keep responses concise but helpful\n\n")

	sb.WriteString("IMPORTANT RULES:\n")
	fmt.Fprintf(&sb, "1. ONLY answer questions related to %s\n", data.Name())
	fmt.Fprintf(&sb, "2. If asked about discounts or offers: say we regularly have special offers and to contact us at %s or email %s to learn about current promotions.\n",
		or(contact.Phone, "our front desk"), or(contact.Email, "us"))
	fmt.Fprintf(&sb, "3. If asked your name: say \"I'm %s, your AI helper for all things fitness at %s!\"\n", AssistantName, data.Name())
	sb.WriteString("4. If asked who made or created you: say you were created to help members and visitors with their questions.\n")
	sb.WriteString("5. For off-topic questions: politely redirect to gym topics\n")
	sb.WriteString("6. For plan recommendations: ask about the user's goals, then suggest from the plans listed below\n")
	sb.WriteString("7. NEVER make up information not provided below\n\n")

	sb.WriteString("=== GYM INFORMATION ===\n\n")

	sb.WriteString("MEMBERSHIP PLANS:\n")
	if len(data.Membership.Types) == 0 {
		sb.WriteString("• Contact us for current plans\n")
	}
	for _, plan := range data.Membership.Types {
		fmt.Fprintf(&sb, "• %s: %s/%s\n", plan.Name, plan.Price, plan.Duration)
		fmt.Fprintf(&sb, "  Features: %s\n", strings.Join(plan.Features, ", "))
	}

	trainers := data.Trainers
	sb.WriteString("\nPERSONAL TRAINERS:\n")
	if trainers.Available {
		fmt.Fprintf(&sb, "• Availability: %s\n", or(trainers.Description, "Available"))
	} else {
		sb.WriteString("• Availability: Not currently available\n")
	}
	fmt.Fprintf(&sb, "• Specializations: %s\n", strings.Join(trainers.Specializations, ", "))
	fmt.Fprintf(&sb, "• Pricing: %s\n", or(trainers.Pricing, "Contact us"))
	fmt.Fprintf(&sb, "• Booking: %s\n", or(trainers.Booking, "Contact front desk"))

	timings := data.Timings
	sb.WriteString("\nGYM TIMINGS:\n")
	fmt.Fprintf(&sb, "• Weekdays: %s\n", or(timings.Weekdays, "Contact us"))
	fmt.Fprintf(&sb, "• Weekends: %s\n", or(timings.Weekends, "Contact us"))
	fmt.Fprintf(&sb, "• Holidays: %s\n", or(timings.Holidays, "Contact us"))

	facilities := data.Facilities
	sb.WriteString("\nFACILITIES:\n")
	fmt.Fprintf(&sb, "• Equipment: %s\n", strings.Join(facilities.Equipment, ", "))
	fmt.Fprintf(&sb, "• Amenities: %s\n", strings.Join(facilities.Amenities, ", "))

	sb.WriteString("\nCLASSES OFFERED:\n")
	fmt.Fprintf(&sb, "%s\n", strings.Join(facilities.Classes, ", "))
	sb.WriteString("(All classes are included in membership!)\n")

	sb.WriteString("\nCONTACT INFORMATION:\n")
	fmt.Fprintf(&sb, "• Phone: %s\n", or(contact.Phone, "N/A"))
	fmt.Fprintf(&sb, "• Email: %s\n", or(contact.Email, "N/A"))
	fmt.Fprintf(&sb, "• Address: %s\n", or(contact.Address, "N/A"))

	sb.WriteString("\n=== END OF GYM INFORMATION ===\n\n")
	sb.WriteString("Remember: Be helpful, accurate, and always encourage fitness!")

	return sb.String()
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
