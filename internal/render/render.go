// Package render formats rule answers from facility data.
package render

import (
	"fmt"
	"strings"

	"github.com/themobileprof/fitzone-bot/internal/classifier"
	"github.com/themobileprof/fitzone-bot/internal/facility"
)

const (
	// HelpText is the answer for anything the rules cannot handle.
	HelpText = "I'm not sure I understand. You can ask me about:\n" +
		"• Membership plans\n" +
		"• Personal trainers\n" +
		"• Gym timings\n" +
		"• Facilities & equipment\n" +
		"• Classes\n" +
		"• Contact information"

	ThanksText = "You're welcome! 😊 Feel free to ask anything else about our gym. Stay fit! 💪"

	TrainersUnavailableText = "Currently, personal trainers are not available."

	listSeparator = ", "
)

// Render returns the templated answer for intent. It is deterministic, never
// panics, and treats a nil data record as one with every field empty.
func Render(intent classifier.Intent, data *facility.Data) string {
	if data == nil {
		data = &facility.Data{}
	}

	switch intent {
	case classifier.IntentGreeting:
		return greeting(data)
	case classifier.IntentMembership:
		return membership(data.Membership)
	case classifier.IntentTrainer:
		return trainers(data.Trainers)
	case classifier.IntentTiming:
		return timings(data.Timings)
	case classifier.IntentFacilities:
		return facilities(data.Facilities)
	case classifier.IntentClasses:
		return classes(data.Facilities)
	case classifier.IntentContact:
		return contact(data.Contact)
	case classifier.IntentThanks:
		return ThanksText
	default:
		return HelpText
	}
}

func greeting(data *facility.Data) string {
	return fmt.Sprintf("Hello! 👋 Welcome to %s! How can I help you today? "+
		"You can ask me about memberships, trainers, timings, facilities, or classes.", data.Name())
}

func membership(m facility.Membership) string {
	var b strings.Builder
	b.WriteString("💪 **Membership Plans:**\n\n")
	for _, plan := range m.Types {
		fmt.Fprintf(&b, "**%s** - %s/%s\n", plan.Name, plan.Price, plan.Duration)
		fmt.Fprintf(&b, "Includes: %s\n\n", join(plan.Features))
	}
	return b.String()
}

func trainers(t facility.Trainers) string {
	if !t.Available {
		return TrainersUnavailableText
	}

	var b strings.Builder
	b.WriteString("🏋️ **Personal Trainers Available!**\n\n")
	fmt.Fprintf(&b, "%s\n\n", t.Description)
	fmt.Fprintf(&b, "**Specializations:** %s\n", join(t.Specializations))
	fmt.Fprintf(&b, "**Pricing:** %s\n", t.Pricing)
	fmt.Fprintf(&b, "**Booking:** %s", t.Booking)
	return b.String()
}

func timings(t facility.Timings) string {
	return "🕒 **Gym Timings:**\n\n" +
		"**Weekdays:** " + t.Weekdays + "\n" +
		"**Weekends:** " + t.Weekends + "\n" +
		"**Holidays:** " + t.Holidays
}

func facilities(f facility.Facilities) string {
	return "🏢 **Our Facilities:**\n\n" +
		"**Equipment:** " + join(f.Equipment) + "\n\n" +
		"**Amenities:** " + join(f.Amenities)
}

func classes(f facility.Facilities) string {
	return "🎯 **Available Classes:**\n\n" +
		join(f.Classes) +
		"\n\nAll classes are included in your membership!"
}

func contact(c facility.Contact) string {
	return "📞 **Contact Us:**\n\n" +
		"**Phone:** " + c.Phone + "\n" +
		"**Email:** " + c.Email + "\n" +
		"**Address:** " + c.Address
}

func join(items []string) string {
	return strings.Join(items, listSeparator)
}
