package prompt

import (
	"strings"
	"testing"

	"github.com/themobileprof/fitzone-bot/internal/facility"
	"github.com/themobileprof/fitzone-bot/pkg/llm"
)

func testData() *facility.Data {
	return &facility.Data{
		GymInfo: facility.GymInfo{Name: "Iron Temple"},
		Membership: facility.Membership{Types: []facility.Plan{
			{Name: "Basic", Price: "$29", Duration: "month", Features: []string{"Gym access", "Locker"}},
		}},
		Trainers: facility.Trainers{Available: true, Description: "Certified coaches", Specializations: []string{"Yoga"}},
		Timings:  facility.Timings{Weekdays: "6-22", Weekends: "8-20", Holidays: "Closed"},
		Facilities: facility.Facilities{
			Equipment: []string{"Treadmill", "Rower"},
			Amenities: []string{"Sauna"},
			Classes:   []string{"Zumba", "Spin"},
		},
		Contact: facility.Contact{Phone: "555-0100", Email: "hi@gym.test", Address: "1 Main St"},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(testData())

	expected := []string{
		"You are FitZone Assistant",
		"chatbot for Iron Temple",
		"contact us at 555-0100 or email hi@gym.test",
		"• Basic: $29/month",
		"Features: Gym access, Locker",
		"• Availability: Certified coaches",
		"• Specializations: Yoga",
		"• Pricing: Contact us",
		"• Weekdays: 6-22",
		"• Holidays: Closed",
		"• Equipment: Treadmill, Rower",
		"Zumba, Spin",
		"• Address: 1 Main St",
		"NEVER make up information",
	}
	for _, want := range expected {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildSystemPrompt_EmptyData(t *testing.T) {
	prompt := BuildSystemPrompt(nil)

	for _, want := range []string{
		facility.DefaultGymName,
		"contact us at our front desk or email us",
		"Contact us for current plans",
		"Not currently available",
		"• Phone: N/A",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuilder_BuildMessages(t *testing.T) {
	builder := NewBuilder(testData())

	messages := builder.BuildMessages("Is there a discount?")
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[0].Content != builder.SystemPrompt() {
		t.Errorf("first message should be the system prompt, got %+v", messages[0])
	}
	if messages[1].Role != llm.RoleUser || messages[1].Content != "Is there a discount?" {
		t.Errorf("second message should be the user turn, got %+v", messages[1])
	}
}

func TestBuilder_PromptIsStable(t *testing.T) {
	data := testData()
	builder := NewBuilder(data)

	data.Timings.Weekdays = "changed"
	if strings.Contains(builder.SystemPrompt(), "changed") {
		t.Error("prompt must be fixed at construction")
	}
}
