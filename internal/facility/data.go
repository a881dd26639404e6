package facility

// Data is the structured facility record every answer is rendered from.
// It is loaded once at startup and never mutated afterwards.
type Data struct {
	GymInfo    GymInfo    `json:"gym_info" yaml:"gym_info"`
	Membership Membership `json:"membership" yaml:"membership"`
	Trainers   Trainers   `json:"trainers" yaml:"trainers"`
	Timings    Timings    `json:"timings" yaml:"timings"`
	Facilities Facilities `json:"facilities" yaml:"facilities"`
	Contact    Contact    `json:"contact" yaml:"contact"`
}

type GymInfo struct {
	Name string `json:"name" yaml:"name"`
}

type Membership struct {
	Types []Plan `json:"types" yaml:"types"`
}

// Plan is one membership offering; Features keeps document order.
type Plan struct {
	Name     string   `json:"name" yaml:"name"`
	Price    string   `json:"price" yaml:"price"`
	Duration string   `json:"duration" yaml:"duration"`
	Features []string `json:"features" yaml:"features"`
}

type Trainers struct {
	Available       bool     `json:"available" yaml:"available"`
	Description     string   `json:"info" yaml:"info"`
	Specializations []string `json:"specializations" yaml:"specializations"`
	Pricing         string   `json:"pricing" yaml:"pricing"`
	Booking         string   `json:"booking" yaml:"booking"`
}

type Timings struct {
	Weekdays string `json:"weekdays" yaml:"weekdays"`
	Weekends string `json:"weekends" yaml:"weekends"`
	Holidays string `json:"holidays" yaml:"holidays"`
}

type Facilities struct {
	Equipment []string `json:"equipment" yaml:"equipment"`
	Amenities []string `json:"amenities" yaml:"amenities"`
	Classes   []string `json:"classes" yaml:"classes"`
}

type Contact struct {
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
	Address string `json:"address" yaml:"address"`
}

// DefaultGymName is used wherever the document omits gym_info.name.
const DefaultGymName = "FitZone Fitness Center"

// Name returns the gym's display name, nil-safe.
func (d *Data) Name() string {
	if d == nil || d.GymInfo.Name == "" {
		return DefaultGymName
	}
	return d.GymInfo.Name
}
