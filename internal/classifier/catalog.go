package classifier

// Entry binds an intent to its trigger phrases, most specific first.
type Entry struct {
	Intent   Intent
	Triggers []string
}

// Catalog is ordered: when several intents overlap the input, the earlier
// entry wins. Escalation phrases are matched as raw substrings and force the
// generative path.
type Catalog struct {
	Entries    []Entry
	Escalation []string
}

// DefaultCatalog returns the facility catalog. The returned value is a fresh
// copy each call.
func DefaultCatalog() Catalog {
	return Catalog{
		Entries: []Entry{
			{IntentMembership, []string{"membership", "member", "plan", "subscription", "price", "cost", "fee", "package", "join"}},
			{IntentTrainer, []string{"trainer", "coach", "personal training", "pt", "instructor"}},
			{IntentTiming, []string{"time", "timing", "hours", "open", "close", "schedule", "when"}},
			{IntentFacilities, []string{"facility", "facilities", "equipment", "amenity", "amenities", "machine", "locker", "shower", "sauna"}},
			{IntentClasses, []string{"class", "classes", "group", "session", "workout", "yoga", "zumba"}},
			{IntentContact, []string{"contact", "phone", "email", "address", "location", "reach"}},
			{IntentGreeting, []string{"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "howdy"}},
			{IntentThanks, []string{"thanks", "thank", "appreciate", "grateful"}},
		},
		Escalation: []string{
			// identity
			"name", "who are you", "who made you", "who created you",
			// negotiation
			"discount", "promo", "coupon", "special offer", "deal on",
			// advice
			"recommend", "suggest", "which plan should", "best plan for me",
		},
	}
}
