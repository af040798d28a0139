// Package prompts holds the built-in practice texts for reading drills.
package prompts

import (
	"math/rand"
	"strings"
)

// Prompt is one practice text with guidance on how to deliver it.
type Prompt struct {
	ID       string
	Category string
	Text     string
	Tip      string
	Focus    string
}

var catalog = []Prompt{
	// Stress practice.
	{
		ID:       "stress_1",
		Category: "stress",
		Text:     "I NEVER said she STOLE my MONEY. You must have MISUNDERSTOOD what I was TRYING to say. Let me EXPLAIN it again MORE clearly this time.",
		Tip:      "Emphasize the capitalized words. Stressed words carry the main meaning.",
		Focus:    "pitch, volume",
	},
	{
		ID:       "stress_2",
		Category: "stress",
		Text:     "The IMPORTANT thing is to STAY CALM and THINK CLEARLY. When we PANIC, we make BAD decisions. Take a DEEP breath and FOCUS on what MATTERS most.",
		Tip:      "Stress the key content words (nouns, verbs, adjectives). Reduce function words.",
		Focus:    "volume, rhythm",
	},
	{
		ID:       "stress_3",
		Category: "stress",
		Text:     "I THINK we should WAIT until TOMORROW before making any FINAL decisions. There's no RUSH, and we NEED more TIME to CONSIDER all the OPTIONS.",
		Tip:      "Pause after 'I think' and before key decisions. Stress action words.",
		Focus:    "pauses, pitch",
	},

	// Questions and intonation.
	{
		ID:       "intonation_1",
		Category: "intonation",
		Text:     "Are you coming to the meeting tomorrow? I really hope you can make it. We have some important topics to discuss, and your input would be valuable.",
		Tip:      "Rising intonation on the question, then neutral/falling on the statements.",
		Focus:    "pitch",
	},
	{
		ID:       "intonation_2",
		Category: "intonation",
		Text:     "What time does the meeting start? I want to make sure I arrive early. Also, where is it being held? Is it in the main conference room?",
		Tip:      "Falling intonation on WH-questions, rising on yes/no questions.",
		Focus:    "pitch",
	},
	{
		ID:       "intonation_3",
		Category: "intonation",
		Text:     "You finished the project already? That's incredible! How did you manage to do it so fast? I thought it would take at least another week.",
		Tip:      "Rising intonation shows surprise. Falling on WH-questions. Enthusiasm on exclamations.",
		Focus:    "pitch",
	},

	// Professional and meeting scenarios.
	{
		ID:       "pro_1",
		Category: "professional",
		Text:     "Thank you for joining today's meeting. Let me share the agenda with you. First, we'll review last quarter's results. Then, we'll discuss our goals for the upcoming quarter. Finally, I'd like to open the floor for questions and suggestions.",
		Tip:      "Warm tone, pause between agenda items. Use listing intonation (slight rise on each item except the last).",
		Focus:    "tempo, pauses",
	},
	{
		ID:       "pro_2",
		Category: "professional",
		Text:     "I understand your concern, and I appreciate you bringing this up. However, I think we should consider another approach. Let me explain why I believe this alternative could work better for our team and our timeline.",
		Tip:      "Empathetic tone first, then confident. Pause before 'However' and before 'Let me explain'.",
		Focus:    "pitch, pauses",
	},
	{
		ID:       "pro_3",
		Category: "professional",
		Text:     "Based on the data we've collected over the past three months, I recommend we postpone the launch until next quarter. This will give us time to address the issues we've identified and ensure a more successful release.",
		Tip:      "Confident, measured pace. Slow down on key recommendations. Stress 'recommend', 'postpone', 'successful'.",
		Focus:    "tempo, volume",
	},
	{
		ID:       "pro_4",
		Category: "professional",
		Text:     "Could you please clarify what you mean by that? I want to make sure I understand correctly before we move forward. It's important that we're all on the same page regarding the project requirements.",
		Tip:      "Polite, curious tone on questions. Confident on statements. Pause before 'It's important'.",
		Focus:    "pitch, tempo",
	},

	// Rhythm practice: reducing unstressed syllables.
	{
		ID:       "rhythm_1",
		Category: "rhythm",
		Text:     "I want to go to the store to get some milk. Then I need to stop by the bank to deposit a check. After that, I'll probably grab a cup of coffee.",
		Tip:      "Reduce 'to' to 'tuh', 'a' to 'uh'. Stress content words: WANT, GO, STORE, GET, MILK, NEED, STOP, BANK, DEPOSIT, CHECK, GRAB, CUP, COFFEE.",
		Focus:    "rhythm",
	},
	{
		ID:       "rhythm_2",
		Category: "rhythm",
		Text:     "She's going to be late for the meeting because she had to finish the report. He's going to be there early, but he's not going to wait for her.",
		Tip:      "'Going to' becomes 'gonna', 'had to' becomes 'had tuh'. Stress: LATE, MEETING, FINISH, REPORT, EARLY, WAIT.",
		Focus:    "rhythm",
	},
	{
		ID:       "rhythm_3",
		Category: "rhythm",
		Text:     "I could have done it differently if I had known about the problem. You should have told me earlier, and we would have fixed it together.",
		Tip:      "'Could have' → 'coulda', 'should have' → 'shoulda', 'would have' → 'woulda'. Reduce 'if I had' to 'if I'd'.",
		Focus:    "rhythm",
	},

	// Longer passages for sustained practice.
	{
		ID:       "passage_1",
		Category: "passages",
		Text:     "Good morning everyone. Today I'd like to discuss our quarterly results. As you can see from the chart, we've exceeded our targets in three key areas. Let me walk you through each one.",
		Tip:      "Vary your pace: slower on key numbers, faster on transitions. Pause between sentences.",
		Focus:    "tempo, pauses",
	},
	{
		ID:       "passage_2",
		Category: "passages",
		Text:     "I appreciate your feedback on this proposal. While I understand the concerns you've raised, I believe the benefits outweigh the risks. Let me explain why I think this approach will work.",
		Tip:      "Acknowledge tone first, then confident assertion. Strategic pauses before 'While' and 'Let me'.",
		Focus:    "pitch, pauses",
	},
}

// Categories lists the prompt categories in catalog order.
func Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range catalog {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// ByID looks up a prompt by its id.
func ByID(id string) (Prompt, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Prompt{}, false
}

// ByCategory returns the prompts in a category, empty when unknown.
func ByCategory(category string) []Prompt {
	var out []Prompt
	for _, p := range catalog {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// All returns every built-in prompt.
func All() []Prompt {
	out := make([]Prompt, len(catalog))
	copy(out, catalog)
	return out
}

// Random picks a prompt from the category, or from the whole catalog when the
// category is empty or unknown.
func Random(category string) Prompt {
	pool := ByCategory(category)
	if len(pool) == 0 {
		pool = catalog
	}
	return pool[rand.Intn(len(pool))]
}

// Custom wraps free text the user supplies instead of a built-in prompt.
func Custom(text string) Prompt {
	return Prompt{
		ID:       "custom",
		Category: "custom",
		Text:     strings.TrimSpace(text),
		Tip:      "Read naturally with clear stress and intonation.",
		Focus:    "all",
	}
}
