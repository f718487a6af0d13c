// Package release holds the static catalog of the seven-step RELEASE
// methodology the whole product is built around. The catalog is fixed at
// compile time; there is no admin surface for editing steps.
package release

// StepCount is the number of steps in the methodology.
const StepCount = 7

type Step struct {
	Number      int      `json:"number"`
	Letter      string   `json:"letter"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
}

var steps = [StepCount]Step{
	{
		Number:      1,
		Letter:      "R",
		Title:       "Recognize",
		Description: "Name the hurt honestly and acknowledge its real impact on your life.",
		Exercises: []string{
			"Write down what happened in plain words, without judging your reaction.",
			"List the feelings that surface when you recall the event.",
		},
	},
	{
		Number:      2,
		Letter:      "E",
		Title:       "Empathize",
		Description: "Look at the person who hurt you as a whole human being, without excusing what they did.",
		Exercises: []string{
			"Describe the situation from the other person's point of view.",
			"Note one pressure or wound that may have shaped their behavior.",
		},
	},
	{
		Number:      3,
		Letter:      "L",
		Title:       "Let Go",
		Description: "Loosen the grip of resentment. Letting go is releasing your hold on the pain, not approving of the harm.",
		Exercises: []string{
			"Write an unsent letter saying everything you need to say.",
			"Practice the release breath: name the resentment on the exhale.",
		},
	},
	{
		Number:      4,
		Letter:      "E",
		Title:       "Embrace",
		Description: "Embrace forgiveness as a deliberate choice you make for yourself.",
		Exercises: []string{
			"Write your own definition of forgiveness in one sentence.",
			"List what staying resentful has cost you this year.",
		},
	},
	{
		Number:      5,
		Letter:      "A",
		Title:       "Accept",
		Description: "Accept what cannot be changed and decide what the experience will mean going forward.",
		Exercises: []string{
			"Separate what you can still influence from what is done.",
			"Write one lesson you choose to carry out of the experience.",
		},
	},
	{
		Number:      6,
		Letter:      "S",
		Title:       "Sustain",
		Description: "Sustain the decision when the old feelings return, as they will.",
		Exercises: []string{
			"Prepare a short phrase to repeat when resentment resurfaces.",
			"Schedule a weekly check-in with your journal.",
		},
	},
	{
		Number:      7,
		Letter:      "E",
		Title:       "Evolve",
		Description: "Grow beyond the hurt. Let the journey change how you meet the next one.",
		Exercises: []string{
			"Write a letter to yourself at the start of this journey.",
			"Choose one way to support someone walking the same road.",
		},
	},
}

// All returns the full catalog in step order.
func All() []Step {
	out := make([]Step, StepCount)
	copy(out, steps[:])
	return out
}

// ByNumber returns the step for n in [1,7], or false when out of range.
func ByNumber(n int) (Step, bool) {
	if n < 1 || n > StepCount {
		return Step{}, false
	}
	return steps[n-1], true
}

// ValidStep reports whether n names an existing step.
func ValidStep(n int) bool {
	return n >= 1 && n <= StepCount
}
