package features

// AQ10 is the short behavioral questionnaire used as the default question set.
var AQ10 = &Schema{
	Name:    "aq10",
	Version: 1,
	Questions: [NumResponses]Question{
		{"Q1", "I often notice small sounds when others do not"},
		{"Q2", "I usually concentrate more on the whole picture, rather than small details"},
		{"Q3", "I find it easy to do more than one thing at once"},
		{"Q4", "If there is an interruption, I can switch back to what I was doing very quickly"},
		{"Q5", "I find it easy to 'read between the lines' when someone is talking"},
		{"Q6", "I know how to tell if someone listening to me is getting bored"},
		{"Q7", "When I'm reading a story I find it difficult to work out the characters' intentions"},
		{"Q8", "I like to collect information about categories of things"},
		{"Q9", "I find it easy to work out what someone is thinking or feeling just by looking at their face"},
		{"Q10", "I find it difficult to work out people's intentions"},
	},
	AgeName:      "Age",
	GenderName:   "Gender",
	AgeMin:       3,
	AgeMax:       59,
	PositiveRate: 0.3,
	Positive:     [NumResponses]float64{0.7, 0.3, 0.3, 0.3, 0.2, 0.2, 0.8, 0.8, 0.2, 0.8},
	Negative:     [NumResponses]float64{0.3, 0.7, 0.7, 0.7, 0.8, 0.8, 0.2, 0.3, 0.8, 0.2},
}

// Behavioral phrases each item as an observed trait rather than a self-report.
var Behavioral = &Schema{
	Name:    "behavioral",
	Version: 1,
	Questions: [NumResponses]Question{
		{"sensory_sensitivity", "High sensory sensitivity"},
		{"detail_focus", "Strong detail focus"},
		{"multitasking", "Difficulty multitasking"},
		{"task_switching", "Difficulty switching tasks"},
		{"social_communication", "Social communication challenges"},
		{"social_awareness", "Social awareness difficulties"},
		{"theory_of_mind", "Theory of mind challenges"},
		{"special_interests", "Strong special interests"},
		{"facial_recognition", "Facial recognition difficulties"},
		{"social_intentions", "Social intention difficulties"},
	},
	AgeName:      "age",
	GenderName:   "gender",
	AgeMin:       3,
	AgeMax:       59,
	PositiveRate: 0.3,
	Positive:     [NumResponses]float64{0.8, 0.4, 0.2, 0.2, 0.1, 0.1, 0.9, 0.9, 0.1, 0.9},
	Negative:     [NumResponses]float64{0.2, 0.6, 0.8, 0.8, 0.9, 0.9, 0.1, 0.3, 0.9, 0.1},
}
