// Package bank is the static fallback question corpus. It is the
// guaranteed-availability floor: Pick never fails, unknown topics
// resolve to the default topic's list.
package bank

import (
	"fmt"
	"math/rand"

	"github.com/hkdse-prep/backend/internal/models"
)

// DefaultTopic receives requests for topics not present in the corpus.
const DefaultTopic = "HKDSE 代數"

var corpus = map[string][]models.Question{
	"HKDSE 代數": {
		{
			Question:   "解 $x^2-5x+6=0$",
			Options:    map[string]string{"A": "x=1,6", "B": "x=2,3", "C": "x=1,2", "D": "x=5,6"},
			Answer:     "B",
			LatexSteps: "$$(x-2)(x-3)=0$$",
		},
		{
			Question:   "若 $3x+2=11$，則 $x$?",
			Options:    map[string]string{"A": "x=1", "B": "x=3", "C": "x=2", "D": "x=4"},
			Answer:     "B",
			LatexSteps: "$$3x=9$$$$x=3$$",
		},
		{
			Question:   "$2(x+3)=10$，則 $x$?",
			Options:    map[string]string{"A": "x=2", "B": "x=1", "C": "x=4", "D": "x=3"},
			Answer:     "A",
			LatexSteps: "$$x+3=5$$$$x=2$$",
		},
		{
			Question:   "簡化 $\\frac{2x+4}{x+2}$?",
			Options:    map[string]string{"A": "2", "B": "x+2", "C": "x", "D": "2x"},
			Answer:     "A",
			LatexSteps: "$$\\frac{2(x+2)}{x+2}=2$$",
		},
		{
			Question:   "$x^2-4=0$ 的正根?",
			Options:    map[string]string{"A": "2", "B": "-2", "C": "4", "D": "0"},
			Answer:     "A",
			LatexSteps: "$$(x-2)(x+2)=0$$$$x=2,-2$$",
		},
		{
			Question:   "三角形內角和?",
			Options:    map[string]string{"A": "360°", "B": "180°", "C": "90°", "D": "270°"},
			Answer:     "B",
			LatexSteps: "$$∠A+∠B+∠C=180°$$",
		},
	},
	"HKDSE 幾何": {
		{
			Question:   "圓周率近似值?",
			Options:    map[string]string{"A": "3.14", "B": "22/7", "C": "3.1416", "D": "π"},
			Answer:     "C",
			LatexSteps: "$$π≈3.1416$$",
		},
		{
			Question:   "等腰三角形底角?",
			Options:    map[string]string{"A": "60°", "B": "90°", "C": "45°", "D": "72°"},
			Answer:     "D",
			LatexSteps: "$$2x+72°=180°$$$$x=54°$$",
		},
	},
}

var optionKeys = []string{"A", "B", "C", "D"}

// Pick returns a uniformly random question for the topic. Topics not in
// the corpus resolve to DefaultTopic. This path has no failure mode.
func Pick(topic string) models.Question {
	entries, ok := corpus[topic]
	if !ok {
		topic = DefaultTopic
		entries = corpus[topic]
	}
	q := entries[rand.Intn(len(entries))]
	q.Topic = topic
	return q
}

// Size reports the number of entries for a topic, after default-topic
// resolution.
func Size(topic string) int {
	if entries, ok := corpus[topic]; ok {
		return len(entries)
	}
	return len(corpus[DefaultTopic])
}

// Validate checks the corpus at startup and returns an error on the
// first structural or balance violation, so main can fail fast instead
// of serving a broken or positionally biased bank.
func Validate() error {
	if _, ok := corpus[DefaultTopic]; !ok {
		return fmt.Errorf("default topic %q missing from corpus", DefaultTopic)
	}
	for topic, entries := range corpus {
		if len(entries) == 0 {
			return fmt.Errorf("topic %q has no entries", topic)
		}
		if err := validateEntries(topic, entries); err != nil {
			return err
		}
	}
	return nil
}

func validateEntries(topic string, entries []models.Question) error {
	answerCounts := make(map[string]int)

	for i, q := range entries {
		if len(q.Options) != len(optionKeys) {
			return fmt.Errorf("topic %q entry %d: expected %d options, got %d", topic, i+1, len(optionKeys), len(q.Options))
		}
		for _, key := range optionKeys {
			if _, ok := q.Options[key]; !ok {
				return fmt.Errorf("topic %q entry %d: missing option %q", topic, i+1, key)
			}
		}
		if _, ok := q.Options[q.Answer]; !ok {
			return fmt.Errorf("topic %q entry %d: answer %q not among options", topic, i+1, q.Answer)
		}
		if q.Question == "" {
			return fmt.Errorf("topic %q entry %d: empty question text", topic, i+1)
		}
		answerCounts[q.Answer]++
	}

	// Reject a list where one answer letter dominates, so a test-taker
	// cannot exploit positional bias.
	limit := (len(entries) + 1) / 2
	for letter, count := range answerCounts {
		if count > limit {
			return fmt.Errorf("topic %q: answer %q appears %d times in %d entries (limit %d)", topic, letter, count, len(entries), limit)
		}
	}

	return nil
}
