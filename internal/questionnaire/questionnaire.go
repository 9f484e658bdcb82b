// Package questionnaire collects screening answers interactively.
package questionnaire

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"screening/internal/config"
	"screening/internal/features"
	"screening/internal/predict"
)

var genderOptions = []string{"Female", "Male"}

// Run asks every question of schema in order, then age and gender.
func Run(ctx context.Context, schema *features.Schema, d PromptDriver) (features.Answers, error) {
	var a features.Answers
	for j, q := range schema.Questions {
		yes, err := d.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%d/%d  %s", j+1, features.NumResponses, q.Text),
			Help:    "Answer yes if the statement describes you most of the time.",
		})
		if err != nil {
			return features.Answers{}, err
		}
		if yes {
			a.Responses[j] = 1
		}
	}

	raw, err := d.Input(ctx, InputConfig{
		Message:   "Age",
		Default:   strconv.Itoa((schema.AgeMin + schema.AgeMax) / 2),
		Help:      fmt.Sprintf("Ages outside %d-%d are scored as the nearest bound.", schema.AgeMin, schema.AgeMax),
		Validator: validateAge,
	})
	if err != nil {
		return features.Answers{}, err
	}
	age, err := parseAge(raw)
	if err != nil {
		return features.Answers{}, err
	}
	a.Age = age

	idx, err := d.Select(ctx, SelectConfig{Message: "Gender", Options: genderOptions})
	if err != nil {
		return features.Answers{}, err
	}
	if idx < 0 || idx >= len(genderOptions) {
		return features.Answers{}, fmt.Errorf("questionnaire: invalid gender choice %d", idx)
	}
	a.Gender = idx
	return a, nil
}

func parseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("age must be a whole number: %w", err)
	}
	if n < 0 || n > 120 {
		return 0, fmt.Errorf("age %d is out of range", n)
	}
	return n, nil
}

func validateAge(s string) error {
	_, err := parseAge(s)
	return err
}

// Present writes the outcome of one screening through the driver.
func Present(ctx context.Context, d PromptDriver, c config.Copy, p predict.Prediction) error {
	lines := []string{
		"",
		c.Title,
		strings.Repeat("-", len(c.Title)),
		p.Likelihood,
		fmt.Sprintf("Confidence: %.1f%%  (risk: %s)", p.Confidence*100, p.Risk),
		"",
		c.Disclaimer,
	}
	return d.Info(ctx, strings.Join(lines, "\n"))
}
