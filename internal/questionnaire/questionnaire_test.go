package questionnaire

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screening/internal/config"
	"screening/internal/features"
	"screening/internal/predict"
)

type fakeDriver struct {
	confirms []bool
	input    string
	choice   int
	err      error

	asked []string
	info  []string
}

func (f *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	f.asked = append(f.asked, cfg.Message)
	if cfg.Validator != nil {
		if err := cfg.Validator(f.input); err != nil {
			return "", err
		}
	}
	return f.input, nil
}

func (f *fakeDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	f.asked = append(f.asked, cfg.Message)
	if f.err != nil {
		return false, f.err
	}
	i := len(f.asked) - 1
	return i < len(f.confirms) && f.confirms[i], nil
}

func (f *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	f.asked = append(f.asked, cfg.Message)
	return f.choice, nil
}

func (f *fakeDriver) Info(_ context.Context, msg string) error {
	f.info = append(f.info, msg)
	return nil
}

func TestRunCollectsAnswersInOrder(t *testing.T) {
	d := &fakeDriver{
		confirms: []bool{true, false, false, false, false, false, true, true, false, true},
		input:    " 34 ",
		choice:   1,
	}
	got, err := Run(context.Background(), features.AQ10, d)
	require.NoError(t, err)

	want := features.Answers{Responses: [features.NumResponses]int{1, 0, 0, 0, 0, 0, 1, 1, 0, 1}, Age: 34, Gender: 1}
	assert.Equal(t, want, got)
	require.Len(t, d.asked, features.NumResponses+2)
	assert.True(t, strings.HasPrefix(d.asked[0], "1/10"))
	assert.Contains(t, d.asked[0], features.AQ10.Questions[0].Text)
	assert.Equal(t, "Age", d.asked[10])
	assert.Equal(t, "Gender", d.asked[11])
}

func TestRunRejectsBadAge(t *testing.T) {
	for _, in := range []string{"abc", "-1", "400", ""} {
		d := &fakeDriver{input: in}
		_, err := Run(context.Background(), features.AQ10, d)
		assert.Error(t, err, "input %q", in)
	}
}

func TestRunPropagatesAbort(t *testing.T) {
	d := &fakeDriver{err: ErrAborted}
	_, err := Run(context.Background(), features.Behavioral, d)
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestRunRejectsUnknownGender(t *testing.T) {
	d := &fakeDriver{input: "20", choice: -1}
	_, err := Run(context.Background(), features.AQ10, d)
	assert.Error(t, err)
}

func TestPresent(t *testing.T) {
	d := &fakeDriver{}
	c := config.Default().Copy
	p := predict.Prediction{Label: 1, Confidence: 0.82, Likelihood: c.Likelihood.Higher, Risk: "high"}
	require.NoError(t, Present(context.Background(), d, c, p))
	require.Len(t, d.info, 1)
	assert.Contains(t, d.info[0], c.Likelihood.Higher)
	assert.Contains(t, d.info[0], "82.0%")
	assert.Contains(t, d.info[0], c.Disclaimer)
}
