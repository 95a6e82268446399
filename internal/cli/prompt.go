package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

// prompter collects bouquet details interactively. It is an interface so
// compose can be exercised without a terminal.
type prompter interface {
	Theme(ctx context.Context, current string) (string, error)
	Flowers(ctx context.Context, options []flowers.Flower) ([]string, error)
	Letter(ctx context.Context, current string) (string, error)
	Sender(ctx context.Context, current string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Theme(ctx context.Context, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := pickTheme(themes.All(), current)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errAborted
	}
	return id, nil
}

func (surveyPrompter) Flowers(ctx context.Context, options []flowers.Flower) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := make([]string, len(options))
	for i, f := range options {
		labels[i] = fmt.Sprintf("%s (%s)", f.Name, f.Group)
	}
	var picked []int
	prompt := &survey.MultiSelect{
		Message:  "Pick flowers:",
		Options:  labels,
		Help:     "Each pick adds one flower; run compose again with --flower to add duplicates.",
		PageSize: 14,
	}
	if err := survey.AskOne(prompt, &picked, survey.WithValidator(survey.MaxItems(bouquet.MaxElements))); err != nil {
		return nil, translateSurveyErr(err)
	}
	ids := make([]string, len(picked))
	for i, idx := range picked {
		ids[i] = options[idx].ID
	}
	return ids, nil
}

func (surveyPrompter) Letter(ctx context.Context, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{
		Message: fmt.Sprintf("Letter (max %d characters):", bouquet.MaxLetterLength),
		Default: current,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.MaxLength(bouquet.MaxLetterLength))); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Sender(ctx context.Context, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: "From:",
		Default: current,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.MaxLength(bouquet.MaxSenderLength))); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
