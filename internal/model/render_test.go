package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderAnswer(t *testing.T) {
	choices := []QuestionOption{
		{ID: "opt-1", OptionText: "Muito cheiroso", OptionValue: 1},
		{ID: "opt-2", OptionText: "Sem cheiro", OptionValue: 2},
	}

	cases := []struct {
		name    string
		typ     QuestionType
		raw     string
		display string
		warns   bool
	}{
		{"RatingNumber", QuestionTypeEmojiRating, `4`, "4/5", false},
		{"RatingNumericString", QuestionTypeEmojiRating, `"5"`, "5/5", false},
		{"RatingIntegralFloat", QuestionTypeEmojiRating, `3.0`, "3/5", false},
		{"RatingOutOfRange", QuestionTypeEmojiRating, `7`, "7", true},
		{"RatingFraction", QuestionTypeEmojiRating, `2.5`, "2.5", true},
		{"RatingNotNumeric", QuestionTypeEmojiRating, `"ótimo"`, "ótimo", true},
		{"BooleanTrue", QuestionTypeBoolean, `true`, "Sim", false},
		{"BooleanFalse", QuestionTypeBoolean, `false`, "Não", false},
		{"BooleanZero", QuestionTypeBoolean, `0`, "Não", false},
		{"BooleanGarbage", QuestionTypeBoolean, `"talvez"`, "talvez", true},
		{"ChoiceByLabel", QuestionTypeMultipleChoice, `"Sem cheiro"`, "Sem cheiro", false},
		{"ChoiceByID", QuestionTypeMultipleChoice, `"opt-1"`, "Muito cheiroso", false},
		{"ChoiceUnknownLabel", QuestionTypeMultipleChoice, `"Outro"`, "Outro", false},
		{"ChoiceObject", QuestionTypeMultipleChoice, `{"a":1}`, `{"a":1}`, true},
		{"Text", QuestionTypeText, `"Chegou amassado"`, "Chegou amassado", false},
		{"TextNumber", QuestionTypeText, `12`, "12", true},
		{"Empty", QuestionTypeText, ``, "", true},
		{"Null", QuestionTypeBoolean, `null`, "", true},
		{"BrokenJSON", QuestionTypeText, `{`, "{", true},
		{"TrailingData", QuestionTypeEmojiRating, `4 junk`, "4 junk", true},
		{"TwoValues", QuestionTypeBoolean, `true false`, "true false", true},
		{"TrailingSpace", QuestionTypeEmojiRating, "4 \n", "4/5", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderAnswer(tc.typ, []byte(tc.raw), choices)
			assert.Equal(t, tc.display, got.Display)
			if tc.warns {
				assert.NotEmpty(t, got.Warning)
			} else {
				assert.Empty(t, got.Warning)
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	choices := []QuestionOption{{ID: "opt-1", OptionText: "Azul", OptionValue: 1}}

	assert.NoError(t, ValidateAnswer(QuestionTypeEmojiRating, []byte(`5`), nil))
	assert.Error(t, ValidateAnswer(QuestionTypeEmojiRating, []byte(`0`), nil))
	assert.NoError(t, ValidateAnswer(QuestionTypeMultipleChoice, []byte(`"Azul"`), choices))
	assert.Error(t, ValidateAnswer(QuestionTypeMultipleChoice, []byte(`"Verde"`), choices))
	assert.NoError(t, ValidateAnswer(QuestionTypeText, []byte(`"ok"`), nil))
	assert.Error(t, ValidateAnswer(QuestionTypeEmojiRating, []byte(`4 junk`), nil))
}
