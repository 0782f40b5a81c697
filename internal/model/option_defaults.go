package model

type OptionsAction string

const (
	OptionsKeep    OptionsAction = "keep"
	OptionsReplace OptionsAction = "replace"
	OptionsClear   OptionsAction = "clear"
)

// OptionsPatch describes what happens to a question's options when its type changes.
type OptionsPatch struct {
	Action  OptionsAction    `json:"action"`
	Options []QuestionOption `json:"options,omitempty"`
}

// Apply returns the option list after the patch.
func (p OptionsPatch) Apply(current []QuestionOption) []QuestionOption {
	switch p.Action {
	case OptionsReplace:
		return p.Options
	case OptionsClear:
		return []QuestionOption{}
	default:
		return current
	}
}

var emojiRatingLabels = []string{"Muito Ruim", "Ruim", "Regular", "Bom", "Excelente"}

// DefaultOptions returns the suggested options for a type, or nil when the
// type has none.
func DefaultOptions(t QuestionType) []QuestionOption {
	switch t {
	case QuestionTypeEmojiRating:
		opts := make([]QuestionOption, 0, len(emojiRatingLabels))
		for i, label := range emojiRatingLabels {
			opts = append(opts, QuestionOption{OptionText: label, OptionValue: i + 1, OrderIndex: i + 1})
		}
		return opts
	case QuestionTypeBoolean:
		return []QuestionOption{
			{OptionText: "Sim", OptionValue: 1, OrderIndex: 1},
			{OptionText: "Não", OptionValue: 0, OrderIndex: 2},
		}
	}
	return nil
}

// OnQuestionTypeChanged decides the option list for a question moving to
// newType. Defaults are only suggested when there are no options yet, so
// options a user already edited survive the change.
func OnQuestionTypeChanged(current []QuestionOption, newType QuestionType) OptionsPatch {
	switch newType {
	case QuestionTypeText:
		return OptionsPatch{Action: OptionsClear}
	case QuestionTypeEmojiRating, QuestionTypeBoolean:
		if len(current) == 0 {
			return OptionsPatch{Action: OptionsReplace, Options: DefaultOptions(newType)}
		}
	}
	return OptionsPatch{Action: OptionsKeep}
}
