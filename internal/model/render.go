package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// RenderedAnswer is the display form of a stored answer. Warning is set when
// the stored value does not have the shape its question type expects; in
// that case Display holds the raw value untouched.
type RenderedAnswer struct {
	Display string      `json:"display"`
	Value   interface{} `json:"value"`
	Warning string      `json:"warning,omitempty"`
}

// RenderAnswer maps a raw answer to its display value for questionType.
// options, when known, translate choice answers to their labels.
func RenderAnswer(questionType QuestionType, raw []byte, options []QuestionOption) RenderedAnswer {
	v, err := decodeAnswer(raw)
	if err != nil {
		return RenderedAnswer{Display: string(raw), Warning: "answer is not valid JSON"}
	}
	if v == nil {
		return RenderedAnswer{Warning: "answer is empty"}
	}

	switch questionType {
	case QuestionTypeEmojiRating:
		n, ok := ratingValue(v)
		if !ok {
			return RenderedAnswer{Display: rawText(v), Warning: fmt.Sprintf("expected a rating between %d and %d", RatingMin, RatingMax)}
		}
		return RenderedAnswer{Display: fmt.Sprintf("%d/%d", n, RatingMax), Value: n}
	case QuestionTypeBoolean:
		b, ok := boolValue(v)
		if !ok {
			return RenderedAnswer{Display: rawText(v), Warning: "expected a yes/no answer"}
		}
		label := "Não"
		if b {
			label = "Sim"
		}
		return RenderedAnswer{Display: label, Value: b}
	case QuestionTypeMultipleChoice:
		s, ok := choiceValue(v)
		if !ok {
			return RenderedAnswer{Display: rawText(v), Warning: "expected a selected option"}
		}
		return RenderedAnswer{Display: choiceLabel(s, options), Value: s}
	case QuestionTypeText:
		s, ok := v.(string)
		if !ok {
			return RenderedAnswer{Display: rawText(v), Warning: "expected a text answer"}
		}
		return RenderedAnswer{Display: s, Value: s}
	}
	return RenderedAnswer{Display: rawText(v), Warning: fmt.Sprintf("unknown question type %q", questionType)}
}

// ValidateAnswer rejects values RenderAnswer would flag.
func ValidateAnswer(questionType QuestionType, raw []byte, options []QuestionOption) error {
	r := RenderAnswer(questionType, raw, options)
	if r.Warning != "" {
		return fmt.Errorf("%s", r.Warning)
	}
	if questionType == QuestionTypeMultipleChoice && len(options) > 0 {
		if _, ok := matchOption(r.Value.(string), options); !ok {
			return fmt.Errorf("answer %q is not one of the question options", r.Value)
		}
	}
	return nil
}

func decodeAnswer(raw []byte) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after answer")
	}
	return v, nil
}

func ratingValue(v interface{}) (int, bool) {
	var num json.Number
	switch t := v.(type) {
	case json.Number:
		num = t
	case string:
		num = json.Number(strings.TrimSpace(t))
	default:
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		n = int64(f)
	}
	if n < RatingMin || n > RatingMax {
		return 0, false
	}
	return int(n), true
}

func boolValue(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "sim", "yes", "1":
			return true, true
		case "false", "não", "nao", "no", "0":
			return false, true
		}
	}
	return false, false
}

func choiceValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

func matchOption(s string, options []QuestionOption) (QuestionOption, bool) {
	for _, o := range options {
		if o.ID == s || o.OptionText == s || fmt.Sprint(o.OptionValue) == s {
			return o, true
		}
	}
	return QuestionOption{}, false
}

func choiceLabel(s string, options []QuestionOption) string {
	if o, ok := matchOption(s, options); ok {
		return o.OptionText
	}
	return s
}

func rawText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
