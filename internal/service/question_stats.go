package service

import (
	"context"
	"fmt"
	"sort"

	"admin-experimentai/internal/model"
)

// QuestionStats summarizes every answer given to one question.
type QuestionStats struct {
	QuestionID     string             `json:"question_id"`
	QuestionType   model.QuestionType `json:"question_type"`
	TotalAnswers   int                `json:"total_answers"`
	ValidAnswers   int                `json:"valid_answers"`
	FlaggedAnswers int                `json:"flagged_answers"`
	AverageRating  *float64           `json:"average_rating,omitempty"`
	Distribution   []LabelCount       `json:"distribution"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// QuestionStats counts answers per displayed value. Answers whose stored
// value does not fit the question type are counted as flagged only.
func (s *questionService) QuestionStats(ctx context.Context, id string) (*QuestionStats, error) {
	question, err := s.questionRepo.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "question")
	}
	answers, err := s.feedbackRepo.ListAnswersByQuestion(ctx, id)
	if err != nil {
		return nil, storeError(err, "answers")
	}
	return computeQuestionStats(question, answers), nil
}

func computeQuestionStats(question *model.Question, answers []model.FeedbackAnswer) *QuestionStats {
	stats := &QuestionStats{
		QuestionID:   question.ID,
		QuestionType: question.QuestionType,
		TotalAnswers: len(answers),
		Distribution: []LabelCount{},
	}

	counts := map[string]int{}
	// seed option labels so unpicked options show up with zero
	order := map[string]int{}
	for i, o := range question.Options {
		counts[o.OptionText] = 0
		order[o.OptionText] = i
	}

	ratingSum := 0
	for _, a := range answers {
		// answers keep the type they were given under
		rendered := model.RenderAnswer(a.QuestionType, a.Answer, question.Options)
		if rendered.Warning != "" {
			stats.FlaggedAnswers++
			continue
		}
		stats.ValidAnswers++
		label := rendered.Display
		if a.QuestionType == model.QuestionTypeEmojiRating {
			n := rendered.Value.(int)
			ratingSum += n
			label = ratingLabel(n, question.Options)
		}
		if _, ok := order[label]; !ok {
			order[label] = len(order)
		}
		counts[label]++
	}

	if question.QuestionType == model.QuestionTypeEmojiRating && stats.ValidAnswers > 0 {
		avg := float64(ratingSum) / float64(stats.ValidAnswers)
		stats.AverageRating = &avg
	}

	if question.QuestionType == model.QuestionTypeText {
		return stats
	}
	for label, count := range counts {
		stats.Distribution = append(stats.Distribution, LabelCount{Label: label, Count: count})
	}
	sort.Slice(stats.Distribution, func(i, j int) bool {
		return order[stats.Distribution[i].Label] < order[stats.Distribution[j].Label]
	})
	return stats
}

// ratingLabel names a rating by the option with that value, if any.
func ratingLabel(n int, options []model.QuestionOption) string {
	for _, o := range options {
		if o.OptionValue == n {
			return o.OptionText
		}
	}
	return fmt.Sprintf("%d/%d", n, model.RatingMax)
}
