package model

import (
	"sort"
	"time"
)

type AnswerView struct {
	FeedbackAnswer
	Rendered RenderedAnswer `json:"rendered"`
}

type AnswerGroup struct {
	ID          string       `json:"id"`
	ProductID   *string      `json:"product_id,omitempty"`
	ProductName string       `json:"product_name,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Answers     []AnswerView `json:"answers"`
}

// SessionAnswers is a session's answer set split the way the feedback
// viewer shows it.
type SessionAnswers struct {
	ProductFeedbacks      []AnswerGroup `json:"productFeedbacks"`
	ExperimentaiFeedbacks []AnswerGroup `json:"experimentaiFeedbacks"`
	DeliveryFeedbacks     []AnswerGroup `json:"deliveryFeedbacks"`
}

// Count returns the number of answers across every group.
func (s SessionAnswers) Count() int {
	n := 0
	for _, groups := range [][]AnswerGroup{s.ProductFeedbacks, s.ExperimentaiFeedbacks, s.DeliveryFeedbacks} {
		for _, g := range groups {
			n += len(g.Answers)
		}
	}
	return n
}

// GroupAnswers partitions answers into product groups (one per product),
// one experimentai group and one delivery group. Every answer lands in
// exactly one group. products and options may be missing entries.
func GroupAnswers(answers []FeedbackAnswer, products map[string]Product, options map[string][]QuestionOption) SessionAnswers {
	byProduct := map[string]*AnswerGroup{}
	var productOrder []string
	var experimentai, delivery *AnswerGroup

	for _, a := range answers {
		view := AnswerView{FeedbackAnswer: a, Rendered: RenderAnswer(a.QuestionType, a.Answer, options[a.QuestionID])}

		var g *AnswerGroup
		switch {
		case a.Section == SectionDelivery:
			if delivery == nil {
				delivery = &AnswerGroup{ID: string(SectionDelivery), CreatedAt: a.CreatedAt}
			}
			g = delivery
		case a.Section == SectionProduct || a.ProductID != nil:
			key := ""
			if a.ProductID != nil {
				key = *a.ProductID
			}
			g = byProduct[key]
			if g == nil {
				g = &AnswerGroup{ID: string(SectionProduct) + ":" + key, ProductID: a.ProductID, CreatedAt: a.CreatedAt}
				if p, ok := products[key]; ok {
					g.ProductName = p.Name
				}
				byProduct[key] = g
				productOrder = append(productOrder, key)
			}
		default:
			if experimentai == nil {
				experimentai = &AnswerGroup{ID: string(SectionExperimentai), CreatedAt: a.CreatedAt}
			}
			g = experimentai
		}

		if a.CreatedAt.Before(g.CreatedAt) {
			g.CreatedAt = a.CreatedAt
		}
		g.Answers = append(g.Answers, view)
	}

	out := SessionAnswers{
		ProductFeedbacks:      []AnswerGroup{},
		ExperimentaiFeedbacks: []AnswerGroup{},
		DeliveryFeedbacks:     []AnswerGroup{},
	}
	for _, key := range productOrder {
		out.ProductFeedbacks = append(out.ProductFeedbacks, sortedGroup(byProduct[key]))
	}
	sort.SliceStable(out.ProductFeedbacks, func(i, j int) bool {
		return out.ProductFeedbacks[i].CreatedAt.Before(out.ProductFeedbacks[j].CreatedAt)
	})
	if experimentai != nil {
		out.ExperimentaiFeedbacks = append(out.ExperimentaiFeedbacks, sortedGroup(experimentai))
	}
	if delivery != nil {
		out.DeliveryFeedbacks = append(out.DeliveryFeedbacks, sortedGroup(delivery))
	}
	return out
}

func sortedGroup(g *AnswerGroup) AnswerGroup {
	sort.SliceStable(g.Answers, func(i, j int) bool {
		return g.Answers[i].CreatedAt.Before(g.Answers[j].CreatedAt)
	})
	return *g
}
