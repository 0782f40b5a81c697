package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"admin-experimentai/internal/model"
)

const reportTimeLayout = "02/01/2006 15:04"

// ReportService renders printable documents from stored feedback.
type ReportService interface {
	SessionReportPDF(ctx context.Context, sessionID string) ([]byte, error)
}

type reportService struct {
	feedback FeedbackService
}

func NewReportService(feedback FeedbackService) ReportService {
	return &reportService{feedback: feedback}
}

// SessionReportPDF lays out the session header followed by the product,
// experimentai and delivery answers, in the order the viewer shows them.
func (s *reportService) SessionReportPDF(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.feedback.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.feedback.GetSessionAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Feedback "+session.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Sessão de feedback"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, row := range sessionHeader(session) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(45, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 7, tr(row[1]), "", "L", false)
	}
	pdf.Ln(4)

	writeSection(pdf, tr, "Produtos", answers.ProductFeedbacks)
	writeSection(pdf, tr, "Experimentai", answers.ExperimentaiFeedbacks)
	writeSection(pdf, tr, "Entrega", answers.DeliveryFeedbacks)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render session report: %w", err)
	}
	return buf.Bytes(), nil
}

func sessionHeader(session *model.FeedbackSession) [][2]string {
	rows := [][2]string{
		{"Sessão", session.ID},
		{"Status", string(session.SessionStatus)},
		{"Respondente", orDash(session.RespondentEmail())},
		{"Início", session.StartedAt.Format(reportTimeLayout)},
		{"Conclusão", formatOptionalTime(session.CompletedAt)},
	}
	if session.Box != nil {
		rows = append(rows, [2]string{"Box", session.Box.Theme})
	}
	if session.Edition != nil {
		rows = append(rows, [2]string{"Edição", session.Edition.Edition})
	}
	if session.CompletionBadge != nil {
		rows = append(rows, [2]string{"Selo", *session.CompletionBadge})
	}
	if session.FinalMessage != nil {
		rows = append(rows, [2]string{"Mensagem final", *session.FinalMessage})
	}
	return rows
}

func writeSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, groups []model.AnswerGroup) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 9, tr(title))
	pdf.Ln(10)

	if len(groups) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 7, tr("Sem respostas"))
		pdf.Ln(10)
		return
	}

	for _, g := range groups {
		if g.ProductID != nil {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, tr(orDash(g.ProductName)))
			pdf.Ln(8)
		}
		for _, a := range g.Answers {
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, tr(a.QuestionText), "", "L", false)
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, tr(a.Rendered.Display), "", "L", false)
			if a.Rendered.Warning != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr("Aviso: "+a.Rendered.Warning), "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(reportTimeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
