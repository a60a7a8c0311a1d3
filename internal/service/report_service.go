package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// ReportService renders a package quote as a standalone HTML cost report.
type ReportService struct {
	quoteSvc *QuoteService
}

func NewReportService(quoteSvc *QuoteService) *ReportService {
	return &ReportService{quoteSvc: quoteSvc}
}

type ReportData struct {
	GeneratedAt string
	Quote       *QuoteResult
}

func (s *ReportService) GenerateReport(ctx context.Context, packageID string) (*ReportData, error) {
	quote, err := s.quoteSvc.Quote(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return &ReportData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05 MST"),
		Quote:       quote,
	}, nil
}

var ReportTemplate string // Set from main via embed

func (s *ReportService) RenderHTML(data *ReportData) (string, error) {
	funcMap := template.FuncMap{
		"money": func(amount float64, currency string) string {
			return fmt.Sprintf("%.2f %s", amount, currency)
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(ReportTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
