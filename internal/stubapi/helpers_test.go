package stubapi

import (
	"time"

	"github.com/marketops/console/internal/ai"
	"github.com/marketops/console/internal/auth"
	"github.com/marketops/console/internal/metrics"
)

func authRegistration(name, email, password string) auth.Registration {
	return auth.Registration{Name: name, Email: email, Password: password}
}

func aiText(prompt, tone string) ai.TextRequest {
	return ai.TextRequest{Prompt: prompt, Tone: tone}
}

func metricsRange(now time.Time) metrics.Range {
	return metrics.Range{
		From: now.AddDate(0, 0, -30).Format(time.DateOnly),
		To:   now.Format(time.DateOnly),
	}
}
