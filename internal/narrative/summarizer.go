// Package narrative asks a language model for a short prose overview of a
// landscape result. It is optional and never feeds back into the numbers.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/logger"
)

const maxAttempts = 3

type Summarizer struct {
	caller LLMCaller
	log    *logger.Logger
	sleep  func(time.Duration)
}

func NewSummarizer(caller LLMCaller, log *logger.Logger) *Summarizer {
	return &Summarizer{caller: caller, log: logger.OrNop(log), sleep: time.Sleep}
}

// Summarize retries timeouts, rate limits and server errors, and empty replies,
// up to three attempts. Client errors fail immediately.
func (s *Summarizer) Summarize(ctx context.Context, res *landscape.Result) (string, error) {
	prompt := BuildPrompt(res)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		out, err := s.caller.Generate(ctx, prompt)
		if err != nil {
			class := classifyTransportError(err)
			s.log.Warn("narrative llm transport error",
				"attempt", attempt, "class", int(class), "elapsed_ms", time.Since(start).Milliseconds(), "error", err)
			if class == failureClient || attempt == maxAttempts {
				return "", fmt.Errorf("narrative transport failure: %w", err)
			}
			s.sleep(backoffDelay(attempt))
			continue
		}
		out = strings.TrimSpace(out)
		if out == "" {
			s.log.Warn("narrative llm empty response", "attempt", attempt)
			continue
		}
		s.log.Debug("narrative generated",
			"model", s.caller.ModelName(), "attempt", attempt, "chars", len(out), "elapsed_ms", time.Since(start).Milliseconds())
		return out, nil
	}
	return "", fmt.Errorf("narrative failed after %d attempts: empty response", maxAttempts)
}

// BuildPrompt lists the computed figures for the model. Only the result's own
// numbers are included.
func BuildPrompt(res *landscape.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Disease: %s\n", res.Disease)
	fmt.Fprintf(&b, "Publications included: %t\n\n", res.IncludeSecondary)
	writeDistribution(&b, "Intervention types", res.Interventions)
	writeDistribution(&b, "Trial phases", res.Phases)
	writeDistribution(&b, "Trial drug categories (ATC level 1)", res.TrialCategories)
	if res.IncludeSecondary {
		writeDistribution(&b, "Publication types", res.PublicationTypes)
		writeDistribution(&b, "Publication drug categories (ATC level 1)", res.PublicationCategories)
	}
	writeRanking(&b, "Top trial drugs", res.TopTrialDrugs)
	if res.IncludeSecondary {
		writeRanking(&b, "Top publication drugs", res.TopPublicationDrugs)
	}
	fmt.Fprintf(&b, "Phase 3/4 drugs: %s\n\n", joinOrNone(res.Phase34Drugs))
	fmt.Fprintf(&b, "Recommended drugs from similar diseases (status %s):\n", res.Recommendations.Status)
	if len(res.Recommendations.Items) == 0 {
		b.WriteString("- none\n")
	}
	for _, r := range res.Recommendations.Items {
		fmt.Fprintf(&b, "- %s: %d trials across %s\n", r.Drug, r.Count, strings.Join(r.Diseases, ", "))
	}
	b.WriteString("\nWrite the overview.")
	return b.String()
}

func writeDistribution(b *strings.Builder, title string, d landscape.Distribution) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(d) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, lc := range d.Sorted() {
		fmt.Fprintf(b, "- %s: %d\n", lc.Label, lc.Count)
	}
	b.WriteString("\n")
}

func writeRanking(b *strings.Builder, title string, ranked []landscape.DrugCount) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(ranked) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, dc := range ranked {
		fmt.Fprintf(b, "- %s: %d\n", dc.Drug, dc.Count)
	}
	b.WriteString("\n")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func backoffDelay(attempt int) time.Duration {
	switch attempt {
	case 1:
		return 1 * time.Second
	case 2:
		return 2 * time.Second
	default:
		return 4 * time.Second
	}
}
