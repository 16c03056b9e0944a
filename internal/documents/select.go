package documents

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/family-swim-sf/internal/oracle"
	"github.com/jonathan/family-swim-sf/internal/prompts"
)

// FilterSchedules keeps the documents that look like schedule PDFs for the
// given pool. Documents naming a different pool are rejected even when they
// contain "schedule".
func FilterSchedules(docs []Document, poolName string, allPools []string) []Document {
	poolLower := strings.ToLower(poolName)
	var otherPools []string
	for _, p := range allPools {
		if lower := strings.ToLower(p); lower != poolLower {
			otherPools = append(otherPools, lower)
		}
	}

	var schedules []Document
	for _, doc := range docs {
		nameLower := strings.ToLower(doc.Name)
		if !strings.Contains(nameLower, "schedule") {
			continue
		}
		isOtherPool := false
		for _, other := range otherPools {
			if strings.Contains(nameLower, other) {
				isOtherPool = true
				break
			}
		}
		if !isOtherPool {
			schedules = append(schedules, doc)
		}
	}
	return schedules
}

// poolNameAliases maps a pool's configured name (lowercased) to the other
// forms its schedule PDF titles use. The city abbreviates Martin Luther King
// Jr Pool to "MLK" and drops "Community" from Mission Community Pool, in
// both directions depending on who typed the title.
var poolNameAliases = map[string][]string{
	"martin luther king jr pool": {"mlk"},
	"mlk pool":                   {"martin luther king"},
	"mission community pool":     {"mission"},
	"mission pool":               {"mission community"},
}

// poolNameVariants returns every lowercase name form a schedule PDF title may
// use for the pool: the name without its "Pool" suffix plus any known alias.
func poolNameVariants(poolName string) []string {
	lower := strings.ToLower(poolName)
	variants := []string{strings.TrimSuffix(lower, " pool")}
	return append(variants, poolNameAliases[lower]...)
}

// seasonOf maps a month to the season name facilities put in PDF titles.
func seasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

// scoreDocument ranks a schedule document for the current date. Year match
// outweighs season match, which outweighs a pool-name match.
func scoreDocument(doc Document, poolName string, now time.Time) int {
	nameLower := strings.ToLower(doc.Name)
	score := 0
	if strings.Contains(nameLower, strconv.Itoa(now.Year())) {
		score += 10
	}
	if strings.Contains(nameLower, seasonOf(now.Month())) {
		score += 5
	}
	for _, variant := range poolNameVariants(poolName) {
		if strings.Contains(nameLower, variant) {
			score += 3
			break
		}
	}
	return score
}

// Select picks the schedule PDF to extract from. Scoring by year, season and
// pool name decides most cases; when several candidates tie for the top score
// the oracle breaks the tie, and when even that fails the first candidate
// wins.
func Select(ctx context.Context, docs []Document, poolName string, allPools []string, now time.Time, chooser oracle.TextGenerator) (*Document, error) {
	schedules := FilterSchedules(docs, poolName, allPools)
	if len(schedules) == 0 {
		return nil, fmt.Errorf("no schedule documents found for %s", poolName)
	}
	if len(schedules) == 1 {
		return &schedules[0], nil
	}

	bestScore := -1
	var leaders []Document
	for _, doc := range schedules {
		score := scoreDocument(doc, poolName, now)
		if score > bestScore {
			bestScore = score
			leaders = []Document{doc}
		} else if score == bestScore {
			leaders = append(leaders, doc)
		}
	}
	if bestScore > 0 && len(leaders) == 1 {
		return &leaders[0], nil
	}
	if bestScore <= 0 {
		// Nothing matched the date at all; let the oracle read the titles.
		leaders = schedules
	}

	if chooser != nil {
		if doc, err := chooseWithOracle(ctx, chooser, leaders, poolName, now); err == nil {
			return doc, nil
		}
	}
	return &leaders[0], nil
}

// chooseWithOracle asks the oracle to pick among candidates by title.
func chooseWithOracle(ctx context.Context, chooser oracle.TextGenerator, candidates []Document, poolName string, now time.Time) (*Document, error) {
	var list strings.Builder
	for i, doc := range candidates {
		fmt.Fprintf(&list, "%d. %s\n", i+1, doc.Name)
	}

	template, err := prompts.Get("extraction.json", "choose-document")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{
		"Date":      now.Format("January 2, 2006"),
		"Pool":      poolName,
		"Documents": list.String(),
	})

	answer, err := chooser.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	choice, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || choice < 1 || choice > len(candidates) {
		return nil, fmt.Errorf("unusable document choice %q", answer)
	}
	return &candidates[choice-1], nil
}
