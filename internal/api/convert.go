package api

import (
	"twang/internal/deps"
	"twang/internal/history"
	"twang/internal/pipeline"
	"twang/internal/profiles"
)

// FromOutcome converts a successful pipeline outcome to its API representation.
func FromOutcome(outcome pipeline.Outcome) AnalysisResult {
	return AnalysisResult{
		Accent:      outcome.Accent,
		Confidence:  outcome.Confidence,
		Explanation: outcome.Explanation,
		RequestID:   outcome.RequestID,
	}
}

// FromProfiles converts the profile table to API DTOs in lexical order.
func FromProfiles(table *profiles.Table) []ProfileInfo {
	if table == nil {
		return nil
	}
	accents := table.Accents()
	out := make([]ProfileInfo, 0, len(accents))
	for _, accent := range accents {
		profile, ok := table.Lookup(accent)
		if !ok {
			continue
		}
		out = append(out, ProfileInfo{
			ID:            accent,
			DisplayName:   profiles.DisplayName(accent),
			FormantRatios: profile.FormantRatios,
			PitchVariance: profile.PitchVariance,
			SpeakingRate:  profile.SpeakingRate,
		})
	}
	return out
}

// FromHistoryEntry converts a history record to its API representation.
func FromHistoryEntry(entry history.Entry) HistoryEntry {
	dto := HistoryEntry{
		ID:           entry.ID,
		RequestID:    entry.RequestID,
		SourceURL:    entry.SourceURL,
		Accent:       entry.Accent,
		Confidence:   entry.Confidence,
		Explanation:  entry.Explanation,
		ErrorKind:    entry.ErrorKind,
		ErrorMessage: entry.ErrorMessage,
		DurationMS:   entry.Duration.Milliseconds(),
	}
	if !entry.CreatedAt.IsZero() {
		dto.CreatedAt = entry.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromHistoryEntries converts a slice of history records into API DTOs.
func FromHistoryEntries(entries []history.Entry) []HistoryEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromHistoryEntry(entry))
	}
	return out
}

// FromDependencyStatus converts a binary availability report to its API shape.
func FromDependencyStatus(status deps.Status) DependencyStatus {
	return DependencyStatus{
		Name:        status.Name,
		Command:     status.Command,
		Description: status.Description,
		Optional:    status.Optional,
		Available:   status.Available,
		Detail:      status.Detail,
	}
}

// FromDependencyStatuses converts a slice of availability reports.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, FromDependencyStatus(status))
	}
	return out
}
