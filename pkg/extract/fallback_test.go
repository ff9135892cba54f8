package extract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractFallbackMinimalDocument(t *testing.T) {
	text := "On January 15, 2024, Acme Corp announced a merger with Beta Inc in Chicago."

	events := ExtractFallback(text)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Date == nil || *event.Date != "2024-01-15" {
		t.Errorf("expected date 2024-01-15, got %v", event.Date)
	}
	if event.Location == nil || !strings.Contains(*event.Location, "Chicago") {
		t.Errorf("expected location containing Chicago, got %v", event.Location)
	}

	hasParticipant := func(name string) bool {
		for _, p := range event.Participants {
			if p == name {
				return true
			}
		}
		return false
	}
	if !hasParticipant("Acme Corp") {
		t.Errorf("expected participant Acme Corp, got %v", event.Participants)
	}
	if !hasParticipant("Beta Inc") {
		t.Errorf("expected participant Beta Inc, got %v", event.Participants)
	}
}

func TestExtractFallbackDeterminism(t *testing.T) {
	text := `On January 15, 2024, Acme Corp announced a merger with Beta Inc in Chicago.
The board approved the transaction on 03/10/2024 at Denver.
Gamma Holdings filed the paperwork in New York.
Unrelated filler sentence without any trigger words present here.`

	first := ExtractFallback(text)
	second := ExtractFallback(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output across runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("expected 3 events, got %d", len(first))
	}
}

func TestExtractFallbackSentenceFilters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "short sentences dropped",
			text: "Deal signed. Ok.",
			want: 0,
		},
		{
			name: "no indicator dropped",
			text: "The weather in Chicago was pleasant throughout the entire week.",
			want: 0,
		},
		{
			name: "indicator retained",
			text: "The committee approved the new zoning proposal yesterday.",
			want: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := ExtractFallback(tc.text)
			if len(events) != tc.want {
				t.Errorf("expected %d events, got %d", tc.want, len(events))
			}
		})
	}
}

func TestExtractFallbackEventCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Vendor%d Corp announced a brand new supply agreement today. ", i)
	}

	events := ExtractFallback(b.String())

	if len(events) != maxEvents {
		t.Errorf("expected cap of %d events, got %d", maxEvents, len(events))
	}
}

func TestExtractFallbackTitleTruncation(t *testing.T) {
	long := "Acme Corp announced " + strings.Repeat("a very long description ", 10) + "of the deal"

	events := ExtractFallback(long)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(events[0].Title) != titleMaxLen+3 {
		t.Errorf("expected truncated title of %d chars, got %d", titleMaxLen+3, len(events[0].Title))
	}
	if !strings.HasSuffix(events[0].Title, "...") {
		t.Errorf("expected ellipsis suffix, got %q", events[0].Title)
	}
	if events[0].Summary != long {
		t.Error("summary must keep the full sentence")
	}
}

func TestExtractFallbackTitleTruncationMultibyte(t *testing.T) {
	long := "Sûreté Générale announced " + strings.Repeat("é", 100) + " completion of the review"

	events := ExtractFallback(long)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	title := events[0].Title
	if !utf8.ValidString(title) {
		t.Errorf("truncated title is not valid UTF-8: %q", title)
	}
	if got := utf8.RuneCountInString(title); got != titleMaxLen+3 {
		t.Errorf("expected %d runes, got %d", titleMaxLen+3, got)
	}
}

func TestExtractLocationBounds(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		wantNil  bool
		want     string
	}{
		{
			name:     "normal city",
			sentence: "The deal was announced in Chicago.",
			want:     "Chicago",
		},
		{
			name:     "too short rejected",
			sentence: "The deal was announced in Io.",
			wantNil:  true,
		},
		{
			name:     "no capitalized span",
			sentence: "The deal was announced in secret.",
			wantNil:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractLocation(tc.sentence)

			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected no location, got %q", *got)
				}
				return
			}

			if got == nil {
				t.Fatalf("expected %q, got nil", tc.want)
			}
			if *got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, *got)
			}
		})
	}
}

func TestExtractParticipants(t *testing.T) {
	sentence := "On January 15, 2024, Acme Corp and Acme Corp agreed with The Beta Group and John Smith."

	participants := extractParticipants(sentence)

	for i, p := range participants {
		for j := i + 1; j < len(participants); j++ {
			if p == participants[j] {
				t.Errorf("duplicate participant %q", p)
			}
		}
	}

	for _, p := range participants {
		first, _, _ := strings.Cut(p, " ")
		if _, stop := participantStopwords[first]; stop {
			t.Errorf("stopword-led participant %q survived filtering", p)
		}
	}

	if len(participants) > maxParticipants {
		t.Errorf("expected at most %d participants, got %d", maxParticipants, len(participants))
	}

	found := false
	for _, p := range participants {
		if p == "John Smith" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected John Smith in %v", participants)
	}
}
