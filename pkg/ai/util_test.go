package ai

import (
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fence",
			input: `[{"title": "x"}]`,
			want:  `[{"title": "x"}]`,
		},
		{
			name:  "json fence",
			input: "```json\n[{\"title\": \"x\"}]\n```",
			want:  `[{"title": "x"}]`,
		},
		{
			name:  "bare fence",
			input: "```\n[1, 2]\n```",
			want:  `[1, 2]`,
		},
		{
			name:  "fence with surrounding whitespace",
			input: "  ```json\n{\"a\": 1}\n```  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "plain text passes through",
			input: "plain text answer",
			want:  "plain text answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.want {
				t.Errorf("StripCodeFence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexible(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "standard json",
			input: `{"title": "test"}`,
			want:  "test",
		},
		{
			name:  "fenced json",
			input: "```json\n{\"title\": \"fenced\"}\n```",
			want:  "fenced",
		},
		{
			name:  "double encoded",
			input: `"{\"title\": \"nested\"}"`,
			want:  "nested",
		},
		{
			name:  "malformed but repairable",
			input: `{title: "repaired"}`,
			want:  "repaired",
		},
		{
			name:    "hopeless input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out payload
			err := UnmarshalFlexible(tt.input, &out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("UnmarshalFlexible() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if out.Title != tt.want {
				t.Errorf("UnmarshalFlexible() title = %q, want %q", out.Title, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexibleArray(t *testing.T) {
	var out []map[string]any
	input := "```json\n[{\"title\": \"a\"}, {\"title\": \"b\"}]\n```"
	if err := UnmarshalFlexible(input, &out); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("UnmarshalFlexible() len = %d, want 2", len(out))
	}
}
