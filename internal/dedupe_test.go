package internal

import (
	"testing"

	"github.com/iksnae/convolog/conversations"
)

func makeEpisode(turns ...conversations.Act) conversations.Episode {
	return conversations.Episode{turns}
}

func TestDeduplicate(t *testing.T) {
	greeting := makeEpisode(
		conversations.Act{"id": "speaker_1", "text": "hi"},
		conversations.Act{"id": "speaker_2", "text": "hello"},
	)
	farewell := makeEpisode(
		conversations.Act{"id": "speaker_1", "text": "bye"},
	)

	tests := []struct {
		name     string
		episodes []conversations.Episode
		want     int
	}{
		{
			name:     "no duplicates",
			episodes: []conversations.Episode{greeting, farewell},
			want:     2,
		},
		{
			name:     "exact duplicate dropped",
			episodes: []conversations.Episode{greeting, farewell, greeting},
			want:     2,
		},
		{
			name: "same text different speaker kept",
			episodes: []conversations.Episode{
				makeEpisode(conversations.Act{"id": "speaker_1", "text": "hi"}),
				makeEpisode(conversations.Act{"id": "speaker_2", "text": "hi"}),
			},
			want: 2,
		},
		{
			name:     "empty input",
			episodes: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduplicator()
			got := d.Deduplicate(tt.episodes)
			if len(got) != tt.want {
				t.Errorf("Deduplicate() kept %d episodes, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	first := conversations.Episode{
		{conversations.Act{"id": "speaker_1", "text": "hi", "labels": []string{"a"}}},
	}
	second := conversations.Episode{
		{conversations.Act{"id": "speaker_1", "text": "hi", "labels": []string{"b"}}},
	}

	d := NewDeduplicator()
	got := d.Deduplicate([]conversations.Episode{first, second})

	// Hashing covers speaker and text only, so these collide and the
	// earlier episode wins
	if len(got) != 1 {
		t.Fatalf("Deduplicate() kept %d episodes, want 1", len(got))
	}
	labels, _ := got[0][0][0]["labels"].([]string)
	if len(labels) != 1 || labels[0] != "a" {
		t.Errorf("Kept episode labels = %v, want the first occurrence", got[0][0][0]["labels"])
	}
}

func TestDeduplicateSeesPairBoundaries(t *testing.T) {
	joined := conversations.Episode{
		{
			conversations.Act{"id": "speaker_1", "text": "hi"},
			conversations.Act{"id": "speaker_2", "text": "hello"},
		},
	}
	split := conversations.Episode{
		{conversations.Act{"id": "speaker_1", "text": "hi"}},
		{conversations.Act{"id": "speaker_2", "text": "hello"}},
	}

	d := NewDeduplicator()
	got := d.Deduplicate([]conversations.Episode{joined, split})
	if len(got) != 2 {
		t.Errorf("Deduplicate() kept %d episodes, want 2: pair structure is part of identity", len(got))
	}
}
