package conversations

// Fixture constructors shared by tests in this package and the packages
// layered on top of it.

// CreateTestEpisodes returns a small act list covering the save-path cases
// worth exercising: context turns, a multi-pair dialog, and a repeated
// speaker.
func CreateTestEpisodes() []Episode {
	return []Episode{
		{
			{
				Act{"id": "context", "text": "room A"},
			},
			{
				Act{"id": "context", "text": "room A"},
				Act{"id": "speaker_1", "text": "hi"},
				Act{"id": "speaker_2", "text": "hello"},
			},
		},
		{
			{
				Act{"id": "speaker_1", "text": "still there?", "labels": []string{"greeting"}},
				Act{"id": "speaker_2", "text": "yes"},
			},
			{
				Act{"id": "speaker_1", "text": "good"},
			},
		},
	}
}

// CreateTestConversation returns one parsed conversation carrying dialog,
// context and an extra top-level field.
func CreateTestConversation() *Conversation {
	line := `{"dialog":[[{"id":"speaker_1","text":"hi"},{"id":"speaker_2","text":"hello"}],[{"id":"speaker_1","text":"bye"}]],"context":[{"id":"context","text":"room A"}],"metadata_path":"sample.metadata","rating":4}`
	return CreateTestConversationFromLine(line)
}

// CreateTestConversationFromLine parses a single archive line into a
// conversation, panicking on malformed input. Test-only convenience.
func CreateTestConversationFromLine(line string) *Conversation {
	c, err := parseConversation([]byte(line))
	if err != nil {
		panic(err)
	}
	return c
}
