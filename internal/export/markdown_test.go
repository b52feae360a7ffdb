package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/convolog/conversations"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		conv    *conversations.Conversation
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "conversation with dialog and context",
			conv: conversations.CreateTestConversation(),
			want: []string{
				"# Conversation",
				"**metadata_path:** sample.metadata",
				"**rating:** 4",
				"**turns:** 3",
				"## Context",
				"**context:** room A",
				"## Dialog",
				"**speaker_1:**",
				"hi",
				"**speaker_2:**",
				"hello",
				"bye",
			},
			wantErr: false,
		},
		{
			name: "conversation without turns",
			conv: conversations.CreateTestConversationFromLine(`{"dialog":[],"context":[],"metadata_path":"empty.metadata"}`),
			want: []string{
				"# Conversation",
				"**turns:** 0",
				"## Dialog",
			},
			notWant: []string{
				"## Context",
			},
			wantErr: false,
		},
		{
			name: "markdown syntax in turn text is escaped",
			conv: conversations.CreateTestConversationFromLine(`{"dialog":[[{"id":"speaker_1","text":"use **force** now"}]],"context":[]}`),
			want: []string{
				`use \*\*force\*\* now`,
			},
			notWant: []string{
				"use **force** now",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			err := exporter.Export(tt.conv, &buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("MarkdownExporter.Export() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q", notWantStr)
				}
			}
		})
	}
}

func TestMarkdownExporter_Export_RuleBetweenTurns(t *testing.T) {
	var buf bytes.Buffer
	exporter := &MarkdownExporter{}

	if err := exporter.Export(conversations.CreateTestConversation(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// One rule before the dialog section, then one between each of the
	// three turns but none after the last.
	output := buf.String()
	if got := strings.Count(output, "---"); got != 3 {
		t.Errorf("Output has %d horizontal rules, want 3", got)
	}
	if strings.HasSuffix(strings.TrimSpace(output), "---") {
		t.Error("Output should not end with a horizontal rule")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain text",
			text: "hello there",
			want: "hello there",
		},
		{
			name: "bold markers",
			text: "a **bold** move",
			want: `a \*\*bold\*\* move`,
		},
		{
			name: "underscore markers",
			text: "an __underlined__ word",
			want: `an \_\_underlined\_\_ word`,
		},
		{
			name: "code block left alone",
			text: "```\n**raw**\n```",
			want: "```\n**raw**\n```",
		},
		{
			name: "markers outside a code block still escaped",
			text: "**see**\n```\n**raw**\n```",
			want: "\\*\\*see\\*\\*\n```\n**raw**\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.text); got != tt.want {
				t.Errorf("escapeMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}
