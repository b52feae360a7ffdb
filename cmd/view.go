package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/convolog/conversations"
	"github.com/spf13/cobra"
)

var (
	viewIndex  int
	viewRandom bool
	viewRaw    bool
)

var (
	// Styles for view command
	convoHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	convoMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true).
			Padding(0, 2)

	turnContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	emptyTurnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 2).
			MarginBottom(1)

	// speakerPalette colors speaker labels in first-seen order
	speakerPalette = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Padding(0, 1),
		lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true).Padding(0, 1),
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Padding(0, 1),
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Padding(0, 1),
	}
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <archive>",
	Short: "View one conversation from an archive",
	Long: `Display a single conversation, chosen by --index or --random.

By default turns are rendered with colored speaker labels and wrapped text.
Use --raw for the plain delimited format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := conversations.Load(args[0])
		if err != nil {
			return err
		}
		if archive.NumConversations() == 0 {
			return fmt.Errorf("archive holds no conversations: %s", args[0])
		}

		index := viewIndex
		if viewRandom {
			index = rand.IntN(archive.NumConversations())
		}

		if viewRaw {
			return archive.PrintConversation(index)
		}

		c, err := archive.Get(index)
		if err != nil {
			return err
		}
		if !c.HasDialog() {
			return fmt.Errorf("conversation %d has no dialog", index)
		}

		displayConversation(index, archive.NumConversations(), c)
		return nil
	},
}

func displayConversation(index, total int, c *conversations.Conversation) {
	header := convoHeaderStyle.Render(fmt.Sprintf("💬 Conversation %d of %d", index, total))
	fmt.Println(header)

	var metaParts []string
	for _, f := range c.Fields() {
		if f.Key == "context" {
			continue
		}
		metaParts = append(metaParts, fmt.Sprintf("%s: %s", f.Key, f.Value))
	}
	if len(metaParts) > 0 {
		fmt.Println(convoMetaStyle.Render(strings.Join(metaParts, " | ")))
	}
	fmt.Println()

	if context := c.Context(); len(context) > 0 {
		for _, turn := range context {
			fmt.Println(contextStyle.Render(fmt.Sprintf("(%s) %s", turn.ID(), turn.Text())))
		}
		fmt.Println()
	}

	styles := make(map[string]lipgloss.Style)
	for _, pair := range c.Dialog() {
		for _, turn := range pair {
			fmt.Println(speakerStyleFor(styles, turn.ID()).Render(turn.ID()))

			content := strings.TrimSpace(turn.Text())
			if content != "" {
				fmt.Println(turnContentStyle.Render(wrapText(content, 80)))
			} else {
				fmt.Println(emptyTurnStyle.Render("(empty turn)"))
			}
		}
	}
}

// speakerStyleFor hands each distinct speaker the next palette entry.
func speakerStyleFor(assigned map[string]lipgloss.Style, speaker string) lipgloss.Style {
	if style, ok := assigned[speaker]; ok {
		return style
	}
	style := speakerPalette[len(assigned)%len(speakerPalette)]
	assigned[speaker] = style
	return style
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		// Wrap long lines
		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().IntVarP(&viewIndex, "index", "i", 0, "Conversation index to view")
	viewCmd.Flags().BoolVar(&viewRandom, "random", false, "View a uniformly chosen conversation")
	viewCmd.Flags().BoolVar(&viewRaw, "raw", false, "Print in the plain delimited format")
}
