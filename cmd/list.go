package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/convolog/conversations"
	"github.com/iksnae/convolog/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	speakersStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// archiveSummary is one row of the list table.
type archiveSummary struct {
	path     string
	convos   int
	speakers []string
	saved    string
	selfChat bool
}

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List conversation archives",
	Long: `Find conversation archives under a file or directory and summarize each:
conversation count, speakers and save date from the metadata sidecar.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		paths, err := internal.FindArchives(root)
		if err != nil {
			return err
		}

		var summaries []archiveSummary
		for _, path := range paths {
			archive, err := conversations.Load(path)
			if err != nil {
				internal.LogWarn("Skipping unreadable archive %s: %v", path, err)
				continue
			}
			summary := archiveSummary{path: path, convos: archive.NumConversations()}
			if meta := archive.Metadata(); meta != nil {
				summary.speakers = meta.Speakers
				summary.saved = meta.Date
				summary.selfChat = meta.SelfChat
			}
			summaries = append(summaries, summary)
		}

		displayArchives(summaries)
		return nil
	},
}

func displayArchives(summaries []archiveSummary) {
	if len(summaries) == 0 {
		fmt.Println(headerStyle.Render("📚 No archives found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📚 Found %d archive(s)", len(summaries)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("Archive")+"\t"+titleStyle.Render("Conversations")+"\t"+titleStyle.Render("Speakers")+"\t"+titleStyle.Render("Saved")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, summary := range summaries {
		path := summary.path
		if len(path) > 50 {
			path = "..." + path[len(path)-47:]
		}

		speakers := "-"
		if len(summary.speakers) > 0 {
			speakers = strings.Join(summary.speakers, ", ")
			if len(speakers) > 30 {
				speakers = speakers[:27] + "..."
			}
			if summary.selfChat {
				speakers += " (self chat)"
			}
			speakers = speakersStyle.Render(speakers)
		} else {
			speakers = dateStyle.Render(speakers)
		}

		saved := dateStyle.Render("-")
		if summary.saved != "" {
			saved = dateStyle.Render(humanizeDate(summary.saved))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			pathStyle.Render(path),
			countStyle.Render(strconv.Itoa(summary.convos)),
			speakers,
			saved)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(pathStyle.Render("💡 Tip: Read one with ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render("`convolog view <archive>`"))
}

// humanizeDate compresses a metadata save date for the table; recent dates
// show weekday or time of day, old ones just the date.
func humanizeDate(saved string) string {
	t, err := time.Parse("2006-01-02 15:04:05.000000", saved)
	if err != nil {
		return saved
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
