package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/convolog/conversations"
	"github.com/iksnae/convolog/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check the health of conversation archives",
	Long: `Check every archive under a file or directory by verifying:
  • Each line parses as a conversation record
  • Each record carries a dialog
  • The metadata sidecar is present and names every dialog speaker

Useful before publishing an archive or after editing one by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		fmt.Println(sectionStyle.Render("🔍 Archive Health Check"))
		fmt.Println()

		// Step 1: Find archives
		fmt.Println(infoStyle.Render("Step 1: Scanning for archives..."))
		paths, err := internal.FindArchives(root)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to scan:"), err)
			return err
		}
		if len(paths) == 0 {
			fmt.Println(errorStyle.Render("❌ No archives found under " + root))
			return fmt.Errorf("health check failed: no archives under %s", root)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d archive(s)", len(paths))))
		fmt.Println()

		// Step 2: Check each archive
		failures := 0
		warnings := 0
		for _, path := range paths {
			fmt.Println(infoStyle.Render("Checking " + path))

			archive, err := conversations.Load(path)
			if err != nil {
				fmt.Println(errorStyle.Render("❌ Load failed:"), err)
				failures++
				fmt.Println()
				continue
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Parsed %d conversation(s)", archive.NumConversations())))

			pairs, turns, missingDialog := tallyArchive(archive)
			if verbose {
				fmt.Printf("   Pairs: %d, turns: %d\n", pairs, turns)
			}
			if missingDialog > 0 {
				fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  %d record(s) without a dialog field", missingDialog)))
				warnings++
			}

			if meta := archive.Metadata(); meta == nil {
				fmt.Println(warningStyle.Render("⚠️  No metadata sidecar"))
				warnings++
			} else {
				fmt.Println(successStyle.Render("✅ Metadata version " + meta.Version))
				if unknown := unknownSpeakers(archive, meta); len(unknown) > 0 {
					fmt.Println(warningStyle.Render("⚠️  Dialog speakers missing from sidecar: " + strings.Join(unknown, ", ")))
					warnings++
				}
			}
			fmt.Println()
		}

		// Summary
		fmt.Println(sectionStyle.Render("📊 Summary"))
		fmt.Println()
		switch {
		case failures > 0:
			fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Health check failed: %d of %d archive(s) unreadable", failures, len(paths))))
			return fmt.Errorf("health check failed: %d archive(s) unreadable", failures)
		case warnings > 0:
			fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  Health check passed with %d warning(s)", warnings)))
			return nil
		default:
			fmt.Println(successStyle.Render("✅ Health check passed!"))
			return nil
		}
	},
}

// tallyArchive counts the dialog pairs and turns across an archive, plus any
// records missing a dialog field entirely.
func tallyArchive(archive *conversations.Archive) (pairs, turns, missingDialog int) {
	for i := 0; i < archive.NumConversations(); i++ {
		c, err := archive.Get(i)
		if err != nil {
			continue
		}
		if !c.HasDialog() {
			missingDialog++
			continue
		}
		for _, pair := range c.Dialog() {
			pairs++
			turns += len(pair)
		}
	}
	return pairs, turns, missingDialog
}

// unknownSpeakers returns dialog speaker ids absent from the sidecar's
// speakers list, in first-seen order.
func unknownSpeakers(archive *conversations.Archive, meta *conversations.Metadata) []string {
	recorded := make(map[string]bool, len(meta.Speakers))
	for _, s := range meta.Speakers {
		recorded[s] = true
	}

	var unknown []string
	reported := make(map[string]bool)
	for i := 0; i < archive.NumConversations(); i++ {
		c, err := archive.Get(i)
		if err != nil || !c.HasDialog() {
			continue
		}
		for _, pair := range c.Dialog() {
			for _, turn := range pair {
				id := turn.ID()
				if !recorded[id] && !reported[id] {
					reported[id] = true
					unknown = append(unknown, id)
				}
			}
		}
	}
	return unknown
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
