package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iksnae/convolog/conversations"
	"github.com/iksnae/convolog/internal"
	"github.com/spf13/cobra"
)

var (
	importOut        string
	importSaveKeys   string
	importContextIDs string
	importSelfChat   bool
	importDedupe     bool
	importOpt        []string
	importMeta       []string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <database-or-directory>",
	Short: "Import transcript databases into an archive",
	Long: `Import dialog episodes from transcript SQLite databases and save them as a
conversation archive with a metadata sidecar.

Settings recorded by the producer (a settings, meta or opt table) are carried
into the sidecar's opt block. Use --opt to override individual settings and
--meta to attach extra top-level sidecar fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]

		var dbPaths []string
		var episodes []conversations.Episode
		opt := make(map[string]any)

		ctx := context.Background()
		steps := []internal.ProgressStep{
			{
				Message: "Scanning for transcript databases",
				Fn: func() error {
					var err error
					dbPaths, err = internal.FindTranscriptDBs(source)
					if err != nil {
						return fmt.Errorf("failed to scan %s: %w", source, err)
					}
					if len(dbPaths) == 0 {
						return fmt.Errorf("no transcript databases found under %s", source)
					}
					return nil
				},
			},
			{
				Message: "Reading episodes",
				Fn: func() error {
					reader := internal.NewTranscriptReader(dbPaths)
					var err error
					episodes, err = reader.ReadAll()
					if err != nil {
						return err
					}
					if len(episodes) == 0 {
						return fmt.Errorf("no episodes found in %d database(s)", len(dbPaths))
					}
					return nil
				},
			},
			{
				Message: "Collecting producer settings",
				Fn: func() error {
					for _, dbPath := range dbPaths {
						settings, err := internal.ReadSettingsFromFile(dbPath)
						if err != nil {
							internal.LogWarn("Failed to read settings from %s: %v", dbPath, err)
							continue
						}
						if len(settings) > 0 {
							for k, v := range settings {
								opt[k] = v
							}
							break
						}
					}
					return nil
				},
			},
		}
		if importDedupe {
			steps = append(steps, internal.ProgressStep{
				Message: "Deduplicating episodes",
				Fn: func() error {
					before := len(episodes)
					episodes = internal.NewDeduplicator().Deduplicate(episodes)
					if dropped := before - len(episodes); dropped > 0 {
						internal.LogInfo("Dropped %d duplicate episode(s)", dropped)
					}
					return nil
				},
			})
		}
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		// Record how this archive was produced
		saveKeys := importSaveKeys
		if saveKeys == "" {
			saveKeys = conversations.DefaultSaveKeys
		}
		contextIDs := importContextIDs
		if contextIDs == "" {
			contextIDs = conversations.DefaultContextIDs
		}
		opt["source"] = source
		opt["save_keys"] = saveKeys
		opt["context_ids"] = contextIDs

		// --opt overrides win over producer settings
		for _, pair := range importOpt {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid --opt value %q, want key=value", pair)
			}
			opt[key] = parseFlagValue(value)
		}

		var extra map[string]any
		if len(importMeta) > 0 {
			extra = make(map[string]any, len(importMeta))
			for _, pair := range importMeta {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --meta value %q, want key=value", pair)
				}
				extra[key] = parseFlagValue(value)
			}
		}

		saveOpts := &conversations.SaveOptions{
			SaveKeys:   saveKeys,
			ContextIDs: contextIDs,
			SelfChat:   importSelfChat,
			Extra:      extra,
		}
		if err := conversations.Save(episodes, importOut, opt, saveOpts); err != nil {
			return fmt.Errorf("failed to save archive: %w", err)
		}

		internal.PrintSuccess(fmt.Sprintf("Import complete: %d episode(s) saved to %s", len(episodes), conversations.DataPath(importOut)))
		return nil
	},
}

// parseFlagValue keeps the parsed shape of JSON values so --opt batchsize=8
// lands as a number and --opt tags='["a","b"]' as a list; anything else stays
// a string.
func parseFlagValue(value string) any {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return parsed
	}
	return value
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Destination archive path (required)")
	importCmd.Flags().StringVar(&importSaveKeys, "save-keys", "", "Comma-separated act fields to keep, or 'all'")
	importCmd.Flags().StringVar(&importContextIDs, "context-ids", "", "Comma-separated speaker ids treated as context")
	importCmd.Flags().BoolVar(&importSelfChat, "self-chat", false, "Mark the archive as self chat")
	importCmd.Flags().BoolVar(&importDedupe, "dedupe", true, "Drop episodes with identical content")
	importCmd.Flags().StringArrayVar(&importOpt, "opt", nil, "Extra opt entry as key=value (repeatable)")
	importCmd.Flags().StringArrayVar(&importMeta, "meta", nil, "Extra sidecar field as key=value (repeatable)")
	_ = importCmd.MarkFlagRequired("out")
}
