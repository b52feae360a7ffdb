package cmd

import (
	"errors"

	"github.com/iksnae/convolog/conversations"
	"github.com/iksnae/convolog/internal"
	"github.com/spf13/cobra"
)

// metaCmd represents the meta command
var metaCmd = &cobra.Command{
	Use:   "meta <archive>",
	Short: "Show an archive's metadata sidecar",
	Long: `Print the metadata sidecar paired with an archive: format version, save
date, self-chat flag, speakers, the recorded options and any extra fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := conversations.LoadMetadata(args[0])
		if err != nil {
			var notFound *conversations.NotFoundError
			if errors.As(err, &notFound) {
				internal.PrintWarning("Metadata does not exist. Please double check your datapath.")
			}
			return err
		}

		meta.Describe()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}
