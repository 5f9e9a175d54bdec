package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"upload-ai/cmd/uploadai/cmd/fakeapi"
	"upload-ai/cmd/uploadai/cmd/flags"
	"upload-ai/cmd/uploadai/cmd/submit"
	"upload-ai/cmd/uploadai/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uploadai",
	Short: "Extract the audio of a video and request its transcription from upload-ai",
	Long: `Extract the audio of a local mp4 video and request its transcription from upload-ai.

- The audio track is converted locally with ffmpeg (mp3, 20k)
- The audio is uploaded to the upload-ai API
- A transcription is requested, optionally guided by a keyword prompt`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(submit.Cmd)
	rootCmd.AddCommand(fakeapi.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolP(flags.Verbose, "V", false, "verbose output")
	rootCmd.PersistentFlags().String(flags.Config, "", "config file (YAML); UPLOAD_AI_* variables override it")
}
