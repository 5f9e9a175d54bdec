package submit

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upload-ai/cmd/uploadai/cmd/flags"
	"upload-ai/internal/app"
	"upload-ai/internal/app/form"
	"upload-ai/internal/app/pipeline"
)

var (
	videoPath    string
	prompt       string
	showProgress bool
	printMetrics bool
)

func init() {
	Cmd.Flags().StringVarP(&videoPath, "video", "v", "", "mp4 file whose audio will be transcribed")
	Cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "comma separated keywords mentioned in the video, e.g. \"dog,park\"")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "show the conversion progress bar even when stderr is not a terminal")
	Cmd.Flags().BoolVar(&printMetrics, "metrics", false, "print pipeline metrics to stderr when done")

	Cmd.MarkFlagRequired("video")
}

// Cmd represents the submit command
var Cmd = &cobra.Command{
	Use:   "submit",
	Short: "Convert a video to audio, upload it and request a transcription",
	Long: `Convert a video to audio, upload it and request a transcription

- The video must be an mp4 file
- The status is printed as the run advances: Converting, Uploading, Generating
- On success the media id is printed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		var mediaID string
		application, cleanup, err := app.InitializeApp(cfg, reg, form.Options{
			Output:          cmd.OutOrStdout(),
			ShowProgress:    form.ShouldShowProgress(showProgress),
			ProgressOutput:  cmd.ErrOrStderr(),
			OnVideoUploaded: func(id string) { mediaID = id },
		})
		if err != nil {
			return err
		}
		defer cleanup()

		if err := application.Form.SelectFile(videoPath); err != nil {
			return err
		}
		if cmd.Flags().Changed("prompt") {
			if err := application.Form.SetPrompt(prompt); err != nil {
				return err
			}
		}

		state := application.Form.Submit(ctx)
		if printMetrics {
			if err := writeMetrics(cmd, reg); err != nil {
				application.Logger.Warn("failed to print metrics", zap.Error(err))
			}
		}
		if state != pipeline.StateSuccess {
			return fmt.Errorf("transcription request failed: %w", application.Pipeline.LastError())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "media id: %s\n", mediaID)
		return nil
	},
}

func writeMetrics(cmd *cobra.Command, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.ErrOrStderr(), mf); err != nil {
			return err
		}
	}
	return nil
}
