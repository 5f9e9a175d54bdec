package fakeapi

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"upload-ai/cmd/uploadai/cmd/flags"
	"upload-ai/internal/app/api/fakeapi"
	"upload-ai/internal/app/logging"
	"upload-ai/internal/config"
)

var (
	addr       string
	transcript string
)

func init() {
	Cmd.Flags().StringVar(&addr, "addr", config.DefaultFakeAPIAddr, "listen address")
	Cmd.Flags().StringVar(&transcript, "transcript", "", "text stored as the transcription of every upload")
}

// Cmd represents the fake-api command
var Cmd = &cobra.Command{
	Use:   "fake-api",
	Short: "Run an in-memory upload-ai API for local development",
	Long: `Run an in-memory upload-ai API for local development

- POST /media accepts a multipart "file" field and returns a media id
- POST /media/{id}/transcription records the request and its prompt
- Nothing is persisted; state is lost on exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.NewLogger(flags.IsVerbose(cmd))
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := fakeapi.NewServer(fakeapi.Config{Transcript: transcript}, logger)
		return server.ListenAndServe(ctx, addr)
	},
}
