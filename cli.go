package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var scratchDir, ffmpegDir string

	cmd := &cobra.Command{
		Use:   "video-audio-extractor s3://bucket/prefix",
		Short: "Extract AAC audio tracks from videos stored in S3",
		Long: `Extract the audio track of every video under an S3 prefix, the same way the
Lambda function does for object-created notifications.

Configuration is read from the environment and from a .env file in the working
directory when present.

Example:
  video-audio-extractor s3://videos/clips/
  video-audio-extractor --scratch-dir /var/tmp/extract --ffmpeg-dir /usr/bin s3://videos/clips/demo.mp4`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), func(cmd *cobra.Command, args []string) error {
			if _, _, err := ParseS3URL(args[0]); err != nil {
				return fmt.Errorf("failed to parse S3 URL: %v", err)
			}
			return nil
		}),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env file: %w", err)
			}

			config, err := LoadConfigFromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("scratch-dir") {
				if !filepath.IsAbs(scratchDir) {
					return fmt.Errorf("--scratch-dir must be an absolute path, got '%s'", scratchDir)
				}
				config.ScratchDir = scratchDir
			}
			if cmd.Flags().Changed("ffmpeg-dir") {
				config.FFmpegBinaryFolder = ffmpegDir
			}

			h, err := setup(config)
			if err != nil {
				return err
			}
			defer h.logger.Sync()

			return h.HandleS3URL(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&scratchDir, "scratch-dir", DefaultScratchDir, "Directory for downloaded videos and extracted audio")
	cmd.Flags().StringVar(&ffmpegDir, "ffmpeg-dir", DefaultFFmpegBinaryFolder, "Directory containing the ffmpeg binary")

	return cmd
}
