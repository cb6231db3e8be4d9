// Package halloctl is the local client for a deployed generation endpoint.
package halloctl

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hallod/pkg/types"
)

// DefaultAPIBase is the hosted platform's job-submission API.
const DefaultAPIBase = "https://api.runpod.ai"

// Config holds client addressing and credentials.
type Config struct {
	// BaseURL addresses a worker directly, e.g. http://127.0.0.1:8080.
	BaseURL string
	// EndpointID + APIKey address a hosted endpoint through APIBase.
	EndpointID string
	APIKey     string
	APIBase    string
	Timeout    time.Duration
}

func configFromEnv() Config {
	cfg := Config{
		BaseURL:    os.Getenv("HALLO_BASE_URL"),
		EndpointID: os.Getenv("HALLO_ENDPOINT_ID"),
		APIKey:     os.Getenv("HALLO_API_KEY"),
		APIBase:    os.Getenv("HALLO_API_BASE"),
		Timeout:    10 * time.Minute,
	}
	return cfg
}

// BuildRootCmd constructs the halloctl command tree.
func BuildRootCmd() *cobra.Command {
	cfg := configFromEnv()
	var timeoutSec int

	root := &cobra.Command{
		Use:           "halloctl",
		Short:         "Submit talking-head generation jobs to a hallod endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Direct worker URL (defaults HALLO_BASE_URL)")
	root.PersistentFlags().StringVar(&cfg.EndpointID, "endpoint-id", cfg.EndpointID, "Hosted endpoint id (defaults HALLO_ENDPOINT_ID)")
	root.PersistentFlags().StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key for the hosted platform (defaults HALLO_API_KEY)")
	root.PersistentFlags().StringVar(&cfg.APIBase, "api-base", cfg.APIBase, "Hosted platform API base (defaults HALLO_API_BASE)")
	root.PersistentFlags().IntVar(&timeoutSec, "timeout", 600, "Request timeout in seconds")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if timeoutSec > 0 {
			cfg.Timeout = time.Duration(timeoutSec) * time.Second
		}
	}

	var imagePath, audioPath, prompt, outputPath string
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Submit one job and save the generated video",
		Example: "  halloctl run --image face.png --audio speech.wav -o out.mp4",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := BuildJobInput(imagePath, audioPath, prompt)
			if err != nil {
				return err
			}
			resp, err := NewClient(cfg).Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("job failed: %s", resp.Error)
			}
			if resp.Output == nil || resp.Output.Video == "" {
				return fmt.Errorf("endpoint returned no video")
			}
			if err := WriteVideo(outputPath, resp.Output.Video); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outputPath)
			return nil
		},
	}
	runCmd.Flags().StringVar(&imagePath, "image", "", "Source face image (PNG or JPEG)")
	runCmd.Flags().StringVar(&audioPath, "audio", "", "Driving audio (WAV)")
	runCmd.Flags().StringVar(&prompt, "prompt", "", "Optional text prompt")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "out.mp4", "Where to write the generated MP4")
	_ = runCmd.MarkFlagRequired("image")
	_ = runCmd.MarkFlagRequired("audio")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show worker status (requires --base-url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := NewClient(cfg).Status(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Probe worker health (requires --base-url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := NewClient(cfg).Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	root.AddCommand(runCmd, statusCmd, healthCmd)
	return root
}

// BuildJobInput reads and encodes local media files into a job payload.
func BuildJobInput(imagePath, audioPath, prompt string) (types.JobInput, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return types.JobInput{}, fmt.Errorf("read image: %w", err)
	}
	aud, err := os.ReadFile(audioPath)
	if err != nil {
		return types.JobInput{}, fmt.Errorf("read audio: %w", err)
	}
	return types.JobInput{
		Image:  base64.StdEncoding.EncodeToString(img),
		Audio:  base64.StdEncoding.EncodeToString(aud),
		Prompt: prompt,
	}, nil
}

// WriteVideo decodes a base64 MP4 payload to disk.
func WriteVideo(path, b64 string) error {
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("decode video payload: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
