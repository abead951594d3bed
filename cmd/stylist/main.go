package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/Conceptual-Machines/stylist-api/internal/llm"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
	"github.com/Conceptual-Machines/stylist-api/internal/stylist"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(newRunner).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runnerFactory builds the edit runner once flags and environment are known
type runnerFactory func(ctx context.Context, cfg *config.Config) (orchestrator.Runner, error)

func newRunner(ctx context.Context, cfg *config.Config) (orchestrator.Runner, error) {
	factory := llm.NewProviderFactory(llm.ProviderCredentials{
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	provider, err := factory.GetProvider(ctx, cfg.ImageModel, cfg.ImageProvider)
	if err != nil {
		return nil, err
	}
	return stylist.NewService(provider, stylist.Options{
		Model:   cfg.ImageModel,
		Timeout: cfg.GenerationTimeout,
	}), nil
}

func newRootCmd(runners runnerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "stylist",
		Short: "Edit a photo with a multimodal image model",
		Long: `stylist submits a reference photo to an image generation model and
writes the edited image to disk.

Examples:
  # Restyle the outfit, keeping the face and pose
  stylist structured --reference me.jpg --clothing-style "linen suit" --out suit.png

  # Free-form edit
  stylist direct --reference me.jpg --instruction "make it black and white"

  # Show the prompt a structured edit would send
  stylist prompt --background "sunset beach"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("model", "", "Image model (default from IMAGE_MODEL)")
	root.PersistentFlags().String("provider", "", "Provider: gemini or openai (default inferred from model)")

	root.AddCommand(newStructuredCmd(runners))
	root.AddCommand(newDirectCmd(runners))
	root.AddCommand(newPromptCmd())

	return root
}

// loadConfig reads the environment and applies the global flag overrides
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.ImageModel = model
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.ImageProvider = provider
	}
	return cfg
}
