package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
)

// bindStylingFlags registers one flag per styling field
func bindStylingFlags(cmd *cobra.Command, p *models.StylingParameters) {
	flags := cmd.Flags()
	flags.StringVar(&p.ClothingStyle, "clothing-style", "", "Clothing style")
	flags.StringVar(&p.Materials, "materials", "", "Material details")
	flags.StringVar(&p.Accessories, "accessories", "", "Accessories")
	flags.StringVar(&p.Colors, "colors", "", "Color palette")
	flags.StringVar(&p.Background, "background", "", "Background")
	flags.StringVar(&p.Lighting, "lighting", "", "Lighting")
	flags.StringVar(&p.Quality, "quality", "", "Output quality")
	flags.StringVar(&p.NegativePrompt, "negative-prompt", "", "Items to avoid")
}

func newStructuredCmd(runners runnerFactory) *cobra.Command {
	var (
		reference string
		mask      string
		out       string
		params    models.StylingParameters
	)

	cmd := &cobra.Command{
		Use:   "structured",
		Short: "Restyle a photo from the styling fields",
		Long:  `Build the structured prompt from the styling fields and submit it with the reference photo and optional mask.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd)
			encoder := media.NewEncoder(cfg.MaxUploadBytes)

			req := models.StructuredEditRequest{Parameters: params}
			if reference != "" {
				ref, err := readImage(encoder, models.FieldReferenceImage, reference)
				if err != nil {
					return err
				}
				req.ReferenceImage = ref
			}
			if mask != "" {
				m, err := readImage(encoder, models.FieldMaskImage, mask)
				if err != nil {
					return err
				}
				req.MaskImage = &m
			}

			runner, err := runners(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return submit(cmd, orchestrator.New(runner), req, out)
		},
	}

	cmd.Flags().StringVarP(&reference, "reference", "r", "", "Reference photo (PNG, JPEG or WebP)")
	cmd.Flags().StringVarP(&mask, "mask", "m", "", "Optional mask image")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stylist-output.<ext>)")
	bindStylingFlags(cmd, &params)

	return cmd
}

func newDirectCmd(runners runnerFactory) *cobra.Command {
	var (
		reference   string
		instruction string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "direct",
		Short: "Apply a free-form instruction to a photo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd)
			encoder := media.NewEncoder(cfg.MaxUploadBytes)

			req := models.DirectEditRequest{Instruction: instruction}
			if reference != "" {
				ref, err := readImage(encoder, models.FieldReferenceImage, reference)
				if err != nil {
					return err
				}
				req.ReferenceImage = ref
			}

			runner, err := runners(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return submit(cmd, orchestrator.New(runner), req, out)
		},
	}

	cmd.Flags().StringVarP(&reference, "reference", "r", "", "Reference photo (PNG, JPEG or WebP)")
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "Edit instruction, sent verbatim")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stylist-output.<ext>)")

	return cmd
}

func readImage(encoder *media.Encoder, field, path string) (models.ImagePayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ImagePayload{}, &models.EncodingError{Source: field, Err: err}
	}
	defer func() { _ = f.Close() }()

	return encoder.Encode(field, f)
}

func submit(cmd *cobra.Command, o *orchestrator.Orchestrator, req models.EditRequest, out string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outcome, err := o.Submit(ctx, req)
	if err != nil {
		var transportErr *models.GenerationTransportError
		if errors.As(err, &transportErr) {
			return fmt.Errorf("%s: %w", models.TransportErrorMessage, transportErr.Err)
		}
		return err
	}

	if outcome.State != orchestrator.StateSucceeded {
		return errors.New(outcome.Message())
	}

	image := outcome.Result.Image
	if out == "" {
		out = "stylist-output" + media.Extension(image.MIMEType())
	}
	if err := os.WriteFile(out, image.Data(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s (%s, %d bytes)\n", out, image.MIMEType(), image.Size())
	return nil
}
