package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/triage-ai/pkg/formatter"
	"github.com/helmcode/triage-ai/pkg/imaging"
	"github.com/helmcode/triage-ai/pkg/model"
)

var imageType string

func NewImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image FILE",
		Short: "Analyze a photo of a skin condition or wound",
		Long: `Derive color, texture and shape statistics from an image and score its severity.

Supported formats: PNG, JPEG, GIF, BMP, TIFF and WebP.

Examples:
  # Analyze a skin photo
  triage-ai image rash.jpg

  # Tag the image as a wound and print JSON
  triage-ai image cut.png --type wound -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runImage,
	}

	cmd.Flags().StringVar(&imageType, "type", "skin", "Image type (skin, wound, general)")

	return cmd
}

func runImage(cmd *cobra.Command, args []string) error {
	path := args[0]

	t, err := model.ParseImageType(imageType)
	if err != nil {
		return err
	}
	an, err := loadAnalyzer()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	printHeader("🔬 Image Analysis", fmt.Sprintf("📁 File: %s", path))

	s := newSpinner(" Analyzing image...")
	if humanOutput() {
		s.Start()
	}
	result, err := an.Images.AnalyzeBytes(data, t)
	s.Stop()

	if err != nil {
		var decodeErr *imaging.DecodeError
		if !errors.As(err, &decodeErr) {
			return err
		}
		printError("Image could not be decoded")
		if displayErr := formatter.DisplayImage(os.Stdout, result, outputFormat); displayErr != nil {
			return displayErr
		}
		return fmt.Errorf("image analysis failed: %w", err)
	}
	printSuccess("Analysis complete")

	return formatter.DisplayImage(os.Stdout, result, outputFormat)
}
