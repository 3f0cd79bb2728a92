package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/triage-ai/pkg/analyzer"
	"github.com/helmcode/triage-ai/pkg/model"
	"github.com/helmcode/triage-ai/pkg/records"
	"github.com/helmcode/triage-ai/pkg/rules"
)

const lineWidth = 80

const disclaimer = "This assessment is produced by fixed rules for triage support only. " +
	"It is not a diagnosis and does not replace evaluation by a healthcare professional."

// Formats lists the accepted values of the output flag.
var Formats = []string{"human", "json", "yaml"}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// display writes v as JSON or YAML, or calls human for any other format.
func display(w io.Writer, v any, format string, human func(io.Writer)) error {
	switch format {
	case "json":
		return displayJSON(w, v)
	case "yaml":
		return displayYAML(w, v)
	case "human":
		fallthrough
	default:
		human(w)
	}
	return nil
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

// DisplayResults writes any result as JSON or YAML. The human format falls
// back to YAML.
func DisplayResults(w io.Writer, v any, format string) error {
	if format == "json" {
		return displayJSON(w, v)
	}
	return displayYAML(w, v)
}

// DisplaySymptoms renders a symptom report.
func DisplaySymptoms(w io.Writer, report *analyzer.SymptomReport, format string) error {
	return display(w, report, format, func(w io.Writer) { humanSymptoms(w, report) })
}

func humanSymptoms(w io.Writer, report *analyzer.SymptomReport) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	a := report.Analysis

	fmt.Fprintln(w)
	if a.Urgent {
		color.New(color.FgRed, color.Bold).Fprintln(w, "🚨 URGENT: this case needs prompt medical attention")
		fmt.Fprintln(w)
	}

	if report.Patient.PatientName != "" {
		fmt.Fprintf(w, "👤 Patient: %s", report.Patient.PatientName)
		if report.Patient.Age > 0 {
			fmt.Fprintf(w, " (%d)", report.Patient.Age)
		}
		fmt.Fprintln(w)
	}
	if report.Patient.Duration != "" {
		fmt.Fprintf(w, "⏱️  Duration: %s\n", report.Patient.Duration.Label())
	}
	fmt.Fprintf(w, "🤕 Pain scale: %d/10\n\n", report.Patient.PainScale)

	priorityColor(a.Priority).Fprintf(w, "%s PRIORITY: %s\n", priorityIcon(a.Priority), a.Priority)
	fmt.Fprintf(w, "   Severity score:  %.1f/10\n", a.Severity)
	fmt.Fprintf(w, "   Specialty:       %s\n", a.Specialty)
	fmt.Fprintf(w, "   Confidence:      %.1f%%\n", a.Confidence)
	fmt.Fprintf(w, "   Expected wait:   %s\n\n", a.EstimatedWait)

	if len(a.KeySymptoms) > 0 {
		yellow.Fprintln(w, "🔍 KEY SYMPTOMS:")
		for _, s := range a.KeySymptoms {
			fmt.Fprintf(w, "   • %s\n", s)
		}
		fmt.Fprintln(w)
	}

	green.Fprintln(w, "📋 RECOMMENDATIONS:")
	for i, r := range a.Recommendations {
		fmt.Fprintf(w, "   %d. %s\n", i+1, r)
	}
	fmt.Fprintln(w)

	cyan.Fprintln(w, "🏥 QUEUE:")
	humanPlacement(w, report.Queue)
	fmt.Fprintln(w)

	cyan.Fprintln(w, "🛏️  RESOURCES:")
	humanResources(w, report.Resources)

	if report.RecordID != "" {
		fmt.Fprintf(w, "\n🆔 Record: %s\n", color.HiBlackString(report.RecordID))
	}
	footer(w)
}

// DisplayImage renders an image analysis, including failed ones.
func DisplayImage(w io.Writer, a *model.ImageAnalysis, format string) error {
	return display(w, a, format, func(w io.Writer) { humanImage(w, a) })
}

func humanImage(w io.Writer, a *model.ImageAnalysis) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "🖼️  Image type: %s\n", a.ImageType)
	if len(a.Categories) > 0 {
		fmt.Fprintf(w, "🏷️  Categories: %s\n", strings.Join(a.Categories, ", "))
	}

	if a.Error != "" {
		fmt.Fprintln(w)
		red.Fprintln(w, "❌ ANALYSIS FAILED:")
		fmt.Fprintln(w, wrapText(a.Error, lineWidth, "   "))
	} else {
		fmt.Fprintf(w, "📐 Analyzed at: %dx%d\n\n", a.Width, a.Height)

		severityColor(a.Severity).Fprintf(w, "📊 SEVERITY: %.0f/10\n", a.Severity)
		fmt.Fprintf(w, "   Confidence: %.0f%%\n\n", a.Confidence)

		cyan.Fprintln(w, "🎨 FEATURES:")
		if c := a.Color; c != nil {
			fmt.Fprintf(w, "   Color:   hue %.1f, saturation %.1f, brightness %.1f, red %.1f%%, hue spread %.1f\n",
				c.MeanHue, c.MeanSaturation, c.MeanBrightness, c.RedPercentage, c.ColorUniformity)
		}
		if t := a.Texture; t != nil {
			fmt.Fprintf(w, "   Texture: variance %.1f, edge density %.1f%%, smoothness %.1f%%\n",
				t.Variance, t.EdgeDensity, t.Smoothness)
		}
		if s := a.Shape; s != nil {
			fmt.Fprintf(w, "   Shape:   %d contours, largest area %.0f, circularity %.2f, irregularity %.2f\n",
				s.ContourCount, s.LargestArea, s.Circularity, s.Irregularity)
		}
		fmt.Fprintln(w)

		if len(a.Findings) > 0 {
			yellow.Fprintln(w, "🔍 FINDINGS:")
			for _, f := range a.Findings {
				fmt.Fprintf(w, "   • %s\n", f)
			}
			fmt.Fprintln(w)
		}
	}

	green.Fprintln(w, "📋 RECOMMENDATIONS:")
	for i, r := range a.Recommendations {
		fmt.Fprintf(w, "   %d. %s\n", i+1, r)
	}

	if a.RequiresReview {
		fmt.Fprintln(w)
		red.Fprintln(w, "⚠️  Professional review required")
	}
	footer(w)
}

// DisplayPlacement renders a queue position and wait estimate.
func DisplayPlacement(w io.Writer, p model.QueuePlacement, format string) error {
	return display(w, p, format, func(w io.Writer) {
		fmt.Fprintln(w)
		humanPlacement(w, p)
	})
}

func humanPlacement(w io.Writer, p model.QueuePlacement) {
	fmt.Fprintf(w, "   Position: %d\n", p.Position)
	fmt.Fprintf(w, "   Priority: %s %s\n", priorityIcon(p.Priority), priorityColor(p.Priority).Sprint(p.Priority))
	fmt.Fprintf(w, "   Wait:     %s\n", p.WaitText)
}

// DisplayResources renders a resource allocation.
func DisplayResources(w io.Writer, r model.Resources, format string) error {
	return display(w, r, format, func(w io.Writer) {
		fmt.Fprintln(w)
		humanResources(w, r)
	})
}

func humanResources(w io.Writer, r model.Resources) {
	fmt.Fprintf(w, "   Room:      %s\n", r.RoomType)
	fmt.Fprintf(w, "   Staff:     %s\n", r.StaffLevel)
	fmt.Fprintf(w, "   Equipment: %s\n", strings.Join(r.Equipment, ", "))
}

// DisplayQueue renders queue entries in the order given.
func DisplayQueue(w io.Writer, entries []model.QueueEntry, format string) error {
	return display(w, entries, format, func(w io.Writer) {
		fmt.Fprintln(w)
		if len(entries) == 0 {
			fmt.Fprintln(w, "   Queue is empty")
			return
		}
		for i, e := range entries {
			name := e.Label
			if name == "" {
				name = e.ID
			}
			arrival := "-"
			if !e.Arrival.IsZero() {
				arrival = e.Arrival.Format("15:04")
			}
			fmt.Fprintf(w, "   %2d. %s %-9s %-5s %s\n", i+1, priorityIcon(e.Priority),
				priorityColor(e.Priority).Sprint(e.Priority), arrival, name)
		}
	})
}

// DisplayDashboard renders the session summary with a severity trend chart.
func DisplayDashboard(w io.Writer, s records.Summary, format string) error {
	return display(w, s, format, func(w io.Writer) { humanDashboard(w, s) })
}

func humanDashboard(w io.Writer, s records.Summary) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "📊 PATIENT DASHBOARD")
	fmt.Fprintf(w, "   Patients:          %d\n", s.Total)
	fmt.Fprintf(w, "   Critical cases:    %s\n", color.RedString("%d", s.Critical))
	fmt.Fprintf(w, "   Urgent or worse:   %s\n", color.YellowString("%d", s.Urgent))
	fmt.Fprintf(w, "   Average severity:  %.1f\n", s.AverageSeverity)
	fmt.Fprintf(w, "   Peak severity:     %.1f (%s)\n\n", s.PeakSeverity, s.Trend)

	white.Fprintln(w, "PRIORITY DISTRIBUTION:")
	for _, p := range model.Priorities {
		n := s.Distribution[p]
		fmt.Fprintf(w, "   %s %-9s %s %d\n", priorityIcon(p), p, priorityColor(p).Sprint(strings.Repeat("█", n)), n)
	}

	if len(s.Severities) > 1 {
		fmt.Fprintln(w)
		white.Fprintln(w, "SEVERITY TREND:")
		fmt.Fprintln(w, asciigraph.Plot(s.Severities,
			asciigraph.Height(8),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(10),
			asciigraph.Precision(1),
			asciigraph.Caption("severity by arrival"),
		))
	}

	if len(s.Recent) > 0 {
		fmt.Fprintln(w)
		white.Fprintln(w, "RECENT PATIENTS:")
		for _, r := range s.Recent {
			name := r.PatientName
			if name == "" {
				name = "anonymous"
			}
			fmt.Fprintf(w, "   %s %s %-9s %4.1f  %-18s %s\n", r.Timestamp.Format("15:04"), priorityIcon(r.Priority),
				r.Priority, r.Severity, r.Specialty, name)
		}
	}
	footer(w)
}

// DisplayRules renders the effective rule set. The human view is YAML since
// that is also the rules file format.
func DisplayRules(w io.Writer, r *rules.Rules, format string) error {
	if format == "json" {
		return displayJSON(w, r)
	}
	data, err := r.YAML()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func footer(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, wrapText("⚕️  "+disclaimer, lineWidth, ""))
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func priorityColor(p model.Priority) *color.Color {
	switch p {
	case model.PriorityCritical:
		return color.New(color.FgRed, color.Bold)
	case model.PriorityUrgent:
		return color.New(color.FgRed)
	case model.PriorityModerate:
		return color.New(color.FgYellow)
	case model.PriorityLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func severityColor(severity float64) *color.Color {
	return priorityColor(model.PriorityFromSeverity(severity))
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "🔴"
	case model.PriorityUrgent:
		return "🟠"
	case model.PriorityModerate:
		return "🟡"
	case model.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
