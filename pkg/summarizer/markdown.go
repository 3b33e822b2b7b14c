package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Frame Extraction Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	f.header(&b)
	f.row(&b, t("File"), s.Input.Path)
	f.row(&b, t("File Size"), formatBytes(s.Input.FileSize))
	f.row(&b, t("Streams"), fmt.Sprintf("%d", s.Input.StreamCount))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video Stream"))
	f.header(&b)
	f.row(&b, t("Index"), fmt.Sprintf("#%d", s.Stream.Index))
	f.row(&b, t("Codec"), s.Stream.Codec)
	f.row(&b, t("Dimensions"), fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height))
	f.row(&b, t("Time Base"), s.Stream.TimeBase)
	if s.Stream.DurationSec > 0 {
		f.row(&b, t("Duration"), formatSeconds(s.Stream.DurationSec))
	} else {
		f.row(&b, t("Duration"), "N/A")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Selected Frame"))
	f.header(&b)
	f.row(&b, t("Requested Time"), formatSeconds(s.Request.TimeSeconds))
	if s.Frame.HasPTS {
		f.row(&b, t("Frame Time"), formatSeconds(s.Frame.PTSSeconds))
	} else {
		f.row(&b, t("Frame Time"), "N/A")
	}
	if s.Frame.Fallback {
		f.row(&b, t("Note"), t("Requested time is past the last frame"))
	}
	f.row(&b, t("Source Format"), s.Frame.SourceFormat)
	f.row(&b, t("Dimensions"), fmt.Sprintf("%dx%d", s.Frame.Width, s.Frame.Height))
	f.row(&b, t("Packets Read"), fmt.Sprintf("%d", s.Frame.PacketsScanned))
	f.row(&b, t("Frames Decoded"), fmt.Sprintf("%d", s.Frame.FramesDecoded))
	if s.Request.MaxPackets > 0 {
		f.row(&b, t("Packet Limit"), fmt.Sprintf("%d", s.Request.MaxPackets))
	} else {
		f.row(&b, t("Packet Limit"), t("Unlimited"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	f.header(&b)
	f.row(&b, t("File"), s.Output.Path)
	f.row(&b, t("Format"), strings.ToUpper(s.Output.Format))
	f.row(&b, t("Dimensions"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height))
	f.row(&b, t("File Size"), formatBytes(s.Output.FileSize))
	if s.Output.Annotated {
		f.row(&b, t("Annotated"), t("Yes"))
	} else {
		f.row(&b, t("Annotated"), t("No"))
	}
	b.WriteString("\n")

	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		footer += fmt.Sprintf(" (framegrab %s)", f.version)
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	value = strings.ReplaceAll(value, "|", "\\|")
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

// formatSeconds formats seconds with millisecond precision.
func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f s", s)
}

// formatBytes formats a byte count using binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
