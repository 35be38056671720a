package presentation

import (
	"fmt"
	"io"

	"fwupload/internal/domain"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintDryRun(files domain.FilteredFileSet, target domain.Target) {
	fmt.Fprintln(p.Writer, "Collected:")
	fmt.Fprintln(p.Writer)

	for _, line := range p.formatFileLines(files.Files()) {
		fmt.Fprintln(p.Writer, line)
	}

	if p.Verbose {
		p.printSubset("Whitelisted:", files.Whitelisted())
		p.printSubset("Blacklisted:", files.Blacklisted())
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Would package %d files (%d whitelisted, %d blacklisted).\n",
		files.Len(), len(files.Whitelisted()), len(files.Blacklisted()))
	fmt.Fprintf(p.Writer, "Would publish to %s.\n", target.Link())
}

func (p Printer) PrintReport(report domain.Report) {
	fmt.Fprintln(p.Writer, "Packaged:")
	fmt.Fprintln(p.Writer)

	names := make([]string, 0, len(report.Entries))
	for _, entry := range report.Entries {
		names = append(names, fmt.Sprintf("%s  %s", entry.Name, formatBytes(entry.Size)))
	}
	for _, line := range p.formatFileLines(names) {
		fmt.Fprintln(p.Writer, line)
	}

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Published %d files (%s, %s compressed) to %s in %s.\n",
		len(report.Entries), formatBytes(report.BytesRead), formatBytes(report.BytesStored),
		report.Target, report.Elapsed.Round(1e6))
	fmt.Fprintf(p.Writer, "Framework path: %s\n", report.Target.Link())
}

func (p Printer) PrintPublished(target domain.Target, n int64) {
	fmt.Fprintf(p.Writer, "Published %s to %s.\n", formatBytes(n), target.Link())
}

func (p Printer) printSubset(title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, title)
	for _, path := range paths {
		fmt.Fprintln(p.Writer, "- "+path)
	}
}

// formatFileLines truncates long listings unless verbose.
func (p Printer) formatFileLines(lines []string) []string {
	if p.Verbose || len(lines) <= 4 {
		return lines
	}
	head := append([]string(nil), lines[:2]...)
	tail := lines[len(lines)-2:]
	head = append(head, fmt.Sprintf("... %d more ...", len(lines)-4))
	return append(head, tail...)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
