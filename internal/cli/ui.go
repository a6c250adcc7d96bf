package cli

import "github.com/fatih/color"

// General purpose colors
var (
	infoColor    = color.New(color.FgCyan).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	detailColor  = color.New(color.FgHiBlack).SprintFunc()
	headerColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
	cmdColor     = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// statusColor renders a capture status with its conventional color.
func statusColor(status string) string {
	switch status {
	case "success":
		return successColor(status)
	case "failed":
		return errorColor(status)
	default:
		return detailColor(status)
	}
}
