package config

// Environment variable names.
const (
	EnvBackendURL     = "CRUX_BACKEND_URL"
	EnvURLsFile       = "CRUX_URLS_FILE"
	EnvExportDir      = "CRUX_EXPORT_DIR"
	EnvLogFile        = "CRUX_LOG_FILE"
	EnvRequestTimeout = "CRUX_REQUEST_TIMEOUT"
	EnvNotify         = "CRUX_NOTIFY"
)

// Default values
const (
	DefaultBackendURL = "http://localhost:3001"

	// AppDirName is the directory name used under the XDG base directories.
	AppDirName = "crux-dashboard"

	// PDFFileName is the fixed name of the exported PDF report.
	PDFFileName = "data_report.pdf"

	// MarkdownFileName is the fixed name of the exported Markdown report.
	MarkdownFileName = "data_report.md"
)
