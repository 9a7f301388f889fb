package model

// Shared defaults used by the CLI and the upload server.
const (
	DefaultListenAddr   = "127.0.0.1:8501"
	DefaultMaxUploadMB  = 200
	DefaultSnippetLen   = 200
	DefaultLogLevel     = "INFO"
	NotAvailable        = "N/A"
	QueryNotCaptured    = "<query not captured>"
	ComplexPipelineNote = "<complex pipeline: see Command>"
)
