package types

type ExportResult struct {
	InputFile      string
	OutputFile     string
	TrackingRef    string
	RecordsWritten int
}

type FileData struct {
	Headers   []string
	Rows      [][]string
	HeaderRow int
}
