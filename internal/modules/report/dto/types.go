package dto

type ExportInput struct {
	Period string
	Dir    string
}

type ExportOutput struct {
	Key       string
	Path      string
	Days      int
	NotedDays int
}
