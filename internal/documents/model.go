package documents

// Upload is a resume file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Parsed is the extracted text of an upload. Key is the archive key of the
// original file, empty when no archive is configured or archiving failed.
type Parsed struct {
	Text string
	Kind string
	Key  string
}
