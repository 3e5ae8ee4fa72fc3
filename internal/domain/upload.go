package domain

import "io"

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}
