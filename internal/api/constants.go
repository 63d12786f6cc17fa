package api

// multipartMemoryLimit is how much of a multipart upload is buffered in
// memory before spilling to a temp file. Video payloads stream from the
// temp file; this does not cap the upload size.
const multipartMemoryLimit = 32 << 20

// Cache-Control header values.
const (
	CacheOneDayPrivate = "private, max-age=86400"
	CacheNoStore       = "no-cache"
)
