package backup

import "fmt"

type ArchiveErrorReason string

const (
	ReasonCorrupt         ArchiveErrorReason = "corrupt archive"
	ReasonMissingManifest ArchiveErrorReason = "manifest entry missing"
	ReasonTooManyFiles    ArchiveErrorReason = "too many archive entries"
	ReasonTooLarge        ArchiveErrorReason = "decompressed size limit exceeded"
	ReasonTimeout         ArchiveErrorReason = "entry decompression timed out"
	ReasonUnsafeName      ArchiveErrorReason = "unsafe entry name"
)

// ArchiveError is fatal: the archive itself is unusable and nothing has
// been written when it is returned.
type ArchiveError struct {
	Reason ArchiveErrorReason
	Entry  string
	Err    error
}

func (e *ArchiveError) Error() string {
	msg := string(e.Reason)
	if e.Entry != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Entry)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "invalid backup archive: " + msg
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// ValidationError is fatal: the manifest decoded but does not have the
// expected shape. Record identifies the offending entry, e.g. "plants[3]".
type ValidationError struct {
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record == "" {
		return "invalid backup manifest: " + e.Reason
	}
	return fmt.Sprintf("invalid backup manifest: %s: %s", e.Record, e.Reason)
}
