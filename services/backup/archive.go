package backup

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ManifestName is the fixed path of the manifest entry inside an archive.
const ManifestName = "backup.json"

const imagePrefix = "images/"

// Extraction bounds. All byte limits apply to decompressed sizes and are
// enforced while streaming, so a small compressed input cannot expand past
// a limit before it is detected.
const (
	maxArchiveEntries = 100
	maxTotalBytes     = 10 << 20
	maxEntryBytes     = 5 << 20
	maxManifestBytes  = 1 << 20
	maxEntryNameLen   = 255
	entryTimeout      = 30 * time.Second
)

var entryNamePattern = regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// Archive is the extracted content of an uploaded backup: the raw manifest
// bytes plus any bundled image files keyed by their name under images/.
type Archive struct {
	Manifest []byte
	Images   map[string][]byte
}

// ReadArchive extracts an untrusted zip archive under the decompression
// bounds above. Entries that are neither the manifest nor an allowed image
// are skipped with a log note; a missing manifest is fatal.
func ReadArchive(data []byte) (*Archive, error) {
	return archiveReader{now: time.Now}.read(data)
}

// archiveReader carries the clock the per-entry deadline is checked
// against.
type archiveReader struct {
	now func() time.Time
}

func (r archiveReader) read(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Reason: ReasonCorrupt, Err: err}
	}

	// Entry count comes from the central directory, so this rejects
	// oversized archives before a single byte is decompressed.
	if len(zr.File) > maxArchiveEntries {
		return nil, &ArchiveError{Reason: ReasonTooManyFiles}
	}

	arch := &Archive{Images: make(map[string][]byte)}
	var total int64

	for _, f := range zr.File {
		if err := checkEntryName(f.Name); err != nil {
			return nil, err
		}

		switch {
		case f.Name == ManifestName:
			b, err := r.readEntry(f, maxManifestBytes, &total)
			if err != nil {
				return nil, err
			}
			arch.Manifest = b

		case strings.HasPrefix(f.Name, imagePrefix):
			ext := strings.ToLower(path.Ext(f.Name))
			if !imageExtensions[ext] {
				logrus.WithField("entry", f.Name).Warn("Skipping bundled file with disallowed extension")
				continue
			}
			b, err := r.readEntry(f, maxEntryBytes, &total)
			if err != nil {
				return nil, err
			}
			arch.Images[strings.TrimPrefix(f.Name, imagePrefix)] = b

		default:
			logrus.WithField("entry", f.Name).Debug("Ignoring unrecognized archive entry")
		}
	}

	if arch.Manifest == nil {
		return nil, &ArchiveError{Reason: ReasonMissingManifest}
	}
	return arch, nil
}

func checkEntryName(name string) error {
	unsafe := &ArchiveError{Reason: ReasonUnsafeName, Entry: name}
	if name == "" || len(name) > maxEntryNameLen {
		return unsafe
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return unsafe
	}
	if !entryNamePattern.MatchString(name) {
		return unsafe
	}
	return nil
}

// readEntry decompresses one entry, checking the per-entry limit, the
// archive-wide running total and the per-entry deadline on every chunk.
func (r archiveReader) readEntry(f *zip.File, limit int64, total *int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &ArchiveError{Reason: ReasonCorrupt, Entry: f.Name, Err: err}
	}
	defer rc.Close()

	deadline := r.now().Add(entryTimeout)
	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)

	for {
		if r.now().After(deadline) {
			return nil, &ArchiveError{Reason: ReasonTimeout, Entry: f.Name}
		}

		n, err := rc.Read(chunk)
		if n > 0 {
			if int64(buf.Len())+int64(n) > limit {
				return nil, &ArchiveError{Reason: ReasonTooLarge, Entry: f.Name}
			}
			*total += int64(n)
			if *total > maxTotalBytes {
				return nil, &ArchiveError{Reason: ReasonTooLarge}
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, &ArchiveError{Reason: ReasonCorrupt, Entry: f.Name, Err: err}
		}
	}
}
