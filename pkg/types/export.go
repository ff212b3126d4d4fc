// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExportEntry is one file of an export archive.
type ExportEntry struct {
	Name string
	Data []byte
}

// ExportBundle is the write-once result of exporting a press release: the PDF,
// the DOCX, and every referenced image, in archive order.
type ExportBundle struct {
	ArchiveName string
	Entries     []ExportEntry
}

// Names returns the entry file names in archive order.
func (b *ExportBundle) Names() []string {
	names := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		names[i] = e.Name
	}
	return names
}
