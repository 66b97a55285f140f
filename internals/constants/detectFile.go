package constants

import (
	"path"
	"strings"
)

// Attachment kinds for homework sends
const (
	AttachmentAudio    = "audio"
	AttachmentDocument = "document"
	AttachmentPDF      = "pdf"
	AttachmentImage    = "image"
	AttachmentOther    = "other"
)

// DetectAttachmentKind guesses the attachment kind from the file name or URL path.
func DetectAttachmentKind(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3", ".wav", ".m4a", ".ogg", ".webm":
		return AttachmentAudio
	case ".doc", ".docx", ".odt":
		return AttachmentDocument
	case ".pdf":
		return AttachmentPDF
	case ".png", ".jpg", ".jpeg", ".webp":
		return AttachmentImage
	default:
		return AttachmentOther
	}
}
