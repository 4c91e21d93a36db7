package extractor

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// Attachment is one embedded file pulled out of a statement container.
type Attachment struct {
	Name string
	Data []byte
}

// cfbMagic is the Compound File Binary signature used by Outlook .msg files.
var cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ExtractAttachments lists the embedded attachments of a statement container.
// Statement messages arrive either as RFC 822 .eml files or as Outlook .msg
// compound files; the container kind is detected from the bytes, not the
// extension.
func ExtractAttachments(data []byte) ([]Attachment, error) {
	if bytes.HasPrefix(data, cfbMagic) {
		return extractFromMsg(data)
	}
	return extractFromEML(data)
}

// extractFromEML walks the MIME tree of an RFC 822 message and collects
// every part that carries a filename.
func extractFromEML(data []byte) ([]Attachment, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a readable message: %w", err)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		// Single-part message; nothing attached.
		return nil, nil
	}

	return walkMultipart(msg.Body, params["boundary"])
}

func walkMultipart(body io.Reader, boundary string) ([]Attachment, error) {
	var attachments []Attachment

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return attachments, fmt.Errorf("malformed multipart body: %w", err)
		}

		mediaType, params, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if strings.HasPrefix(mediaType, "multipart/") {
			nested, err := walkMultipart(part, params["boundary"])
			if err != nil {
				return attachments, err
			}
			attachments = append(attachments, nested...)
			continue
		}

		name := partFilename(part)
		if name == "" {
			continue
		}

		content, err := io.ReadAll(decodedPartBody(part))
		if err != nil {
			continue
		}
		attachments = append(attachments, Attachment{Name: name, Data: content})
	}

	return attachments, nil
}

func partFilename(part *multipart.Part) string {
	if name := part.FileName(); name != "" {
		return name
	}
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
	if err == nil {
		return params["name"]
	}
	return ""
}

func decodedPartBody(part *multipart.Part) io.Reader {
	switch strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, part)
	case "quoted-printable":
		return quotedprintable.NewReader(part)
	default:
		return part
	}
}

// MAPI property streams inside an Outlook attachment storage.
const (
	msgAttachPrefix   = "__attach_version1.0_"
	msgPropData       = "__substg1.0_37010102" // attachment bytes
	msgPropLongName   = "__substg1.0_3707001F" // long filename, UTF-16LE
	msgPropShortName  = "__substg1.0_3704001F" // 8.3 filename, UTF-16LE
	msgPropDisplayStr = "__substg1.0_3001001F" // display name, UTF-16LE
)

// extractFromMsg reads an Outlook .msg compound file and collects each
// attachment storage's filename and payload streams.
func extractFromMsg(data []byte) ([]Attachment, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a readable compound file: %w", err)
	}

	type msgAttachment struct {
		data      []byte
		longName  string
		shortName string
		display   string
	}
	found := map[string]*msgAttachment{}
	var order []string

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		storage := attachStorage(entry.Path)
		if storage == "" {
			continue
		}
		att := found[storage]
		if att == nil {
			att = &msgAttachment{}
			found[storage] = att
			order = append(order, storage)
		}

		switch entry.Name {
		case msgPropData:
			att.data, _ = io.ReadAll(entry)
		case msgPropLongName:
			raw, _ := io.ReadAll(entry)
			att.longName = decodeUTF16LE(raw)
		case msgPropShortName:
			raw, _ := io.ReadAll(entry)
			att.shortName = decodeUTF16LE(raw)
		case msgPropDisplayStr:
			raw, _ := io.ReadAll(entry)
			att.display = decodeUTF16LE(raw)
		}
	}

	var attachments []Attachment
	for _, storage := range order {
		att := found[storage]
		if len(att.data) == 0 {
			continue
		}
		name := att.longName
		if name == "" {
			name = att.shortName
		}
		if name == "" {
			name = att.display
		}
		attachments = append(attachments, Attachment{Name: name, Data: att.data})
	}
	return attachments, nil
}

// attachStorage returns the attachment storage name an entry belongs to, or
// "" when the entry sits outside any attachment subtree.
func attachStorage(path []string) string {
	for _, p := range path {
		if strings.HasPrefix(p, msgAttachPrefix) {
			return p
		}
	}
	return ""
}

func decodeUTF16LE(raw []byte) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, binary.LittleEndian.Uint16(raw[i:]))
	}
	return strings.TrimRight(string(utf16.Decode(units)), "\x00")
}
