package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ExtractPlainText decodes a .txt upload as UTF-8. Invalid UTF-8 is an error;
// a leading byte-order mark is dropped.
func ExtractPlainText(_ context.Context, fileBytes []byte) (string, error) {
	if offset := invalidUTF8Offset(fileBytes); offset >= 0 {
		return "", fmt.Errorf("invalid UTF-8 byte 0x%02x at offset %d", fileBytes[offset], offset)
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(fileBytes)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(decoded), nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// docxExpansionFactor bounds how far word/document.xml may inflate relative to
// the upload size limit.
const (
	docxExpansionFactor  = 4
	defaultMaxDocxXMLLen = docxExpansionFactor * 50 * 1024 * 1024
)

var errZipEntryTooLarge = errors.New("zip entry too large")

// ExtractDocx returns the text of every body-level paragraph of a .docx file,
// joined with newlines. Paragraphs nested in tables or text boxes are not part
// of the body and are skipped.
func ExtractDocx(_ context.Context, docxBytes []byte) (string, error) {
	return extractDocx(docxBytes, defaultMaxDocxXMLLen)
}

// DocxExtractor is ExtractDocx with document.xml capped at maxXMLLen
// uncompressed bytes.
func DocxExtractor(maxXMLLen int64) ExtractorFunc {
	if maxXMLLen <= 0 {
		maxXMLLen = defaultMaxDocxXMLLen
	}
	return func(_ context.Context, docxBytes []byte) (string, error) {
		return extractDocx(docxBytes, maxXMLLen)
	}
}

func extractDocx(docxBytes []byte, maxXMLLen int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	documentXML, err := readZipFile(zr, "word/document.xml", maxXMLLen)
	if errors.Is(err, errZipEntryTooLarge) {
		return "", fmt.Errorf("docx too large: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("invalid docx (missing word/document.xml): %w", err)
	}

	paragraphs, err := parseDocxParagraphs(documentXML)
	if err != nil {
		return "", fmt.Errorf("invalid docx (malformed document.xml): %w", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// parseDocxParagraphs walks document.xml keeping a stack of open elements so
// that only paragraphs whose parent is <w:body> are collected. Text of
// paragraphs nested inside a body paragraph (text boxes) is dropped.
func parseDocxParagraphs(documentXML []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(documentXML))

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inBodyPara bool
		inText     bool
		nested     int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "p" {
				switch {
				case len(stack) > 0 && stack[len(stack)-1] == "body":
					inBodyPara = true
					nested = 0
					current.Reset()
				case inBodyPara:
					nested++
				}
			}
			if inBodyPara && nested == 0 {
				inRun := len(stack) > 0 && stack[len(stack)-1] == "r"
				switch {
				case name == "t":
					inText = true
				case name == "tab" && inRun:
					current.WriteString("\t")
				case (name == "br" || name == "cr") && inRun:
					current.WriteString("\n")
				}
			}
			stack = append(stack, name)

		case xml.CharData:
			if inBodyPara && inText && nested == 0 {
				current.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				switch {
				case !inBodyPara:
				case nested > 0:
					nested--
				case len(stack) > 0 && stack[len(stack)-1] == "body":
					paragraphs = append(paragraphs, current.String())
					inBodyPara = false
				}
			}
		}
	}

	return paragraphs, nil
}

func readZipFile(zr *zip.Reader, name string, limit int64) ([]byte, error) {
	// Try exact match first.
	for _, f := range zr.File {
		if f.Name == name {
			return readZipEntry(f, limit)
		}
	}
	// Then case-insensitive match.
	lower := strings.ToLower(name)
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == lower {
			return readZipEntry(f, limit)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// readZipEntry inflates f, failing once more than limit bytes come out. The
// declared size is checked first but not trusted.
func readZipEntry(f *zip.File, limit int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s declares %d bytes, limit is %d", errZipEntryTooLarge, f.Name, f.UncompressedSize64, limit)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", errZipEntryTooLarge, f.Name, limit)
	}
	return data, nil
}
