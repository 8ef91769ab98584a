package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Software Engineer with 5 years of experience.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	text, err := ExtractTextFromBytes(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Fatalf("missing name in extracted text: %q", text)
	}
	if !strings.Contains(text, "Software Engineer with 5 years") {
		t.Fatalf("missing body in extracted text: %q", text)
	}
	// Paragraph ends become line breaks.
	if !strings.Contains(text, "Jane Doe\n") {
		t.Fatalf("expected newline after first paragraph: %q", text)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	// http.DetectContentType labels DOCX payloads application/zip.
	if _, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("plain resume text"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if text != "plain resume text" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_OctetStreamFallsBackToExtension(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("extension wins"), "application/octet-stream", "resume.txt")
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if text != "extension wins" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_InvalidUTF8Rejected(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain", "resume.txt"); err == nil {
		t.Fatal("expected error for invalid utf-8 payload")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		mime     string
		fileName string
		want     bool
	}{
		{"application/pdf", "resume.pdf", true},
		{"application/zip", "resume.docx", true},
		{"text/plain; charset=utf-8", "resume.txt", true},
		{"application/octet-stream", "resume.txt", true},
		{"image/png", "resume.png", false},
		{"application/octet-stream", "resume.exe", false},
	}
	for _, tc := range tests {
		if got := Supported(tc.mime, tc.fileName); got != tc.want {
			t.Errorf("Supported(%q, %q) = %v, want %v", tc.mime, tc.fileName, got, tc.want)
		}
	}
}

func TestStripDocxXML(t *testing.T) {
	got := stripDocxXML(sampleDocumentXML)
	want := "Jane Doe\nSoftware Engineer with 5 years of experience."
	if got != want {
		t.Fatalf("stripDocxXML = %q, want %q", got, want)
	}
}

func TestStripDocxXMLIgnoresIndentation(t *testing.T) {
	// Pretty-printed document.xml carries whitespace-only character data
	// between elements; it must not leak into the extracted text.
	const doc = `<w:document xmlns:w="http://example.com/w">
	  <w:body>
	    <w:p>
	      <w:r><w:t>Skills: </w:t></w:r>
	      <w:r><w:t>Go, Python</w:t></w:r>
	    </w:p>
	  </w:body>
	</w:document>`

	got := stripDocxXML(doc)
	if got != "Skills: Go, Python" {
		t.Fatalf("stripDocxXML = %q, want %q", got, "Skills: Go, Python")
	}
}
