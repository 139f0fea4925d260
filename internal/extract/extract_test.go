package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestFromBytesPlainText(t *testing.T) {
	got, err := FromBytes(context.Background(), []byte("  Jane Doe\nPython developer \n"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "Jane Doe\nPython developer" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestFromBytesTxtExtensionFallback(t *testing.T) {
	got, err := FromBytes(context.Background(), []byte("plain resume"), "application/octet-stream", "resume.txt")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "plain resume" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestFromBytesDocx(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Python and SQL</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := FromBytes(context.Background(), buf.Bytes(), "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := "Jane Doe\nPython and SQL"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromBytesUnsupported(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "photo.jpg")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestFromBytesInvalidPDF(t *testing.T) {
	if _, err := FromBytes(context.Background(), []byte("not a pdf"), "application/pdf", "resume.pdf"); err == nil {
		t.Error("expected error for invalid pdf data")
	}
}
