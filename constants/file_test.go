package constants

import "testing"

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want FileFormat
	}{
		{"receipt.png", IMAGE},
		{"receipt.JPG", IMAGE},
		{"scan.jpeg", IMAGE},
		{"invoice.pdf", PDF},
		{"invoice.PDF", PDF},
		{"bill.docx", DOCX},
		{"bill.doc", DOCX},
		{"notes.txt", UNSUPPORTED},
		{"archive.zip", UNSUPPORTED},
		{"noextension", UNSUPPORTED},
		{"/tmp/uploads/receipt.png", IMAGE},
	}
	for _, tc := range cases {
		if got := DetectFormat(tc.path); got != tc.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestMapMIMEToFormat(t *testing.T) {
	cases := []struct {
		mime string
		want FileFormat
	}{
		{"image/png", IMAGE},
		{"image/jpeg", IMAGE},
		{"application/pdf", PDF},
		{"application/pdf; charset=binary", PDF},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", DOCX},
		{"text/plain", UNSUPPORTED},
		{"", UNSUPPORTED},
	}
	for _, tc := range cases {
		if got := MapMIMEToFormat(tc.mime); got != tc.want {
			t.Errorf("MapMIMEToFormat(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}
