package models

import "testing"

// TestMediaIsImage verifies image detection by MIME type prefix.
func TestMediaIsImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "jpeg", contentType: "image/jpeg", want: true},
		{name: "png", contentType: "image/png", want: true},
		{name: "svg", contentType: "image/svg+xml", want: true},
		{name: "pdf", contentType: "application/pdf", want: false},
		{name: "empty", contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Media{ContentType: tt.contentType}
			if got := m.IsImage(); got != tt.want {
				t.Errorf("Media{ContentType: %q}.IsImage() = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

// TestMediaHumanSize verifies human-readable size formatting boundaries.
func TestMediaHumanSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "bytes", bytes: 512, want: "512 B"},
		{name: "exactly 1 KB", bytes: 1024, want: "1 KB"},
		{name: "kilobytes", bytes: 2048, want: "2 KB"},
		{name: "megabytes", bytes: 1024 * 1024 * 3 / 2, want: "1.5 MB"},
		{name: "zero", bytes: 0, want: "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Media{SizeBytes: tt.bytes}
			if got := m.HumanSize(); got != tt.want {
				t.Errorf("Media{SizeBytes: %d}.HumanSize() = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

// TestContactIsOpen verifies that only new and read submissions count as open.
func TestContactIsOpen(t *testing.T) {
	tests := []struct {
		status ContactStatus
		want   bool
	}{
		{status: ContactStatusNew, want: true},
		{status: ContactStatusRead, want: true},
		{status: ContactStatusReplied, want: false},
		{status: ContactStatusResolved, want: false},
		{status: ContactStatusSpam, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			c := &ContactSubmission{Status: tt.status}
			if got := c.IsOpen(); got != tt.want {
				t.Errorf("ContactSubmission{Status: %q}.IsOpen() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
