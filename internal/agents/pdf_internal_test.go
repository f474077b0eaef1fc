package agents

import "testing"

func TestSortPageFiles(t *testing.T) {
	names := []string{
		"document_Content_page_10.txt",
		"document_Content_page_2.txt",
		"document_Content_page_1.txt",
		"document_Content_page_3.txt",
	}

	sortPageFiles(names)

	want := []string{
		"document_Content_page_1.txt",
		"document_Content_page_2.txt",
		"document_Content_page_3.txt",
		"document_Content_page_10.txt",
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"document_Content_page_3.txt", 3},
		{"document_Content_page_12.txt", 12},
		{"page7", 7},
		{"readme.txt", -1},
	}

	for _, tt := range tests {
		if got := pageNumber(tt.name); got != tt.want {
			t.Errorf("pageNumber(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
