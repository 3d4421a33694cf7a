package pagination

import "testing"

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of many", 1, 20, 45, 3, true, false},
		{"middle page", 2, 20, 45, 3, true, true},
		{"last page", 3, 20, 45, 3, false, true},
		{"exact division", 2, 10, 20, 2, false, true},
		{"empty result", 1, 20, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := GetMeta(&Params{Page: tt.page, Limit: tt.limit}, tt.total)
			if meta.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.totalPages)
			}
			if meta.HasNext != tt.hasNext {
				t.Errorf("HasNext = %v, want %v", meta.HasNext, tt.hasNext)
			}
			if meta.HasPrev != tt.hasPrev {
				t.Errorf("HasPrev = %v, want %v", meta.HasPrev, tt.hasPrev)
			}
		})
	}
}
