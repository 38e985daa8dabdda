package api

import (
	"errors"
	"testing"

	"github.com/nukgsz/schoolsite/internal/store"
)

func TestParseReorder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []store.PositionUpdate
	}{
		{
			name: "bare array",
			body: `[{"id": 3, "position": 1}, {"id": "4", "position": "2"}]`,
			want: []store.PositionUpdate{{ID: "3", Position: 1}, {ID: "4", Position: 2}},
		},
		{
			name: "wrapped with index positions",
			body: `{"sections": [{"id": 7}, {"id": 5}]}`,
			want: []store.PositionUpdate{{ID: "7", Position: 1}, {ID: "5", Position: 2}},
		},
		{
			name: "sort order alias",
			body: `{"staffList": [{"id": 1, "sort_order": 9}]}`,
			want: []store.PositionUpdate{{ID: "1", Position: 9}},
		},
		{
			name: "content keys",
			body: `{"items": [{"key": "hero"}, {"key": "footer"}]}`,
			want: []store.PositionUpdate{{ID: "hero", Position: 1}, {ID: "footer", Position: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReorder([]byte(tt.body))
			if err != nil {
				t.Fatalf("parseReorder: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseReorderEmpty(t *testing.T) {
	for _, body := range []string{``, `[]`, `{"other": []}`, `[{"position": 1}]`} {
		if _, err := parseReorder([]byte(body)); !errors.Is(err, errEmptyReorder) {
			t.Errorf("parseReorder(%q) error = %v, want errEmptyReorder", body, err)
		}
	}
}
