package shared

import "testing"

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 42, want: "0:42"},
		{name: "minutes", seconds: 266, want: "4:26"},
		{name: "over an hour", seconds: 3723, want: "1:02:03"},
		{name: "negative clamps to zero", seconds: -5, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestReleaseYear(t *testing.T) {
	tc := []struct {
		name string
		date string
		want string
	}{
		{name: "full date", date: "2000-07-10", want: "2000"},
		{name: "year only", date: "1999", want: "1999"},
		{name: "too short", date: "99", want: ""},
		{name: "empty", date: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReleaseYear(tt.date); got != tt.want {
				t.Errorf("ReleaseYear(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
