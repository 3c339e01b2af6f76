package rockandroll

import "strings"

// Song is an entry in the track list. File is the audio file name, looked
// up in the configured songs directory; Pattern is an optional chart.
type Song struct {
	Name    string
	BPM     int
	File    string
	Pattern string
}

var library = []Song{
	{Name: "Stranger - Jumpmonk", BPM: 120, File: "Stranger - Jumpmonk.mp3"},
	{Name: "Willow Tree - Homephone", BPM: 140, File: "Willow Tree - Homephone.mp3"},
	{Name: "Hoobastank - The Reason", BPM: 166, File: "Hoobastank - The Reason.mp3"},
	{Name: "Hot Tea - Homephone", BPM: 166, File: "Hot Tea - Homephone.mp3"},
}

// Songs returns the built-in track list.
func Songs() []Song {
	return append([]Song(nil), library...)
}

// FindSong looks a song up by name, ignoring case. A unique prefix is
// enough, so "hot" finds "Hot Tea - Homephone".
func FindSong(name string) (Song, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Song{}, false
	}
	var match []Song
	for _, s := range library {
		n := strings.ToLower(s.Name)
		if n == name {
			return s, true
		}
		if strings.HasPrefix(n, name) {
			match = append(match, s)
		}
	}
	if len(match) == 1 {
		return match[0], true
	}
	return Song{}, false
}
