package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed fallback_words.txt web
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// FallbackWords is the offline challenge list used when the word API is unreachable.
func FallbackWords() ([]string, error) {
	return readLines("fallback_words.txt")
}

// Web is the score viewer (index.html, scripts.js) rooted at its directory.
func Web() (fs.FS, error) {
	return fs.Sub(FS, "web")
}
