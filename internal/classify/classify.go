// Package classify derives the presentational kind of a message body.
// Classification is a pure function of the body and is recomputed on read;
// the store never persists a kind.
package classify

import (
	"net/url"
	"path"
	"strings"

	"github.com/and161185/msgdesk/internal/model"
)

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".svg": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".mov": {}, ".avi": {}, ".mkv": {},
}

var videoHosts = map[string]struct{}{
	"youtube.com": {}, "www.youtube.com": {}, "youtu.be": {}, "vimeo.com": {},
}

// Kind classifies a body as image, video or text, in that order of precedence.
func Kind(body string) model.Kind {
	s := strings.TrimSpace(body)
	if s == "" {
		return model.KindText
	}
	ext := strings.ToLower(path.Ext(trimQuery(s)))
	if _, ok := imageExts[ext]; ok {
		return model.KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return model.KindVideo
	}
	if u, err := url.Parse(s); err == nil {
		if _, ok := videoHosts[strings.ToLower(u.Host)]; ok {
			return model.KindVideo
		}
	}
	return model.KindText
}

// trimQuery drops a query string or fragment so path.Ext sees the real
// extension of a URL body.
func trimQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}
