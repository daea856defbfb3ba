package executor

import (
	"mime"
	"path"
)

func guessContentType(key string) string {
	ext := path.Ext(key)
	if ext == "" {
		return ""
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return ""
	}

	return contentType
}
