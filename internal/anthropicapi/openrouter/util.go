package openrouter

import "io"

func readAllString(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(b)
}

func intPtr(v int) *int {
	return &v
}
