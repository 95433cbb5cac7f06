package ingest

import (
	"strings"

	"math-mentor-be/pkg/ragstore"
)

// Header metadata keys, one per split level.
const (
	headerKey1 = "Header 1"
	headerKey2 = "Header 2"
	headerKey3 = "Header 3"
)

// SplitMarkdown splits one knowledge document at heading boundaries
// (levels 1-3) into chunks. Each chunk carries the originating filename as
// its source identifier and the heading hierarchy above it as metadata.
// Deeper headings (####+) stay inside the surrounding chunk.
func SplitMarkdown(filename, content string) []ragstore.Chunk {
	var chunks []ragstore.Chunk

	headers := map[string]string{}
	var body []string
	inFence := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if text == "" {
			return
		}
		meta := make(map[string]string, len(headers))
		for k, v := range headers {
			meta[k] = v
		}
		chunks = append(chunks, ragstore.Chunk{
			Text:     text,
			Source:   filename,
			Metadata: meta,
		})
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			body = append(body, line)
			continue
		}
		if inFence {
			body = append(body, line)
			continue
		}

		level, title := headingLevel(trimmed)
		if level == 0 || level > 3 {
			body = append(body, line)
			continue
		}

		flush()
		switch level {
		case 1:
			headers[headerKey1] = title
			delete(headers, headerKey2)
			delete(headers, headerKey3)
		case 2:
			headers[headerKey2] = title
			delete(headers, headerKey3)
		case 3:
			headers[headerKey3] = title
		}
	}
	flush()

	return chunks
}

// headingLevel returns the ATX heading level of a line, or 0 if it is not a
// heading. "#Title" without a space is not a heading.
func headingLevel(line string) (int, string) {
	if !strings.HasPrefix(line, "#") {
		return 0, ""
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}
