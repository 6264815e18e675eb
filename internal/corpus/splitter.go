package corpus

import "github.com/krishisathi/sathi/internal/domain"

// Split cuts documents into sliding-window chunks of at most size runes,
// where consecutive chunks of one document share exactly overlap runes.
// overlap must be smaller than size; otherwise the window could not advance.
// Pure function: document order and provenance are preserved.
func Split(docs []domain.Document, size, overlap int) []domain.Chunk {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, splitDocument(doc, size, overlap)...)
	}
	return chunks
}

func splitDocument(doc domain.Document, size, overlap int) []domain.Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap

	var chunks []domain.Chunk
	for start, pos := 0, 0; start < len(runes); start, pos = start+step, pos+1 {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			Text:   string(runes[start:end]),
			Source: doc.Source,
			File:   doc.File,
			Page:   doc.Page,
			Pos:    pos,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
