package sitechat

// Default chunking parameters, tuned for short-form business site copy.
const (
	DefaultChunkSize    = 1100
	DefaultChunkOverlap = 180
)

// Chunk represents one retrievable slice of a page's extracted text.
// Chunks are unique by (domain, url, chunkId); chunkId is the 0-based
// position of the chunk within its source page.
type Chunk struct {
	ID          string `json:"id"`
	Domain      string `json:"domain"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	ChunkID     int    `json:"chunkId"`
	Content     string `json:"content"`
	ContentHash string `json:"contentHash"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.Domain == "" {
		return Errorf(EINVALID, "chunk domain required")
	}
	if c.URL == "" {
		return Errorf(EINVALID, "chunk URL required")
	}
	if c.ChunkID < 0 {
		return Errorf(EINVALID, "chunk position must not be negative")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// SplitText splits normalized page text into overlapping windows of at
// most size characters. Text no longer than size yields a single chunk.
// Consecutive windows overlap by overlap characters; the last window may
// be shorter and always ends at the end of the text. An overlap at or
// above size is ignored and the windows do not overlap.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step < 1 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
