package processor

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Nairod97425/Rag/internal/models"
)

// ProcessorConfig controls how page text is cut into corpus chunks.
type ProcessorConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	MinChunkLength int
}

// Processor splits scraped page text into overlapping chunks sized for
// the embedding model.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 1024
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 200
	}
	if config.MinChunkLength == 0 {
		config.MinChunkLength = 100
	}

	return Processor{
		config: config,
	}
}

// Process cleans the page text and cuts it into numbered chunks. Chunk
// ids restart at zero for every page; they only need to be unique within
// their corpus entry.
func (p *Processor) Process(text string) []models.Chunk {
	pieces := p.splitIntoChunks(p.cleanText(text))

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, models.Chunk{
			ID:   strconv.Itoa(i),
			Text: piece,
		})
	}
	return chunks
}

func (p *Processor) cleanText(text string) string {
	// Collapse runs of whitespace; page extractions are full of them.
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}

func (p *Processor) splitIntoChunks(text string) []string {
	var chunks []string

	sentences := p.splitIntoSentences(text)

	currentChunk := strings.Builder{}

	for _, sentence := range sentences {
		if currentChunk.Len()+len(sentence) > p.config.ChunkSize {
			if currentChunk.Len() >= p.config.MinChunkLength {
				chunks = append(chunks, strings.TrimSpace(currentChunk.String()))
			}

			// Start the next chunk with the tail of the previous one so
			// context is not lost at the boundary. The cut point backs up
			// to a rune start so accented text is never split mid-rune.
			if p.config.ChunkOverlap > 0 && currentChunk.Len() > p.config.ChunkOverlap {
				text := currentChunk.String()
				cut := len(text) - p.config.ChunkOverlap
				for cut > 0 && !utf8.RuneStart(text[cut]) {
					cut--
				}
				lastPart := text[cut:]
				currentChunk.Reset()
				currentChunk.WriteString(lastPart)
			} else {
				currentChunk.Reset()
			}
		}

		currentChunk.WriteString(sentence)
		currentChunk.WriteString(" ")
	}

	if currentChunk.Len() >= p.config.MinChunkLength {
		chunks = append(chunks, strings.TrimSpace(currentChunk.String()))
	}

	return chunks
}

func (p *Processor) splitIntoSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
	var sentences []string

	current := strings.Builder{}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				sentences = append(sentences, strings.TrimSpace(current.String()))
				current.Reset()
				break
			}
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}
