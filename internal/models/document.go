package models

// CorpusEntry is one scraped source page as produced by the scraper:
// a URL, a title and an ordered list of text chunks.
type CorpusEntry struct {
	URL    string  `json:"url"`
	Title  string  `json:"title"`
	Chunks []Chunk `json:"chunks"`
}

// Chunk is a contiguous span of text from one corpus entry. The ID is
// unique within its entry; the JSON side allows any scalar type so it is
// normalized to a string at load time.
type Chunk struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// IndexedUnit is the persisted form of a chunk inside the vector index.
// Source and Title are inherited from the parent corpus entry so every
// retrieval result stays traceable to a citation.
type IndexedUnit struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Title   string `json:"title"`
	ChunkID string `json:"chunk_id"`
}

// Metadata returns the unit's provenance in the wire shape consumed by
// the UI and the evaluation harness.
func (u IndexedUnit) Metadata() map[string]string {
	return map[string]string{
		"source":   u.Source,
		"title":    u.Title,
		"chunk_id": u.ChunkID,
	}
}

// ScoredUnit is an indexed unit paired with its similarity score for one
// query. Higher scores mean more similar.
type ScoredUnit struct {
	IndexedUnit
	Score float64 `json:"score"`
}

// SourceDocument is the citation-facing view of a retrieved unit.
type SourceDocument struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// AnswerRecord is the full result of one question: the generated answer
// plus the retrieved evidence, in the shape the evaluation harness
// (Ragas) expects. Contexts keeps the raw chunk texts in retrieval order.
type AnswerRecord struct {
	Question        string           `json:"question"`
	Answer          string           `json:"answer"`
	Contexts        []string         `json:"contexts"`
	SourceDocuments []SourceDocument `json:"source_documents"`
}

// NewAnswerRecord builds an AnswerRecord from retrieval results.
func NewAnswerRecord(question, answer string, units []ScoredUnit) *AnswerRecord {
	rec := &AnswerRecord{
		Question:        question,
		Answer:          answer,
		Contexts:        make([]string, 0, len(units)),
		SourceDocuments: make([]SourceDocument, 0, len(units)),
	}
	for _, u := range units {
		rec.Contexts = append(rec.Contexts, u.Text)
		rec.SourceDocuments = append(rec.SourceDocuments, SourceDocument{
			Text:     u.Text,
			Metadata: u.Metadata(),
		})
	}
	return rec
}
