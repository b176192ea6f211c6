package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for result records.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Labels holds the categorical annotations carried verbatim from a source row.
type Labels struct {
	Level1                    string `json:"level1"`
	Level2                    string `json:"level2"`
	Level3                    string `json:"level3"`
	LeafContractCategory      string `json:"leafContractCategory"`
	RootCause                 string `json:"rootCause"`
	Effect                    string `json:"effect"`
	MLLibrary                 string `json:"mlLibrary"`
	ContractViolationLocation string `json:"contractViolationLocation"`
	DetectionTechnique        string `json:"detectionTechnique"`
	ReasonsForNotLabeling     string `json:"reasonsForNotLabeling"`
	ReasonsForLabeling        string `json:"reasonsForLabeling"`
}

// Record is a single Q&A row read from the source collection.
// Question and Answer hold normalized (markdown) text.
type Record struct {
	Ordinal  int // 1-based position in the source collection
	PostURL  string
	Title    string
	APIName  string
	Question string
	Answer   string
	Labels   Labels
}

// InputText renders the record into the text submitted for embedding.
func (r *Record) InputText() string {
	var api, title string
	if r.APIName != "" {
		api = "ML API Name: " + r.APIName
	}
	if r.Title != "" {
		title = "Title: " + r.Title
	}
	lines := []string{
		api,
		title,
		"Question:",
		strings.TrimSpace(r.Question),
		"",
		"Answer:",
		strings.TrimSpace(r.Answer),
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ID returns the content ID of the record, derived from its post URL and input text.
func (r *Record) ID() ID {
	return IDFromContent(r.PostURL + "\x00" + r.InputText())
}

// ResultRecord is a Record enriched with its embedding.
// UsedLength is the number of characters of the input text that were embedded.
type ResultRecord struct {
	Id         ID        `json:"-"`
	Ordinal    int       `json:"-"`
	PostURL    string    `json:"postURL"`
	Title      string    `json:"title"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	MLAPIName  string    `json:"mlApiName"`
	Embedding  []float32 `json:"embedding"`
	UsedLength int       `json:"usedLength"`
	Label      Labels    `json:"label"`
}

// NewResultRecord builds a ResultRecord from a record and its embedding.
func NewResultRecord(r *Record, embedding []float32, usedLength int) *ResultRecord {
	return &ResultRecord{
		Id:         r.ID(),
		Ordinal:    r.Ordinal,
		PostURL:    r.PostURL,
		Title:      r.Title,
		Question:   r.Question,
		Answer:     r.Answer,
		MLAPIName:  r.APIName,
		Embedding:  embedding,
		UsedLength: usedLength,
		Label:      r.Labels,
	}
}
