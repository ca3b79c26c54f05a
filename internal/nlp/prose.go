package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Prose is the English model backed by github.com/jdkato/prose/v2.
//
// The tagger and entity weights are decoded once in NewProse and only read
// afterwards, so one Prose may be shared by any number of goroutines.
type Prose struct {
	model *prose.Model
}

// NewProse loads the default English tagger and entity extractor. Loading
// decodes the embedded weights; call it once at startup and share the result.
func NewProse() *Prose {
	return &Prose{model: prose.ModelFromData("en-v2")}
}

// Name implements Model.
func (p *Prose) Name() string {
	return "prose/en-v2"
}

// Entities implements EntityRecognizer.
func (p *Prose) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false))
	if err != nil {
		return nil
	}
	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	return out
}

// NounChunks implements NounChunker.
func (p *Prose) NounChunks(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil
	}
	toks := doc.Tokens()
	words := make([]string, len(toks))
	tags := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Text
		tags[i] = t.Tag
	}
	return ChunkTagged(words, tags)
}

// ChunkTagged groups Penn Treebank tagged tokens into base noun phrases:
// an optional determiner or possessive, any modifiers, and at least one
// noun. A run that ends in a modifier is cut back to its last noun.
func ChunkTagged(words, tags []string) []string {
	var chunks []string
	var run []string
	lastNoun := -1

	flush := func() {
		if lastNoun >= 0 {
			chunks = append(chunks, joinTokens(run[:lastNoun+1]))
		}
		run = run[:0]
		lastNoun = -1
	}

	for i := range words {
		tag := tags[i]
		switch {
		case isNoun(tag):
			run = append(run, words[i])
			lastNoun = len(run) - 1
		case isModifier(tag):
			run = append(run, words[i])
		case tag == "DT" || tag == "PRP$":
			flush()
			run = append(run, words[i])
		default:
			flush()
		}
	}
	flush()
	return chunks
}

func isNoun(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func isModifier(tag string) bool {
	switch tag {
	case "JJ", "JJR", "JJS", "CD", "VBG", "VBN", "HYPH":
		return true
	}
	return false
}

// joinTokens rebuilds a phrase, re-attaching hyphens the tokenizer split off.
func joinTokens(toks []string) string {
	s := strings.Join(toks, " ")
	return strings.ReplaceAll(s, " - ", "-")
}
