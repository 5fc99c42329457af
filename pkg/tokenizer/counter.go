package tokenizer

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// o200kPrefixes are the model families tokenized with o200k_base.
// Everything else falls back to cl100k_base.
var o200kPrefixes = []string{
	"gpt-5",
	"gpt-4.1",
	"gpt-4o",
	"o1",
	"o3",
	"o4",
}

// EncodingFor returns the tiktoken encoding used by the named model.
func EncodingFor(model string) tokenizer.Encoding {
	for _, p := range o200kPrefixes {
		if strings.HasPrefix(model, p) {
			return tokenizer.O200kBase
		}
	}
	return tokenizer.Cl100kBase
}

// CountTokens returns the number of tokens text encodes to for model.
func CountTokens(text, model string) (uint64, error) {
	if text == "" {
		return 0, nil
	}

	encName := EncodingFor(model)
	enc, err := tokenizer.Get(encName)
	if err != nil {
		return 0, fmt.Errorf("load encoding %s: %w", encName, err)
	}

	ids, _, err := enc.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode text: %w", err)
	}
	return uint64(len(ids)), nil
}
