package fuzzy_ner

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// LoadDictionaryFile reads and validates a YAML or JSON dictionary file.
func LoadDictionaryFile(path string) (ner.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ner.Dictionary{}, errors.Wrap(err, errors.ErrCodeDictionaryLoadFailed, "dictionary file not found").
				WithDetail("path=" + path)
		}
		return ner.Dictionary{}, errors.Wrap(err, errors.ErrCodeDictionaryLoadFailed, "read dictionary file").
			WithDetail("path=" + path)
	}
	dict, err := ParseDictionary(data)
	if err != nil {
		return ner.Dictionary{}, errors.Wrap(err, errors.CodeUnknown, "load dictionary").WithDetail("path=" + path)
	}
	return dict, nil
}

// ParseDictionary decodes a dictionary document and validates it.
func ParseDictionary(data []byte) (ner.Dictionary, error) {
	var dict ner.Dictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return ner.Dictionary{}, errors.Wrap(err, errors.ErrCodeDictionaryLoadFailed, "parse dictionary")
	}
	if err := dict.Validate(); err != nil {
		return ner.Dictionary{}, err
	}
	return dict, nil
}
