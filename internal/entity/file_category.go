package entity

import "fmt"

// FileCategory is the closed set of upload slots a patient file can
// belong to. Only document uploads feed the vector store.
type FileCategory int

const (
	CategoryDocuments FileCategory = iota
	CategoryInfo
	CategoryAnswerKey
	CategoryProfilePicture
)

func ParseFileCategory(s string) (FileCategory, error) {
	switch s {
	case "documents":
		return CategoryDocuments, nil
	case "info":
		return CategoryInfo, nil
	case "answer_key":
		return CategoryAnswerKey, nil
	case "profile_picture":
		return CategoryProfilePicture, nil
	default:
		return 0, fmt.Errorf("unknown file category %q", s)
	}
}

func (c FileCategory) String() string {
	switch c {
	case CategoryDocuments:
		return "documents"
	case CategoryInfo:
		return "info"
	case CategoryAnswerKey:
		return "answer_key"
	case CategoryProfilePicture:
		return "profile_picture"
	default:
		return "unknown"
	}
}

// Ingestible reports whether files in this category are embedded into
// the patient's collection. Info, answer key and profile picture slots
// are recorded but never embedded.
func (c FileCategory) Ingestible() bool {
	return c == CategoryDocuments
}
